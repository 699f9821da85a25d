package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joblane/joblane/internal/apperr"
	"github.com/joblane/joblane/internal/models"
)

// Connect opens the postgres connection and migrates the schema. The
// composite unique index on job_applications(job_id, applicant_id) created
// here is the authoritative backstop for the one-application-per-job rule;
// the intake service's pre-check is only an optimization.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, apperr.Wrap(err, "failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Job{},
		&models.Application{},
		&models.JobView{},
	); err != nil {
		return nil, apperr.Wrap(err, "failed to run migrations")
	}
	return db, nil
}
