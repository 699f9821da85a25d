package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/dtos"
	"github.com/joblane/joblane/internal/services"
	"github.com/joblane/joblane/internal/validation"
)

// maxSubmissionSize caps the whole multipart submission. Generous enough
// that an oversized resume is still reported as a field error rather than
// a connection reset.
const maxSubmissionSize = 10 << 20

// ApplicationHandler maps the intake and review services onto the HTTP
// surface used by the pages.
type ApplicationHandler struct {
	Intake *services.IntakeService
	Review *services.ReviewService
	Log    *zap.SugaredLogger
}

func NewApplicationHandler(intake *services.IntakeService, review *services.ReviewService, log *zap.SugaredLogger) *ApplicationHandler {
	return &ApplicationHandler{Intake: intake, Review: review, Log: log}
}

// Apply is POST /jobs/:id/apply. Multipart form: applicant_name,
// applicant_email, cover_letter (optional), resume (optional file).
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, err := auth.RequireActor(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmissionSize)

	in := services.SubmitInput{
		SubmitApplicationInput: validation.SubmitApplicationInput{
			ApplicantName:  c.PostForm("applicant_name"),
			ApplicantEmail: c.PostForm("applicant_email"),
			CoverLetter:    c.PostForm("cover_letter"),
		},
	}

	if file, err := c.FormFile("resume"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read resume"})
			return
		}
		defer f.Close()

		in.Resume = f
		in.ResumeFilename = file.Filename
		in.ResumeSize = file.Size
		in.ResumeContentType = file.Header.Get("Content-Type")
	}

	app, err := h.Intake.Submit(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"application": dtos.SubmitApplicationResponse{
			ID:          app.ID,
			Status:      app.Status,
			SubmittedAt: app.SubmittedAt,
		},
	})
}

// UpdateStatus is PATCH /jobs/:id/applications/:applicationId.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, err := auth.RequireActor(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	var req dtos.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	app, err := h.Review.UpdateStatus(c.Request.Context(), actor, c.Param("id"), c.Param("applicationId"), req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"application": dtos.StatusUpdateResponse{
			ID:        app.ID,
			Status:    app.Status,
			UpdatedAt: app.UpdatedAt,
		},
	})
}

// Get is GET /jobs/:id/applications/:applicationId, readable by the job
// owner or the applicant.
func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, err := auth.RequireActor(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	detail, err := h.Review.Get(c.Request.Context(), actor, c.Param("id"), c.Param("applicationId"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListForJob is GET /jobs/:id/applications, owner only.
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	actor, err := auth.RequireActor(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	apps, err := h.Review.ListForJob(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// ListForApplicant is GET /applications, the caller's own submissions.
func (h *ApplicationHandler) ListForApplicant(c *gin.Context) {
	actor, err := auth.RequireActor(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	apps, err := h.Review.ListForApplicant(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
