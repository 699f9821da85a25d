package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/services"
)

// ViewHandler exposes fire-and-forget view tracking. It always reports
// success: view tracking must never degrade the viewing experience.
type ViewHandler struct {
	Views *services.ViewTrackingService
	Log   *zap.SugaredLogger
}

func NewViewHandler(views *services.ViewTrackingService, log *zap.SugaredLogger) *ViewHandler {
	return &ViewHandler{Views: views, Log: log}
}

// Record is POST /jobs/:id/view. Works for authenticated and anonymous
// viewers alike.
func (h *ViewHandler) Record(c *gin.Context) {
	jobID := c.Param("id")

	var actor *auth.Actor
	if a, ok := auth.ActorFrom(c); ok {
		actor = &a
	}

	if err := h.Views.RecordView(c.Request.Context(), actor, forwardedIP(c), jobID); err != nil {
		h.Log.Warnw("Job view tracking failed", "job_id", jobID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// forwardedIP takes the first entry of the forwarded-address header,
// falling back to a loopback placeholder when absent.
func forwardedIP(c *gin.Context) string {
	forwarded := c.GetHeader("X-Forwarded-For")
	if forwarded == "" {
		return "127.0.0.1"
	}
	return strings.TrimSpace(strings.Split(forwarded, ",")[0])
}
