package interview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/shared/server/respond"
)

// Handler exposes the interview endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interview/question", h.question)
	rg.POST("/interview/feedback", h.feedback)
}

func (h *Handler) question(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.OK(c, gin.H{"question": DefaultQuestion, "source": SourceFallback})
		return
	}
	q, source := h.Svc.NextQuestion(c.Request.Context(), req)
	respond.OK(c, gin.H{"question": q, "source": source})
}

func (h *Handler) feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_failed", "Transcript and question are required", nil)
		return
	}
	fb, source := h.Svc.Assess(c.Request.Context(), req)
	c.Header("X-Feedback-Source", string(source))
	respond.OK(c, fb)
}
