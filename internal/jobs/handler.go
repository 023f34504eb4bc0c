package jobs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/shared/server/respond"
)

// Handler exposes the job recommendation endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/job-recommendations", h.recommend)
}

func (h *Handler) recommend(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_failed", "Resume data is required", nil)
		return
	}
	respond.OK(c, h.Svc.Recommend(c.Request.Context(), req))
}
