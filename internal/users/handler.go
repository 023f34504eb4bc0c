package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/shared/server/middleware"
	"ragebait-resume/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches account routes; rg is expected to be the /auth group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)

	authed := rg.Group("", middleware.RequireUser())
	authed.GET("/me", h.me)
	authed.POST("/save-resume", h.saveResume)
	authed.DELETE("/resumes/:resumeId", h.deleteResume)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	session, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Server error during registration")
		return
	}
	respond.Created(c, sessionBody(session))
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	session, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Server error during login")
		return
	}
	respond.OK(c, sessionBody(session))
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.Me(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.writeError(c, err, "Server error fetching user profile")
		return
	}
	respond.OK(c, gin.H{"success": true, "user": user.Account()})
}

func (h *Handler) saveResume(c *gin.Context) {
	var req SaveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, err)
		return
	}
	saved, err := h.Svc.SaveResume(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		h.writeError(c, err, "Server error saving resume")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Resume saved successfully", "savedResumes": saved})
}

func (h *Handler) deleteResume(c *gin.Context) {
	resumeID := strings.TrimSpace(c.Param("resumeId"))
	if resumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_failed", "Resume ID is required", nil)
		return
	}
	saved, err := h.Svc.DeleteResume(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		h.writeError(c, err, "Server error deleting resume")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Resume deleted successfully", "savedResumes": saved})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusBadRequest, "user_exists", "User with this email or username already exists", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", fallback, nil)
	}
}

func sessionBody(s Session) gin.H {
	return gin.H{
		"success": true,
		"token":   s.Token,
		"user":    s.User.Profile(),
	}
}
