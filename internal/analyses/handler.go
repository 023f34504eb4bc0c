package analyses

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ragebait-resume/internal/roast"
	"ragebait-resume/internal/shared/server/middleware"
	"ragebait-resume/internal/shared/server/respond"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	// multipartOverhead leaves room for form fields and boundaries.
	multipartOverhead = 1 << 20
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+multipartOverhead)

	fileName, data, err := h.readUpload(c)
	if err != nil {
		h.writeFailure(c, err)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), Input{
		Owner:       middleware.UserIDFromContext(c),
		FileName:    fileName,
		Data:        data,
		Intensity:   roast.ParseIntensity(firstForm(c, "intensity", "roastIntensity")),
		JobPosition: firstForm(c, "jobPosition"),
		JobField:    firstForm(c, "jobField"),
	})
	if err != nil {
		h.writeFailure(c, err)
		return
	}
	c.Set("resumeId", result.ResumeID)

	respond.OK(c, result.Response)
}

// readUpload returns the resume from the "file" or "resume" field.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, error) {
	var (
		header *multipart.FileHeader
		err    error
	)
	for _, field := range []string{"file", "resume"} {
		header, err = c.FormFile(field)
		if err == nil {
			break
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, ErrFileTooLarge
		}
	}
	if header == nil {
		return "", nil, ErrMissingFile
	}
	if header.Size > h.MaxUploadBytes {
		return "", nil, ErrFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.MaxUploadBytes+1))
	if err != nil {
		return "", nil, err
	}
	if int64(len(data)) > h.MaxUploadBytes {
		return "", nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", nil, ErrMissingFile
	}
	return header.Filename, data, nil
}

func (h *Handler) writeFailure(c *gin.Context, err error) {
	f := classifyFailure(err)
	if f.Code == ErrorCodeUpstreamTimeout {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	respond.Error(c, f.Status, f.Code, f.Message, f.Details)
}

func firstForm(c *gin.Context, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(c.PostForm(k)); v != "" {
			return v
		}
	}
	return ""
}
