package analyses

import (
	"context"
	"errors"
	"net/http"

	"ragebait-resume/internal/extract"
	"ragebait-resume/internal/llm"
)

var (
	// ErrMissingFile means the request carried no resume upload.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrFileTooLarge means the upload exceeded the configured limit.
	ErrFileTooLarge = errors.New("file exceeds upload limit")
)

const (
	ErrorCodeMissingFile        = "missing_file"
	ErrorCodeFileTooLarge       = "file_too_large"
	ErrorCodeUnsupportedFormat  = "unsupported_format"
	ErrorCodeNoText             = "no_text"
	ErrorCodeMissingCredentials = "missing_credentials"
	ErrorCodeUpstreamTimeout    = "upstream_timeout"
	ErrorCodeUpstreamDown       = "upstream_unavailable"
	ErrorCodeUpstream           = "upstream_error"
	ErrorCodeCanceled           = "canceled"
	ErrorCodeInternal           = "internal"
)

// retryAfterSeconds is advertised when the completion service timed out.
const retryAfterSeconds = 30

// failure is how an analysis error is presented over HTTP.
type failure struct {
	Status  int
	Code    string
	Message string
	Details any
}

func classifyFailure(err error) failure {
	var upErr *llm.UpstreamError
	switch {
	case err == nil:
		return failure{Status: http.StatusInternalServerError, Code: ErrorCodeInternal, Message: "Failed to analyze resume"}
	case errors.Is(err, ErrMissingFile):
		return failure{Status: http.StatusBadRequest, Code: ErrorCodeMissingFile, Message: "No file uploaded"}
	case errors.Is(err, ErrFileTooLarge):
		return failure{Status: http.StatusRequestEntityTooLarge, Code: ErrorCodeFileTooLarge, Message: "File is too large"}
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return failure{
			Status:  http.StatusBadRequest,
			Code:    ErrorCodeUnsupportedFormat,
			Message: "Unsupported file format",
			Details: "Upload a PDF, DOCX or plain text resume",
		}
	case errors.Is(err, extract.ErrNoText):
		return failure{Status: http.StatusBadRequest, Code: ErrorCodeNoText, Message: "No text could be extracted from the file"}
	case errors.Is(err, llm.ErrMissingCredentials):
		return failure{
			Status:  http.StatusInternalServerError,
			Code:    ErrorCodeMissingCredentials,
			Message: "GROQ_API_KEY is missing or not set properly. Please check your .env file.",
			Details: "Get your API key from https://console.groq.com/ and add it to your .env file",
		}
	case errors.Is(err, llm.ErrUpstreamTimeout):
		return failure{Status: http.StatusServiceUnavailable, Code: ErrorCodeUpstreamTimeout, Message: "The analysis service timed out. Please try again."}
	case errors.As(err, &upErr) && upErr.Unreachable:
		return failure{Status: http.StatusServiceUnavailable, Code: ErrorCodeUpstreamDown, Message: "The analysis service is unavailable. Please try again later."}
	case errors.As(err, &upErr):
		details := map[string]any{"message": upErr.Message}
		if upErr.StatusCode > 0 {
			details["upstreamStatus"] = upErr.StatusCode
		}
		return failure{Status: http.StatusInternalServerError, Code: ErrorCodeUpstream, Message: "Failed to analyze resume", Details: details}
	case errors.Is(err, context.Canceled):
		return failure{Status: http.StatusServiceUnavailable, Code: ErrorCodeCanceled, Message: "Request canceled"}
	default:
		return failure{Status: http.StatusInternalServerError, Code: ErrorCodeInternal, Message: "Failed to analyze resume. Please try again."}
	}
}
