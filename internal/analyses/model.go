package analyses

import (
	"ragebait-resume/internal/roast"
)

// Input is one uploaded resume plus its roast options.
type Input struct {
	// Owner namespaces the archived upload; empty means anonymous.
	Owner       string
	FileName    string
	Data        []byte
	Intensity   roast.Intensity
	JobPosition string
	JobField    string
}

// Response is the analyze endpoint body.
type Response struct {
	ResumeID string `json:"resumeId"`
	roast.Result
	RoastIntensity string `json:"roastIntensity"`
	JobPosition    string `json:"jobPosition,omitempty"`
	JobField       string `json:"jobField,omitempty"`
}

// Analysis is a completed run with its parse diagnostics.
type Analysis struct {
	Response
	Report roast.Report
	// Cached is set when the result came from the cache instead of the LLM.
	Cached bool
	// StorageKey is the archived upload, empty when archiving was skipped or failed.
	StorageKey string
}
