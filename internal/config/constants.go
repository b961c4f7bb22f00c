package config

import "time"

const (
	// Credential format
	CredentialPrefix    = "sk-"
	CredentialMinLength = 20

	// Image detail requested from the vision model
	ImageDetail = "high"

	// Session janitor interval
	SessionCleanupInterval = 10 * time.Minute
)

// Profile is a completion configuration for one consultation mode.
type Profile struct {
	Name         string
	MaxTokens    int64
	Temperature  float64
	ProgressStep int
	ProgressTick time.Duration
}

var (
	// ProfileCombined serves text and text+image consultations.
	ProfileCombined = Profile{
		Name:         "combined",
		MaxTokens:    1200,
		Temperature:  0.7,
		ProgressStep: 10,
		ProgressTick: 100 * time.Millisecond,
	}

	// ProfileImageOnly serves image-only analysis.
	ProfileImageOnly = Profile{
		Name:         "image_only",
		MaxTokens:    1500,
		Temperature:  0.3,
		ProgressStep: 20,
		ProgressTick: 200 * time.Millisecond,
	}
)

// AllowedImageTypes lists the media types accepted for upload.
var AllowedImageTypes = []string{"image/jpeg", "image/png"}
