package domain

import "errors"

var (
	ErrMissingCredential = errors.New("credential is empty")
	ErrMalformedPrefix   = errors.New("credential must start with sk-")
	ErrTooShort          = errors.New("credential is too short")
	ErrNotAuthenticated  = errors.New("session is not authenticated")
	ErrNoImageSupplied   = errors.New("image analysis requested without an image")
	ErrNoInput           = errors.New("neither symptoms nor image supplied")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrImageTooLarge     = errors.New("image too large")
	ErrMessageNotFound   = errors.New("message not found")
	ErrActiveRequest     = errors.New("active request exists")
	ErrSessionNotFound   = errors.New("session not found")
)
