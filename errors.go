package tri

import "errors"

var (
	// ErrInvalidHandle is returned when an image or font handle does not
	// resolve. The submission is skipped.
	ErrInvalidHandle = errors.New("tri: invalid or stale handle")

	// ErrNoResolver is returned when an image is submitted to a Renderer
	// created without WithResolver.
	ErrNoResolver = errors.New("tri: no image resolver configured")

	// ErrNoFonts is returned when text is submitted to a Renderer created
	// without WithFonts.
	ErrNoFonts = errors.New("tri: no font provider configured")
)
