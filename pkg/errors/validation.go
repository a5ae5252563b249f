package errors

import (
	"math"
	"strings"
	"unicode"
)

// Limits applied to scene input.
const (
	MaxLabelLength = 200
	MaxHrefLength  = 2048
	MaxLinks       = 500
	MaxViewport    = 32768.0
)

// ValidateLabel checks a link label: non-blank, bounded, no control characters.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidScene, "link label cannot be empty")
	}
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidScene, "link label too long (max %d characters)", MaxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "link label contains control characters")
		}
	}
	return nil
}

// ValidateHref checks a link destination. Relative paths, fragments and
// http(s)/mailto URLs are accepted; script URLs are rejected.
func ValidateHref(href string) error {
	if href == "" {
		return New(ErrCodeInvalidScene, "link href cannot be empty")
	}
	if len(href) > MaxHrefLength {
		return New(ErrCodeInvalidScene, "link href too long (max %d characters)", MaxHrefLength)
	}
	for _, r := range href {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "link href contains control characters")
		}
	}
	lower := strings.ToLower(strings.TrimSpace(href))
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") {
		return New(ErrCodeInvalidScene, "link href uses a disallowed scheme")
	}
	return nil
}

// ValidateViewport checks that a viewport has finite, positive dimensions.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
		}
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %gx%g", width, height)
	}
	if width > MaxViewport || height > MaxViewport {
		return New(ErrCodeInvalidViewport, "viewport too large (max %g)", MaxViewport)
	}
	return nil
}
