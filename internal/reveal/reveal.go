// Package reveal implements the progressive disclosure transforms of the
// quiz: an image is obscured by blur, zoom or a hybrid of both, with the
// obscuring strength driven by a continuous progress value in [0,1]. The
// transforms are pure functions of their inputs, so the presentation layer
// can sample them at any cadence and still get a time-accurate reveal.
package reveal

import (
	"fmt"
	"image"
	"strings"
)

// Mode selects the obscuring strategy for a round. The set is closed.
type Mode string

const (
	ModeBlur   Mode = "blur"
	ModeZoom   Mode = "zoom"
	ModeHybrid Mode = "hybrid"
)

// ParseMode normalizes and validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeBlur:
		return ModeBlur, nil
	case ModeZoom:
		return ModeZoom, nil
	case ModeHybrid:
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("unknown reveal mode: %q", s)
	}
}

// Transform computes the obscured view of an image for a given progress.
// Progress 0 is maximally obscured, 1 is the fully revealed original.
// Implementations never mutate the input and return a newly allocated image;
// a nil input yields a nil result.
type Transform interface {
	Apply(img image.Image, progress float64) image.Image
	Name() string
}

// ForMode returns the transform implementing the given mode.
func ForMode(mode Mode) Transform {
	switch mode {
	case ModeZoom:
		return &ZoomTransform{}
	case ModeHybrid:
		return &HybridTransform{}
	default:
		return &BlurTransform{}
	}
}

// Reveal applies the transform for mode at the given progress. Progress
// outside [0,1] is clamped, never an error.
func Reveal(img image.Image, progress float64, mode Mode) image.Image {
	return ForMode(mode).Apply(img, progress)
}

// clampProgress restricts progress to [0,1].
func clampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
