package validation

import (
	"fmt"

	apperrors "go-reveal-quiz/internal/errors"
	"go-reveal-quiz/pkg/models"
)

// Bounds for user-supplied round parameters. Elapsed and progress values are
// clamped by the engine and never rejected here.
const (
	maxTimeLimitSeconds = 3600.0
)

// RoundValidator checks create-round requests before they reach the service.
type RoundValidator struct {
	urls *URLValidator
}

// NewRoundValidator creates a round validator with default URL settings.
func NewRoundValidator() *RoundValidator {
	return &RoundValidator{urls: NewURLValidator()}
}

// ValidateCreateRound rejects malformed round requests. Mode strings are
// validated downstream by the reveal package; this layer checks source
// consistency and parameter ranges.
func (v *RoundValidator) ValidateCreateRound(req models.CreateRoundRequest) error {
	switch req.Source {
	case "", "dataset":
		if req.URL != "" {
			return apperrors.NewValidationError("dataset source does not accept a url", nil)
		}
	case "url", "azure":
		if err := v.urls.ValidateImageURL(req.URL); err != nil {
			return err
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown image source: %q", req.Source), nil)
	}

	if req.TimeLimit < 0 {
		return apperrors.NewValidationError("time_limit must not be negative", nil)
	}
	if req.TimeLimit > maxTimeLimitSeconds {
		return apperrors.NewValidationError(
			fmt.Sprintf("time_limit must not exceed %.0f seconds", maxTimeLimitSeconds), nil)
	}
	return nil
}
