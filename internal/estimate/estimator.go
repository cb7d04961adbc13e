// Package estimate computes generation cost estimates against the current
// catalog snapshot. It performs no I/O: the only failures are validation
// and unknown-model errors, and the same inputs against the same snapshot
// always produce the same result.
package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

// Estimate is the priced breakdown for one generation request.
// Totals are exactly PerUnit x Count; rounding is left to display code.
type Estimate struct {
	Model           string            `json:"model"`
	Media           catalog.MediaType `json:"type"`
	DurationSeconds int               `json:"duration_seconds,omitempty"`
	Count           int               `json:"count"`
	PerUnit         pricing.Quote     `json:"price_per_unit"`
	TotalMin        decimal.Decimal   `json:"total_min"`
	TotalAvg        decimal.Decimal   `json:"total_avg"`
	TotalMax        decimal.Decimal   `json:"total_max"`
	Currency        string            `json:"currency"`
}

// Estimator prices requests against a catalog store. Each call reads one
// snapshot; concurrent refreshes never tear an in-flight estimate.
type Estimator struct {
	store *catalog.Store
}

func New(store *catalog.Store) *Estimator {
	return &Estimator{store: store}
}

// Video estimates a video generation. seconds == 0 means "use the model's
// default duration"; negative seconds are rejected.
func (e *Estimator) Video(modelID string, seconds, count int) (*Estimate, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, apperrors.New(apperrors.KindValidation, "duration must be positive, got %ds", seconds)
	}

	m, err := e.store.Snapshot().Lookup(modelID)
	if err != nil {
		return nil, err
	}
	if m.Media != catalog.MediaVideo {
		return nil, apperrors.New(apperrors.KindValidation,
			"model %q does not support video generation", modelID)
	}

	if seconds == 0 {
		def, ok := m.DefaultDuration()
		if !ok {
			return nil, apperrors.New(apperrors.KindValidation,
				"model %q requires an explicit duration", modelID)
		}
		seconds = def
	}

	unit, err := m.Pricing.PriceFor(pricing.Params{Seconds: seconds})
	if err != nil {
		return nil, err
	}

	return build(m, unit, count, seconds), nil
}

// Image estimates an image generation. Quality and size default to "auto"
// when empty; rules that do not price on them ignore them.
func (e *Estimator) Image(modelID, quality, size string, count int) (*Estimate, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}

	m, err := e.store.Snapshot().Lookup(modelID)
	if err != nil {
		return nil, err
	}
	if m.Media != catalog.MediaImage {
		return nil, apperrors.New(apperrors.KindValidation,
			"model %q does not support image generation", modelID)
	}

	if quality == "" {
		quality = "auto"
	}
	if size == "" {
		size = "auto"
	}

	unit, err := m.Pricing.PriceFor(pricing.Params{Quality: quality, Size: size})
	if err != nil {
		return nil, err
	}

	return build(m, unit, count, 0), nil
}

func validateCount(count int) error {
	if count < 1 {
		return apperrors.New(apperrors.KindValidation, "count must be at least 1, got %d", count)
	}
	return nil
}

func build(m *catalog.ModelDescriptor, unit pricing.Quote, count, seconds int) *Estimate {
	total := unit.MulInt(int64(count))
	return &Estimate{
		Model:           m.ID,
		Media:           m.Media,
		DurationSeconds: seconds,
		Count:           count,
		PerUnit:         unit,
		TotalMin:        total.Min,
		TotalAvg:        total.Avg,
		TotalMax:        total.Max,
		Currency:        "USD",
	}
}
