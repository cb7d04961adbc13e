// Package catalog holds the model catalog: immutable snapshots of the
// models the service offers, each with its pricing rule. Snapshots are
// replaced wholesale on refresh, never mutated in place.
package catalog

import "github.com/imagerouter/imagerouter-go/internal/pricing"

// MediaType is what a model produces.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaImage MediaType = "image"
)

// ModelDescriptor describes one model offered by the service.
type ModelDescriptor struct {
	ID           string
	Name         string
	Provider     string
	Media        MediaType
	SupportsEdit bool
	// Durations lists the allowed video durations in seconds, in the
	// order the service reports them. Empty for image models.
	Durations []int
	Sizes     []string
	Pricing   pricing.Rule
}

// DefaultDuration returns the model's first supported duration, used when
// the caller does not pick one. ok is false for models without a tier set.
func (m *ModelDescriptor) DefaultDuration() (int, bool) {
	if len(m.Durations) == 0 {
		return 0, false
	}
	return m.Durations[0], true
}
