package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

// Raw service catalog schema (GET /v1/models). The shape is owned by the
// service; we parse it into descriptors and keep nothing else.
type rawCatalog struct {
	Data []rawModel `json:"data"`
}

type rawModel struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Provider        string     `json:"provider"`
	Output          []string   `json:"output"`
	Pricing         rawPricing `json:"pricing"`
	Seconds         []int      `json:"seconds,omitempty"`
	Sizes           []string   `json:"sizes,omitempty"`
	SupportedParams struct {
		Edit bool `json:"edit"`
	} `json:"supported_params"`
}

type rawPricing struct {
	Type   string           `json:"type"`
	Value  json.Number      `json:"value,omitempty"`
	Range  *rawRange        `json:"range,omitempty"`
	Matrix []rawMatrixEntry `json:"matrix,omitempty"`
}

type rawRange struct {
	Min     json.Number `json:"min"`
	Max     json.Number `json:"max"`
	Average json.Number `json:"average,omitempty"`
}

type rawMatrixEntry struct {
	Quality string      `json:"quality"`
	Size    string      `json:"size"`
	Min     json.Number `json:"min"`
	Max     json.Number `json:"max"`
	Average json.Number `json:"average,omitempty"`
}

// ParseRaw parses the service's raw model list into a snapshot. Models
// with a pricing shape we cannot evaluate are skipped with a warning
// rather than failing the whole refresh.
func ParseRaw(data []byte) (*Snapshot, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing model catalog: %w", err)
	}

	var models []*ModelDescriptor
	for _, rm := range raw.Data {
		if rm.ID == "" {
			continue
		}
		m, err := rm.toDescriptor()
		if err != nil {
			slog.Warn("skipping model with unusable pricing", "model", rm.ID, "error", err)
			continue
		}
		models = append(models, m)
	}

	return NewSnapshot(models)
}

func (rm rawModel) toDescriptor() (*ModelDescriptor, error) {
	rule, err := rm.Pricing.toRule(rm.Seconds)
	if err != nil {
		return nil, err
	}

	media := MediaImage
	for _, out := range rm.Output {
		if out == string(MediaVideo) {
			media = MediaVideo
			break
		}
	}

	name := rm.Name
	if name == "" {
		name = rm.ID
	}
	provider := rm.Provider
	if provider == "" {
		provider = "unknown"
	}

	return &ModelDescriptor{
		ID:           rm.ID,
		Name:         name,
		Provider:     provider,
		Media:        media,
		SupportsEdit: rm.SupportedParams.Edit,
		Durations:    rm.Seconds,
		Sizes:        rm.Sizes,
		Pricing:      rule,
	}, nil
}

func (rp rawPricing) toRule(seconds []int) (pricing.Rule, error) {
	switch rp.Type {
	case "fixed":
		price, err := parseDecimal(rp.Value)
		if err != nil {
			return nil, fmt.Errorf("fixed price: %w", err)
		}
		return pricing.Flat{Price: price}, nil

	case "per_second":
		if len(seconds) == 0 {
			return nil, fmt.Errorf("per_second pricing without duration tiers")
		}
		band, err := rp.Range.toRange()
		if err != nil {
			return nil, err
		}
		return pricing.PerSecondTiered{Tiers: seconds, PerSecond: band}, nil

	case "calculated", "post_generation":
		band, err := rp.Range.toRange()
		if err != nil {
			return nil, err
		}
		return pricing.PerUnitTiered{PerUnit: band}, nil

	case "quality_size":
		if len(rp.Matrix) == 0 {
			return nil, fmt.Errorf("quality_size pricing without matrix entries")
		}
		entries := make(map[pricing.MatrixKey]pricing.Range, len(rp.Matrix))
		for _, e := range rp.Matrix {
			band, err := (&rawRange{Min: e.Min, Max: e.Max, Average: e.Average}).toRange()
			if err != nil {
				return nil, fmt.Errorf("matrix entry (%s, %s): %w", e.Quality, e.Size, err)
			}
			entries[pricing.MatrixKey{Quality: e.Quality, Size: e.Size}] = band
		}
		return pricing.QualitySizeMatrix{Entries: entries}, nil

	default:
		return nil, fmt.Errorf("unknown pricing type %q", rp.Type)
	}
}

func (rr *rawRange) toRange() (pricing.Range, error) {
	if rr == nil {
		return pricing.Range{}, fmt.Errorf("missing price range")
	}
	min, err := parseDecimal(rr.Min)
	if err != nil {
		return pricing.Range{}, fmt.Errorf("range min: %w", err)
	}
	max, err := parseDecimal(rr.Max)
	if err != nil {
		return pricing.Range{}, fmt.Errorf("range max: %w", err)
	}
	if min.GreaterThan(max) {
		return pricing.Range{}, fmt.Errorf("range min %s exceeds max %s", min, max)
	}
	band := pricing.Range{Min: min, Max: max}
	if rr.Average != "" {
		avg, err := parseDecimal(rr.Average)
		if err != nil {
			return pricing.Range{}, fmt.Errorf("range average: %w", err)
		}
		if avg.LessThan(min) || avg.GreaterThan(max) {
			return pricing.Range{}, fmt.Errorf("range average %s outside [%s, %s]", avg, min, max)
		}
		band.Average = &avg
	}
	return band, nil
}

// parseDecimal goes through json.Number's string form so prices never
// round-trip through float64.
func parseDecimal(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Decimal{}, fmt.Errorf("missing price value")
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("price %q: %w", n, err)
	}
	if v.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %q", n)
	}
	return v, nil
}
