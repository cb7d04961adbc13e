package pricing

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

// Params carries the requested generation parameters a rule may price on.
// Rules ignore fields they do not use.
type Params struct {
	Seconds int
	Quality string
	Size    string
}

// Rule prices one output unit for the given parameters, or rejects
// parameters the model does not support. Rules are pure: the same params
// always yield the same quote.
type Rule interface {
	PriceFor(p Params) (Quote, error)
}

// Flat is a constant price regardless of parameters.
type Flat struct {
	Price decimal.Decimal
}

// Flat prices ignore params entirely.
func (f Flat) PriceFor(Params) (Quote, error) {
	return FixedRange(f.Price).Quote(), nil
}

// PerSecondTiered prices video by duration: unit price = seconds x the
// per-second band. Only durations in the tier set are accepted.
type PerSecondTiered struct {
	Tiers     []int
	PerSecond Range
}

func (r PerSecondTiered) PriceFor(p Params) (Quote, error) {
	if !slices.Contains(r.Tiers, p.Seconds) {
		return Quote{}, apperrors.New(apperrors.KindValidation,
			"duration %ds not supported (valid: %v)", p.Seconds, r.Tiers)
	}
	return r.PerSecond.Quote().MulInt(int64(p.Seconds)), nil
}

// PerUnitTiered prices per output with no shape constraint; the band is
// returned unchanged.
type PerUnitTiered struct {
	PerUnit Range
}

func (r PerUnitTiered) PriceFor(Params) (Quote, error) {
	return r.PerUnit.Quote(), nil
}

// MatrixKey addresses one cell of a quality/size pricing grid.
type MatrixKey struct {
	Quality string
	Size    string
}

// QualitySizeMatrix is a discrete price lookup keyed by requested quality
// and output size. Combinations outside the grid are rejected.
type QualitySizeMatrix struct {
	Entries map[MatrixKey]Range
}

func (r QualitySizeMatrix) PriceFor(p Params) (Quote, error) {
	band, ok := r.Entries[MatrixKey{Quality: p.Quality, Size: p.Size}]
	if !ok {
		return Quote{}, apperrors.New(apperrors.KindValidation,
			"no pricing for quality %q at size %q", p.Quality, p.Size)
	}
	return band.Quote(), nil
}
