package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/estimate"
	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestBand(t *testing.T) {
	if got := band(d("0.15"), d("0.30")); got != "$0.1500 - $0.3000" {
		t.Errorf("band = %q", got)
	}
	if got := band(d("0.04"), d("0.04")); got != "$0.0400" {
		t.Errorf("degenerate band = %q", got)
	}
}

func TestPriceBand(t *testing.T) {
	tests := []struct {
		name string
		rule pricing.Rule
		want string
	}{
		{"flat", pricing.Flat{Price: d("0.04")}, "$0.0400"},
		{"per second", pricing.PerSecondTiered{
			Tiers:     []int{4, 6, 8},
			PerSecond: pricing.Range{Min: d("0.15"), Max: d("0.30")},
		}, "$0.1500 - $0.3000 /s"},
		{"per unit", pricing.PerUnitTiered{
			PerUnit: pricing.Range{Min: d("0.0011"), Max: d("0.003")},
		}, "$0.0011 - $0.0030"},
		{"matrix spans all cells", pricing.QualitySizeMatrix{
			Entries: map[pricing.MatrixKey]pricing.Range{
				{Quality: "low", Size: "1024x1024"}:  {Min: d("0.011"), Max: d("0.011")},
				{Quality: "high", Size: "1024x1024"}: {Min: d("0.167"), Max: d("0.167")},
			},
		}, "$0.0110 - $0.1670"},
		{"empty matrix", pricing.QualitySizeMatrix{}, "varies"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priceBand(tt.rule); got != tt.want {
				t.Errorf("priceBand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderEstimate(t *testing.T) {
	est := &estimate.Estimate{
		Model:           "google/veo-3.1-fast",
		Media:           "video",
		DurationSeconds: 4,
		Count:           3,
		PerUnit:         pricing.Quote{Min: d("0.60"), Avg: d("0.90"), Max: d("1.20")},
		TotalMin:        d("1.80"),
		TotalAvg:        d("2.70"),
		TotalMax:        d("3.60"),
		Currency:        "USD",
	}

	var buf strings.Builder
	renderEstimate(&buf, est)
	out := buf.String()

	for _, want := range []string{
		"google/veo-3.1-fast (video)",
		"Duration:  4s",
		"Count:     3",
		"$0.6000 - $1.2000 (avg $0.9000)",
		"$1.8000 - $3.6000 (avg $2.7000) USD",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
