package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/estimate"
	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(4)
}

// band formats a min/max pair, collapsing to a single price when the
// band is degenerate.
func band(min, max decimal.Decimal) string {
	if min.Equal(max) {
		return money(min)
	}
	return money(min) + " - " + money(max)
}

func renderEstimate(w io.Writer, est *estimate.Estimate) {
	fmt.Fprintf(w, "Model:     %s (%s)\n", est.Model, est.Media)
	if est.DurationSeconds > 0 {
		fmt.Fprintf(w, "Duration:  %ds\n", est.DurationSeconds)
	}
	fmt.Fprintf(w, "Count:     %d\n", est.Count)
	fmt.Fprintf(w, "Per unit:  %s (avg %s)\n",
		band(est.PerUnit.Min, est.PerUnit.Max), money(est.PerUnit.Avg))
	fmt.Fprintf(w, "Total:     %s (avg %s) %s\n",
		band(est.TotalMin, est.TotalMax), money(est.TotalAvg), est.Currency)
}

// priceBand summarizes a model's pricing rule for the catalog listing.
func priceBand(rule pricing.Rule) string {
	switch r := rule.(type) {
	case pricing.Flat:
		return money(r.Price)
	case pricing.PerSecondTiered:
		return band(r.PerSecond.Min, r.PerSecond.Max) + " /s"
	case pricing.PerUnitTiered:
		return band(r.PerUnit.Min, r.PerUnit.Max)
	case pricing.QualitySizeMatrix:
		var min, max decimal.Decimal
		first := true
		for _, entry := range r.Entries {
			if first || entry.Min.LessThan(min) {
				min = entry.Min
			}
			if first || entry.Max.GreaterThan(max) {
				max = entry.Max
			}
			first = false
		}
		if first {
			return "varies"
		}
		return band(min, max)
	default:
		return "varies"
	}
}

func renderModels(w io.Writer, models []*catalog.ModelDescriptor) {
	fmt.Fprintf(w, "%-28s %-6s %-12s %s\n", "MODEL", "TYPE", "PROVIDER", "PRICE")
	for _, m := range models {
		extra := ""
		if len(m.Durations) > 0 {
			secs := make([]string, len(m.Durations))
			for i, d := range m.Durations {
				secs[i] = fmt.Sprintf("%ds", d)
			}
			extra = "  [" + strings.Join(secs, ", ") + "]"
		}
		fmt.Fprintf(w, "%-28s %-6s %-12s %s%s\n", m.ID, m.Media, m.Provider, priceBand(m.Pricing), extra)
	}
	fmt.Fprintf(w, "\nTotal: %d models\n", len(models))
}
