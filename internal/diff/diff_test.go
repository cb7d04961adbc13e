package diff

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func snap(t *testing.T, models ...*catalog.ModelDescriptor) *catalog.Snapshot {
	t.Helper()
	s, err := catalog.NewSnapshot(models)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func veo(band pricing.Range, tiers ...int) *catalog.ModelDescriptor {
	return &catalog.ModelDescriptor{
		ID:        "google/veo-3.1-fast",
		Provider:  "google",
		Media:     catalog.MediaVideo,
		Durations: tiers,
		Pricing:   pricing.PerSecondTiered{Tiers: tiers, PerSecond: band},
	}
}

func TestComputeNoChanges(t *testing.T) {
	band := pricing.Range{Min: d("0.15"), Max: d("0.30")}
	cs := Compute(snap(t, veo(band, 4, 6, 8)), snap(t, veo(band, 4, 6, 8)))

	if cs.HasChanges() {
		t.Errorf("unexpected changes: %+v", cs)
	}
	if cs.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", cs.Unchanged)
	}
}

func TestComputeAddedAndRemoved(t *testing.T) {
	band := pricing.Range{Min: d("0.15"), Max: d("0.30")}
	flux := &catalog.ModelDescriptor{
		ID:      "bfl/flux-1.1-pro",
		Media:   catalog.MediaImage,
		Pricing: pricing.Flat{Price: d("0.04")},
	}

	cs := Compute(snap(t, veo(band, 4, 6, 8)), snap(t, flux))

	if len(cs.Added) != 1 || cs.Added[0].ID != "bfl/flux-1.1-pro" {
		t.Errorf("Added = %+v", cs.Added)
	}
	if len(cs.Removed) != 1 || cs.Removed[0].ID != "google/veo-3.1-fast" {
		t.Errorf("Removed = %+v", cs.Removed)
	}
}

func TestComputePriceChange(t *testing.T) {
	oldBand := pricing.Range{Min: d("0.15"), Max: d("0.30")}
	newBand := pricing.Range{Min: d("0.20"), Max: d("0.30")}

	cs := Compute(snap(t, veo(oldBand, 4, 6, 8)), snap(t, veo(newBand, 4, 6, 8)))

	if len(cs.Changed) != 1 {
		t.Fatalf("Changed = %+v, want one entry", cs.Changed)
	}
	mc := cs.Changed[0]
	if len(mc.Changes) != 1 || mc.Changes[0].Field != "pricing" {
		t.Errorf("Changes = %+v, want single pricing change", mc.Changes)
	}
	if !strings.Contains(mc.Changes[0].New, "0.2") {
		t.Errorf("New = %q, want new minimum in signature", mc.Changes[0].New)
	}
}

func TestComputeTierChange(t *testing.T) {
	band := pricing.Range{Min: d("0.15"), Max: d("0.30")}

	cs := Compute(snap(t, veo(band, 4, 6, 8)), snap(t, veo(band, 4, 8)))

	if len(cs.Changed) != 1 {
		t.Fatalf("Changed = %+v, want one entry", cs.Changed)
	}
	fields := make(map[string]bool)
	for _, fc := range cs.Changed[0].Changes {
		fields[fc.Field] = true
	}
	if !fields["durations"] || !fields["pricing"] {
		t.Errorf("changed fields = %v, want durations and pricing", fields)
	}
}

func TestRuleSignatureMatrixIsStable(t *testing.T) {
	m := pricing.QualitySizeMatrix{
		Entries: map[pricing.MatrixKey]pricing.Range{
			{Quality: "low", Size: "1024x1024"}:  {Min: d("0.011"), Max: d("0.011")},
			{Quality: "high", Size: "1024x1024"}: {Min: d("0.167"), Max: d("0.167")},
		},
	}

	first := ruleSignature(m)
	for i := 0; i < 10; i++ {
		if got := ruleSignature(m); got != first {
			t.Fatalf("signature not stable: %q vs %q", got, first)
		}
	}
	if !strings.HasPrefix(first, "matrix ") {
		t.Errorf("signature = %q", first)
	}
}

func TestRender(t *testing.T) {
	band := pricing.Range{Min: d("0.15"), Max: d("0.30")}
	newBand := pricing.Range{Min: d("0.20"), Max: d("0.30")}

	cs := Compute(snap(t, veo(band, 4, 6, 8)), snap(t, veo(newBand, 4, 6, 8)))
	out := Render(cs)

	if !strings.Contains(out, "~ google/veo-3.1-fast") {
		t.Errorf("render missing changed model:\n%s", out)
	}
	if !strings.Contains(out, "pricing:") {
		t.Errorf("render missing field change:\n%s", out)
	}

	if got := Render(&ChangeSet{Unchanged: 3}); !strings.Contains(got, "No changes") || !strings.HasSuffix(got, "\n") {
		t.Errorf("empty render = %q, want newline-terminated no-changes line", got)
	}
}
