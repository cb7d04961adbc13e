// Package diff compares two catalog snapshots, typically the bundled
// model table against the live service catalog, so users can see what
// changed before relying on an offline estimate.
package diff

import (
	"fmt"
	"slices"
	"strings"

	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/pricing"
)

// ChangeSet is the complete diff between an old and a new snapshot.
type ChangeSet struct {
	Added     []*catalog.ModelDescriptor
	Removed   []*catalog.ModelDescriptor
	Changed   []ModelChange
	Unchanged int
}

// ModelChange is an existing model whose fields differ between snapshots.
type ModelChange struct {
	ID      string
	Changes []FieldChange
}

// FieldChange is one differing field, with both values rendered for display.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// HasChanges reports whether the changeset has any modifications.
func (cs *ChangeSet) HasChanges() bool {
	return len(cs.Added) > 0 || len(cs.Removed) > 0 || len(cs.Changed) > 0
}

// Compute diffs new against old. Models only in new are additions, models
// only in old are removals.
func Compute(old, new *catalog.Snapshot) *ChangeSet {
	cs := &ChangeSet{}

	seen := make(map[string]bool, new.Len())
	for _, m := range new.List("") {
		seen[m.ID] = true

		prev, err := old.Lookup(m.ID)
		if err != nil {
			cs.Added = append(cs.Added, m)
			continue
		}

		changes := fieldChanges(prev, m)
		if len(changes) > 0 {
			cs.Changed = append(cs.Changed, ModelChange{ID: m.ID, Changes: changes})
		} else {
			cs.Unchanged++
		}
	}

	for _, m := range old.List("") {
		if !seen[m.ID] {
			cs.Removed = append(cs.Removed, m)
		}
	}

	return cs
}

func fieldChanges(old, new *catalog.ModelDescriptor) []FieldChange {
	var changes []FieldChange

	if old.Provider != new.Provider {
		changes = append(changes, FieldChange{Field: "provider", Old: old.Provider, New: new.Provider})
	}
	if old.Media != new.Media {
		changes = append(changes, FieldChange{Field: "type", Old: string(old.Media), New: string(new.Media)})
	}
	if !slices.Equal(old.Durations, new.Durations) {
		changes = append(changes, FieldChange{
			Field: "durations",
			Old:   fmt.Sprint(old.Durations),
			New:   fmt.Sprint(new.Durations),
		})
	}
	if oldSig, newSig := ruleSignature(old.Pricing), ruleSignature(new.Pricing); oldSig != newSig {
		changes = append(changes, FieldChange{Field: "pricing", Old: oldSig, New: newSig})
	}

	return changes
}

// ruleSignature renders a pricing rule into a canonical comparable form.
func ruleSignature(rule pricing.Rule) string {
	switch r := rule.(type) {
	case pricing.Flat:
		return "flat " + r.Price.String()
	case pricing.PerSecondTiered:
		return fmt.Sprintf("per-second %s %v", rangeSignature(r.PerSecond), r.Tiers)
	case pricing.PerUnitTiered:
		return "per-unit " + rangeSignature(r.PerUnit)
	case pricing.QualitySizeMatrix:
		cells := make([]string, 0, len(r.Entries))
		for key, band := range r.Entries {
			cells = append(cells, fmt.Sprintf("%s/%s=%s", key.Quality, key.Size, rangeSignature(band)))
		}
		slices.Sort(cells)
		return "matrix " + strings.Join(cells, " ")
	default:
		return fmt.Sprintf("%T", rule)
	}
}

func rangeSignature(r pricing.Range) string {
	s := r.Min.String() + ".." + r.Max.String()
	if r.Average != nil {
		s += " avg " + r.Average.String()
	}
	return s
}
