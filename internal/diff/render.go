package diff

import (
	"fmt"
	"strings"
)

// Render formats a changeset for terminal output.
func Render(cs *ChangeSet) string {
	if !cs.HasChanges() {
		return fmt.Sprintf("No changes (%d models unchanged).\n", cs.Unchanged)
	}

	var b strings.Builder

	if len(cs.Added) > 0 {
		fmt.Fprintf(&b, "Added (%d):\n", len(cs.Added))
		for _, m := range cs.Added {
			fmt.Fprintf(&b, "  + %s (%s)\n", m.ID, m.Media)
		}
	}

	if len(cs.Removed) > 0 {
		fmt.Fprintf(&b, "Removed (%d):\n", len(cs.Removed))
		for _, m := range cs.Removed {
			fmt.Fprintf(&b, "  - %s (%s)\n", m.ID, m.Media)
		}
	}

	if len(cs.Changed) > 0 {
		fmt.Fprintf(&b, "Changed (%d):\n", len(cs.Changed))
		for _, mc := range cs.Changed {
			fmt.Fprintf(&b, "  ~ %s\n", mc.ID)
			for _, fc := range mc.Changes {
				fmt.Fprintf(&b, "      %s: %s -> %s\n", fc.Field, fc.Old, fc.New)
			}
		}
	}

	fmt.Fprintf(&b, "Unchanged: %d\n", cs.Unchanged)
	return b.String()
}
