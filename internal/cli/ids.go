package cli

import (
	"fmt"
	"strings"

	"github.com/five82/pinmap/internal/pin"
	"github.com/five82/pinmap/internal/state"
)

// resolveID maps a full id or a unique id prefix to a pin id.
func resolveID(repo *state.Repository, arg string) (pin.ID, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("pin id is empty")
	}
	if repo.Contains(pin.ID(arg)) {
		return pin.ID(arg), nil
	}

	var matches []pin.ID
	for _, p := range repo.List() {
		if strings.HasPrefix(string(p.ID), arg) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("pin %q: %w", arg, pin.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("pin id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}
