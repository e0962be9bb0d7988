// Package idgen allocates sequential human-readable identifiers such as
// "C007" and "SR012". Allocation is maximum-based, never gap-filling, and
// carries no locking: the surrounding system is single-writer per request.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultWidth is the zero-padded suffix width for clinic and rep IDs.
const DefaultWidth = 3

// Next returns the next identifier for the prefix given the existing IDs,
// using the default suffix width.
func Next(prefix string, existing []string) string {
	return NextWidth(prefix, existing, DefaultWidth)
}

// NextWidth scans existing for identifiers of the form prefix+digits,
// takes the maximum numeric suffix (0 when none match) and returns
// prefix + zero_padded(max+1). The padding widens past width when the
// sequence outgrows it.
func NextWidth(prefix string, existing []string, width int) string {
	max := 0
	for _, id := range existing {
		suffix, ok := strings.CutPrefix(id, prefix)
		if !ok || suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, max+1)
}
