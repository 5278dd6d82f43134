// SPDX-License-Identifier: GPL-3.0-or-later

package status

import (
	"strconv"
	"strings"
)

// splitFields tokenizes line on commas and tabs with classic strtok
// semantics: delimiter runs collapse, and leading or trailing delimiters
// produce no empty fields. It fills dst in order, silently discarding
// fields beyond its capacity, and returns the number of fields stored.
// A line without a single non-delimiter byte yields zero fields.
func splitFields(line string, dst []string) int {
	n := 0
	start := -1

	for i := 0; i <= len(line); i++ {
		if i < len(line) && line[i] != ',' && line[i] != '\t' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start == -1 {
			continue
		}
		if n == len(dst) {
			return n
		}
		dst[n] = line[start:i]
		n++
		start = -1
	}

	return n
}

// parseCounter parses a 64-bit unsigned counter value. Malformed values
// yield zero: a single bad field must not abort the whole read cycle.
func parseCounter(s string) uint64 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
