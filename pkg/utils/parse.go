package utils

import (
	"strconv"
	"strings"
)

// ParseInt reads a query-style integer, falling back to def on blank or
// malformed input.
func ParseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
