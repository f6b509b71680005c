package util

import (
	"strconv"
)

// MustParseUint parses s as an unsigned integer, returning 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
