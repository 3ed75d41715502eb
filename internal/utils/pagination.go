// Package utils provides small helpers shared by the HTTP and service
// layers for reading and bounding list parameters.
package utils

import "strconv"

// DefaultPageSize is used when a caller passes no usable page size.
const DefaultPageSize = 20

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("", 10)   // 10
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Page normalizes a 1-based page request and returns the row offset for it.
// page < 1 becomes 1 and pageSize <= 0 becomes DefaultPageSize.
func Page(page, pageSize int) (p, size, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}
