package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxResultWindow matches the default index.max_result_window of
	// Elasticsearch; offset+limit past it is not served.
	MaxResultWindow = 10000
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate turns a 1-based page and a page size into offset and limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	skipped := page - 1
	if skipped > math.MaxInt/size {
		skipped = math.MaxInt / size
	}
	return skipped * size, size
}

// InWindow reports whether a page ends within MaxResultWindow.
func InWindow(offset, limit int) bool {
	return offset >= 0 && offset <= MaxResultWindow-limit
}
