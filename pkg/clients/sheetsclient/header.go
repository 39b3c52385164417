package sheetsclient

import (
	"fmt"
	"strings"
)

// header maps column names to their index in a sheet's first row
type header map[string]int

// parseHeader finds every required column, matching names case-insensitively
func parseHeader(row []interface{}, required []string) (header, error) {
	h := make(header, len(required))
	for _, field := range required {
		index := -1
		for i, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cellString(cell)), field) {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		h[field] = index
	}
	return h, nil
}

// get returns the trimmed cell for field, or "" if the row is short
func (h header) get(field string, row []interface{}) string {
	index, ok := h[field]
	if !ok || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[index]))
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// parseBool accepts the usual spreadsheet spellings of a checked box
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "x", "1":
		return true
	default:
		return false
	}
}
