package utils

import "strings"

// AllowedSizes is the fixed apparel size set
var AllowedSizes = []string{"S", "M", "L", "XL", "XXL"}

// IsAllowedSize reports whether size is in AllowedSizes after normalisation
func IsAllowedSize(size string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(size))
	for _, allowed := range AllowedSizes {
		if allowed == normalized {
			return true
		}
	}
	return false
}

// NormalizeSizes upper-cases and trims sizes, drops unknown ones and
// removes duplicates, keeping first-seen order.
func NormalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	for _, size := range sizes {
		normalized := strings.ToUpper(strings.TrimSpace(size))
		if !IsAllowedSize(normalized) || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}
