package services

import "strings"

// ParseSkills splits the raw skills field on commas. Segments are kept
// as-is: no trimming, case folding or dedup. An empty input has no skills.
func ParseSkills(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}
