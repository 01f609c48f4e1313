package services

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title, folds accents ("Diseñador" -> "disenador")
// and joins the remaining words with dashes.
func Slugify(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if slug == "" {
		return "vacante"
	}
	return slug
}

func slugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
