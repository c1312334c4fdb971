package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label humanizes a tag: "science-fiction" -> "Science Fiction".
func Label(tag string) string {
	words := strings.FieldsFunc(tag, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	// cases.Caser is stateful; build one per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
