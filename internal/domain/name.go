package domain

import (
	"regexp"
	"strings"
)

var (
	contextRe = regexp.MustCompile(`@[\w\-_]+`)
	tagRe     = regexp.MustCompile(`\+[\w\-_]+`)
)

// Name is a task name split into its structured parts.
type Name struct {
	Text    string
	Context string   // empty unless exactly one @context appears
	Tags    []string // nil when no +tag appears
}

// ParseName cleans a raw task name and extracts its @context and +tags.
// Commas are replaced by spaces since they separate fields in the history log,
// and runs of whitespace, line breaks included, collapse to one space so a
// record always stays on one line. A name carrying two or more contexts has
// no context at all.
func ParseName(raw string) Name {
	text := strings.Join(strings.Fields(strings.ReplaceAll(raw, ",", " ")), " ")
	n := Name{Text: text}

	if contexts := contextRe.FindAllString(text, -1); len(contexts) == 1 {
		n.Context = contexts[0]
	}
	if tags := tagRe.FindAllString(text, -1); len(tags) > 0 {
		n.Tags = tags
	}
	return n
}
