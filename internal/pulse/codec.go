package pulse

import (
	"regexp"
	"strings"
)

// Section labels in canonical order
const (
	LabelBreaking   = "BREAKING"
	LabelDeveloping = "DEVELOPING"
	LabelContext    = "CONTEXT"
	LabelImpact     = "IMPACT"
)

const sectionSeparator = "\n\n"

// Labels lists section labels in canonical order
var Labels = []string{LabelBreaking, LabelDeveloping, LabelContext, LabelImpact}

var labelPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(Labels))
	for i, label := range Labels {
		patterns[i] = regexp.MustCompile(`(?i)^` + label + `\n?`)
	}
	return patterns
}()

// Sections returns the bodies in canonical order
func (c Content) Sections() []string {
	return []string{c.Breaking, c.Developing, c.Context, c.Impact}
}

// Format encodes c as the canonical text:
// four "LABEL\nbody" blocks joined by a blank line.
func Format(c Content) string {
	var b strings.Builder
	for i, body := range c.Sections() {
		if i > 0 {
			b.WriteString(sectionSeparator)
		}
		b.WriteString(Labels[i])
		b.WriteByte('\n')
		b.WriteString(body)
	}
	return b.String()
}

// Parse decodes canonical text. Labels are matched case-insensitively at the
// start of each section, with or without the newline after them. It reports
// false for fewer than four sections or an empty section body; blocks past
// the fourth are ignored.
func Parse(text string) (Content, bool) {
	sections := strings.Split(text, sectionSeparator)
	if len(sections) < len(Labels) {
		return Content{}, false
	}

	bodies := make([]string, len(Labels))
	for i, pattern := range labelPatterns {
		body := pattern.ReplaceAllString(sections[i], "")
		body = strings.TrimSpace(body)
		if body == "" {
			return Content{}, false
		}
		bodies[i] = body
	}

	return Content{
		Breaking:   bodies[0],
		Developing: bodies[1],
		Context:    bodies[2],
		Impact:     bodies[3],
	}, true
}

// Validate reports whether text decodes
func Validate(text string) bool {
	_, ok := Parse(text)
	return ok
}

// Identical reports whether both texts decode to the same sections
func Identical(a, b string) bool {
	pa, ok := Parse(a)
	if !ok {
		return false
	}
	pb, ok := Parse(b)
	if !ok {
		return false
	}
	return pa == pb
}

// CheckNewInformation is the storage-side acceptance rule for a new update
func CheckNewInformation(updateText, previousUpdateText string) error {
	if strings.TrimSpace(updateText) == "" {
		return ErrNotNewInformation
	}
	if !Validate(updateText) {
		return ErrInvalidUpdate
	}
	if updateText == previousUpdateText || Identical(updateText, previousUpdateText) {
		return ErrNotNewInformation
	}
	return nil
}
