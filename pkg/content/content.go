// Package content derives the presentation fields of a blog from what its
// author typed. Create and update both go through Prepare so the two paths
// can never disagree.
package content

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceRegex   = regexp.MustCompile(`\s+`)
	nonWordRegex = regexp.MustCompile(`[^\w-]+`)
)

// MakeSlug returns title in a "foo-bar-yes" format. Slugs are not unique.
func MakeSlug(title string) string {
	slug := spaceRegex.ReplaceAllString(strings.ToLower(title), "-")
	return nonWordRegex.ReplaceAllString(slug, "")
}

// WrapParagraph trims s and wraps it in a <p> tag unless it already starts with one.
func WrapParagraph(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<p>") {
		return trimmed
	}
	return "<p>" + trimmed + "</p>"
}

// ParseTags splits a comma separated list, dropping blanks.
func ParseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ReadTime formats a reading time label.
func ReadTime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return strconv.Itoa(minutes) + " min"
}

// Fields are the author-supplied values Prepare derives from.
type Fields struct {
	Title           string
	LongDescription string
}

// Derived holds the computed values.
type Derived struct {
	Slug            string
	LongDescription string
}

// Prepare computes the slug and the HTML long description.
func Prepare(f Fields) Derived {
	return Derived{
		Slug:            MakeSlug(f.Title),
		LongDescription: WrapParagraph(f.LongDescription),
	}
}
