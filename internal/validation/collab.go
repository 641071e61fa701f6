package validation

import (
	"fmt"
	"regexp"

	"collabhub/internal/models"
)

// httpURLRegex accepts anything with an explicit http(s) scheme. Matches the
// loose check applied to submitted image and project links.
var httpURLRegex = regexp.MustCompile(`^https?://`)

// imageURLRegex is the stricter shape required for profile images.
var imageURLRegex = regexp.MustCompile(`^https?://[^\s$.?#].[^\s]*$`)

// ValidateHTTPURL checks that s carries an http or https scheme.
func ValidateHTTPURL(s string) error {
	if !httpURLRegex.MatchString(s) {
		return fmt.Errorf("must be an http(s) link")
	}
	return nil
}

// ValidateImageURL checks the stricter URL shape used for profile images.
func ValidateImageURL(s string) error {
	if !imageURLRegex.MatchString(s) {
		return fmt.Errorf("must be a valid URL")
	}
	return nil
}

var validTagNames = func() map[models.TagName]struct{} {
	m := make(map[models.TagName]struct{}, len(models.TagNames))
	for _, t := range models.TagNames {
		m[t] = struct{}{}
	}
	return m
}()

// ValidateTagName reports whether name is one of the fixed tag values.
func ValidateTagName(name models.TagName) error {
	if _, ok := validTagNames[name]; !ok {
		return fmt.Errorf("unknown tag %q", name)
	}
	return nil
}

var validCollabTypes = func() map[models.CollabType]struct{} {
	m := make(map[models.CollabType]struct{}, len(models.CollabTypes))
	for _, t := range models.CollabTypes {
		m[t] = struct{}{}
	}
	return m
}()

// ValidateCollabType reports whether t is a known submitter category.
func ValidateCollabType(t models.CollabType) error {
	if _, ok := validCollabTypes[t]; !ok {
		return fmt.Errorf("unknown collab type %q", t)
	}
	return nil
}
