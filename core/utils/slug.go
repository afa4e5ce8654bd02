package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// MakeSlug turns a display name into a URL slug.
func MakeSlug(name string) string {
	return slug.Make(name)
}

// MakeUniqueSlug appends a short random suffix, used when the plain slug is
// already taken.
func MakeUniqueSlug(name string) string {
	base := slug.Make(name)
	suffix := strings.ToLower(GenerateID())
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
