package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Build a podcast network", "build-a-podcast-network"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Emoji 🚀 & symbols!!!", "emoji-symbols"},
		{"UPPER case TITLE", "upper-case-title"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestSlugSuffix(t *testing.T) {
	hex4 := regexp.MustCompile(`^[0-9a-f]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := slugSuffix()
		assert.Regexp(t, hex4, s)
		seen[s] = true
	}
	// 2 random bytes: 50 draws colliding into one value would be astonishing
	assert.Greater(t, len(seen), 1)
}
