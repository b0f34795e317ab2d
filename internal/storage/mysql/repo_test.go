package mysql

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab", clip("abc", 2))

	// 600 three-byte runes: byte slicing would cut mid-rune
	long := strings.Repeat("東", 600)
	got := clip(long, maxQueryLen)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxQueryLen, utf8.RuneCountInString(got))

	assert.Equal(t, "Zürich café", clip("Zürich café", 11))
	assert.Equal(t, "Zürich caf", clip("Zürich café", 10))
}
