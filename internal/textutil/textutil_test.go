package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestIsIdentByte(t *testing.T) {
	for _, b := range []byte("azAZ09_") {
		assert.True(t, IsIdentByte(b), string(b))
	}
	for _, b := range []byte(" ($.'\"") {
		assert.False(t, IsIdentByte(b), string(b))
	}
}

func TestLineStart(t *testing.T) {
	src := []byte("one\ntwo\n\nfour")
	assert.Equal(t, 0, LineStart(src, 0))
	assert.Equal(t, 0, LineStart(src, 2))
	assert.Equal(t, 4, LineStart(src, 6))
	assert.Equal(t, 9, LineStart(src, 9))
	assert.Equal(t, 9, LineStart(src, len(src)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "h...", Truncate("héllo", 2))
	assert.Equal(t, "hé...", Truncate("héllo", 3))
	assert.Equal(t, "...", Truncate("日本", 2))
	assert.True(t, utf8.ValidString(Truncate("Привет мир", 5)))
}
