package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"markers and struck text", "**bold** word ~~x~~", 2},
		{"empty", "", 0},
		{"headings and lists", "# Title\n- one item\n> quoted words", 5},
		{"code fences skipped", "intro\n```go\nlots of code here\n```\noutro", 2},
		{"unterminated fence skipped", "intro\n```\nnever closed code", 1},
		{"links", "[read this](https://example.com)", 3},
		{"lone punctuation", "a - b | c", 3},
		{"hyphenated words", "well-known fact", 2},
		{"bullets and rules", "- item\n---\n-- --- -", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordCount(tt.in))
		})
	}
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadingTime(0))
	assert.Equal(t, "1 min read", ReadingTime(10))
	assert.Equal(t, "1 min read", ReadingTime(250))
	assert.Equal(t, "2 min read", ReadingTime(251))
	assert.Equal(t, "12 min read", ReadingTime(3000))
}

func TestReadingTimeFromDocument(t *testing.T) {
	words := strings.Repeat("word ", 3000)
	assert.Equal(t, 3000, WordCount(words))
	assert.Equal(t, 12, ReadingMinutes(WordCount(words)))
}
