package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// WordsPerMinute is the fixed reading speed used for reading time estimates.
const WordsPerMinute = 250

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?(?:```|\\z)")
	struckRe     = regexp.MustCompile(`~~.*?~~`)
	punctuation  = strings.NewReplacer(
		"#", " ", "*", " ", "_", " ", "~", " ", "`", " ", ">", " ",
		"|", " ", "[", " ", "]", " ", "(", " ", ")", " ", "!", " ", "=", " ",
	)
)

// WordCount counts the words a reader sees. Fenced code and struck-through
// text are skipped and markdown punctuation is ignored. Hyphenated words
// count once; tokens made only of dashes (bullets, rules) do not count.
func WordCount(body string) int {
	text := fencedCodeRe.ReplaceAllString(body, " ")
	text = struckRe.ReplaceAllString(text, " ")
	text = punctuation.Replace(text)

	n := 0
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, "-") != "" {
			n++
		}
	}
	return n
}

// ReadingMinutes estimates reading time, never less than one minute.
func ReadingMinutes(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ReadingTime formats the estimate for display, e.g. "3 min read".
func ReadingTime(words int) string {
	return fmt.Sprintf("%d min read", ReadingMinutes(words))
}
