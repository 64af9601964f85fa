package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlight renders code with chroma using inline styles. It reports false
// when the language has no lexer or formatting fails, leaving the caller to
// fall back to a plain block.
func highlight(lang, code, theme string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.TabWidth(4),
	)

	var buf strings.Builder
	if err := formatter.Format(&buf, styles.Get(theme), iterator); err != nil {
		return "", false
	}
	return buf.String(), true
}
