package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CageChen/docforge/internal/style"
)

// Inline patterns, in cascade order. Each rule sees the output of the rules
// before it, so the order is part of the formatter's contract.
var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"([^"]*)")?\s*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
	boldItalicRe = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldStarRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__(.+?)__`)
	italicStarRe = regexp.MustCompile(`\*([^*\n]+?)\*`)
	// Underscore emphasis must not start or end inside a word (snake_case).
	italicUnderRe = regexp.MustCompile(`\b_([^_\n]+?)_\b`)
	codeRe        = regexp.MustCompile("`([^`]+)`")
	strikeRe      = regexp.MustCompile(`~~(.+?)~~`)
	highlightRe   = regexp.MustCompile(`==(.+?)==`)

	placeholderRe = regexp.MustCompile("\x00(\\d+)\x00")
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\x00", "")
	attrEscaper = strings.NewReplacer(`"`, "&quot;", "\x00", "")
)

// inlineRule pairs a pattern with the markup it produces from the submatches.
type inlineRule struct {
	name    string
	pattern *regexp.Regexp
	format  func(f *inlineRun, m []string) string
	strip   func(m []string) string
}

func inner(m []string) string { return m[1] }

var inlineRules = []inlineRule{
	{
		name:    "image",
		pattern: imageRe,
		format:  (*inlineRun).image,
		strip:   inner,
	},
	{
		name:    "link",
		pattern: linkRe,
		format:  (*inlineRun).link,
		strip:   inner,
	},
	{
		name:    "bold-italic",
		pattern: boldItalicRe,
		format:  func(_ *inlineRun, m []string) string { return "<strong><em>" + m[1] + "</em></strong>" },
		strip:   inner,
	},
	{
		name:    "bold",
		pattern: boldStarRe,
		format:  func(_ *inlineRun, m []string) string { return "<strong>" + m[1] + "</strong>" },
		strip:   inner,
	},
	{
		name:    "bold",
		pattern: boldUnderRe,
		format:  func(_ *inlineRun, m []string) string { return "<strong>" + m[1] + "</strong>" },
		strip:   inner,
	},
	{
		name:    "italic",
		pattern: italicStarRe,
		format:  func(_ *inlineRun, m []string) string { return "<em>" + m[1] + "</em>" },
		strip:   inner,
	},
	{
		name:    "italic",
		pattern: italicUnderRe,
		format:  func(_ *inlineRun, m []string) string { return "<em>" + m[1] + "</em>" },
		strip:   inner,
	},
	{
		name:    "code",
		pattern: codeRe,
		format:  (*inlineRun).code,
		strip:   inner,
	},
	{
		name:    "strikethrough",
		pattern: strikeRe,
		format:  func(_ *inlineRun, m []string) string { return "<del>" + m[1] + "</del>" },
		strip:   inner,
	},
	{
		name:    "highlight",
		pattern: highlightRe,
		format:  (*inlineRun).highlight,
		strip:   inner,
	},
}

// Formatter turns inline markdown spans into styled HTML.
type Formatter struct {
	style style.Style
}

// NewFormatter creates a Formatter that reads colors and fonts from s.
func NewFormatter(s style.Style) *Formatter {
	return &Formatter{style: s}
}

// Format formats a paragraph's text. Images close the surrounding paragraph,
// render as a standalone figure and reopen the paragraph.
func (f *Formatter) Format(text string) string {
	return f.run(text, true)
}

// FormatInline formats text placed in a container that cannot be split
// (list items, table cells, headings, quotes). Images stay inline.
func (f *Formatter) FormatInline(text string) string {
	return f.run(text, false)
}

func (f *Formatter) run(text string, breakout bool) string {
	r := &inlineRun{style: f.style, breakout: breakout}
	out := textEscaper.Replace(text)
	for _, rule := range inlineRules {
		out = applyRule(rule.pattern, out, func(m []string) string {
			return rule.format(r, m)
		})
	}
	return r.restore(out)
}

// Strip removes the inline markers recognized by Format and keeps the inner
// text. Images keep their alt text and links their label.
func Strip(text string) string {
	out := text
	for _, rule := range inlineRules {
		out = applyRule(rule.pattern, out, rule.strip)
	}
	return out
}

func applyRule(re *regexp.Regexp, s string, fn func(m []string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}

// inlineRun holds the state of one Format call. Markup carrying attributes is
// parked behind placeholders so later rules cannot rewrite URLs or styles.
type inlineRun struct {
	style    style.Style
	breakout bool
	parked   []string
}

func (r *inlineRun) park(markup string) string {
	r.parked = append(r.parked, markup)
	return "\x00" + strconv.Itoa(len(r.parked)-1) + "\x00"
}

func (r *inlineRun) restore(s string) string {
	if len(r.parked) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		i, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || i >= len(r.parked) {
			return ""
		}
		return r.parked[i]
	})
}

func (r *inlineRun) image(m []string) string {
	alt, url, title := m[1], safeURL(m[2]), m[3]
	caption := title
	if caption == "" {
		caption = alt
	}

	if !r.breakout {
		img := fmt.Sprintf(`<img src="%s" alt="%s"`, attrEscaper.Replace(url), attrEscaper.Replace(alt))
		if title != "" {
			img += fmt.Sprintf(` title="%s"`, attrEscaper.Replace(title))
		}
		return r.park(img + ` loading="lazy" />`)
	}
	return r.park("</p>" + FigureHTML(url, alt, caption) + "<p>")
}

func (r *inlineRun) link(m []string) string {
	open := fmt.Sprintf(`<a href="%s" style="color: %s; text-decoration: underline;">`,
		attrEscaper.Replace(safeURL(m[2])), attrEscaper.Replace(r.style.Link))
	return r.park(open) + m[1] + r.park("</a>")
}

func (r *inlineRun) code(m []string) string {
	open := fmt.Sprintf(`<code style="font-family: %s; background: %s; padding: 0.1em 0.35em; border-radius: 4px; font-size: 0.9em;">`,
		attrEscaper.Replace(r.style.CodeFont), attrEscaper.Replace(r.style.Surface))
	return r.park(open) + m[1] + "</code>"
}

func (r *inlineRun) highlight(m []string) string {
	open := fmt.Sprintf(`<mark style="background: %s; color: inherit; padding: 0 0.2em; border-radius: 3px;">`,
		attrEscaper.Replace(r.style.BlockquoteBackground))
	return r.park(open) + m[1] + "</mark>"
}

// FigureHTML renders an image with its caption. The caption element is
// omitted when caption is empty. url and text are expected unescaped for
// quotes only; angle brackets must already be escaped.
func FigureHTML(url, alt, caption string) string {
	var b strings.Builder
	b.WriteString(`<figure class="doc-figure">`)
	fmt.Fprintf(&b, `<img src="%s" alt="%s" loading="lazy" />`, attrEscaper.Replace(url), attrEscaper.Replace(alt))
	if caption != "" {
		fmt.Fprintf(&b, `<figcaption>%s</figcaption>`, caption)
	}
	b.WriteString(`</figure>`)
	return b.String()
}

// safeURL drops script URLs.
func safeURL(url string) string {
	lower := strings.ToLower(strings.TrimSpace(url))
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "vbscript:") {
		return "#"
	}
	return url
}
