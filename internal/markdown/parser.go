// Package markdown compiles a small markdown dialect into typed blocks with
// formatted inline HTML, a heading outline and capability flags.
//
// Supported blocks: ATX headings, paragraphs, ordered/unordered/task lists,
// single-level blockquotes, fenced code (mermaid fences become diagrams),
// pipe tables with alignment rows, thematic breaks and standalone images.
// Lines are classified one at a time with no lookahead; anything that does
// not match a construct falls through to paragraph text, so parsing never fails.
package markdown

import (
	"regexp"
	"strings"

	"github.com/CageChen/docforge/internal/style"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	ruleRe      = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	unorderedRe = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\s*\d+\.\s+(.*)$`)
	taskRe      = regexp.MustCompile(`^\[([ xX])\](?:\s+(.*))?$`)
	tableRowRe  = regexp.MustCompile(`^\|(.+)\|$`)
	separatorRe = regexp.MustCompile(`^:?-+:?$`)
	imageLineRe = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"([^"]*)")?\s*\)$`)
)

const (
	fence          = "```"
	mermaidLang    = "mermaid"
	listIndentCont = "  "
)

// Options controls a Parse call.
type Options struct {
	Style style.Style
	// SkipTitle drops the first level-1 heading when its plain text equals
	// SkipTitle case-insensitively. Used when the title is shown elsewhere.
	SkipTitle string
}

// Result contains the parsed document.
type Result struct {
	Blocks  []Block
	Outline []OutlineEntry
	Flags   Flags
}

// openKind tags the construct currently accumulating lines.
type openKind int

const (
	openNone openKind = iota
	openParagraph
	openCode
	openList
	openQuote
	openTable
)

// parserState is the single open construct. Only the fields belonging to
// kind are meaningful; flushing resets the whole value.
type parserState struct {
	kind openKind

	// paragraph, quote and code lines; raw list item texts
	lines []string

	lang    string // code
	ordered bool   // list

	table     Table // table
	hasHeader bool  // table
}

type parser struct {
	state  parserState
	result Result

	format    *Formatter
	slugs     *Slugger
	skipTitle string
	seenH1    bool
}

// Parse classifies body line by line and returns the blocks in document order.
func Parse(body string, opts Options) *Result {
	p := &parser{
		format:    NewFormatter(opts.Style),
		slugs:     NewSlugger(),
		skipTitle: strings.TrimSpace(opts.SkipTitle),
	}

	for _, line := range strings.Split(body, "\n") {
		p.step(strings.TrimSuffix(line, "\r"))
	}
	// An unterminated fence still becomes a code block.
	p.flush()

	return &p.result
}

func (p *parser) step(line string) {
	trimmed := strings.TrimSpace(line)

	if p.state.kind == openCode {
		if strings.HasPrefix(trimmed, fence) {
			p.flush()
			return
		}
		p.state.lines = append(p.state.lines, line)
		return
	}

	switch {
	case strings.HasPrefix(trimmed, fence):
		p.openCode(strings.TrimSpace(trimmed[len(fence):]))

	case tableRowRe.MatchString(trimmed):
		p.tableRow(trimmed)

	case strings.HasPrefix(line, "> "):
		p.quoteLine(line[2:])

	case p.state.kind == openQuote && strings.HasPrefix(line, ">"):
		p.quoteLine(strings.TrimSpace(line[1:]))

	case headingRe.MatchString(trimmed):
		m := headingRe.FindStringSubmatch(trimmed)
		p.heading(len(m[1]), strings.TrimSpace(m[2]))

	case ruleRe.MatchString(trimmed):
		p.flush()
		p.emit(Rule{})

	case unorderedRe.MatchString(line):
		p.listItem(false, unorderedRe.FindStringSubmatch(line)[1])

	case orderedRe.MatchString(line):
		p.listItem(true, orderedRe.FindStringSubmatch(line)[1])

	case trimmed == "":
		if p.state.kind == openParagraph {
			p.flush()
		}

	case p.state.kind == openList && isIndented(line):
		// Indented text continues the previous list item.
		last := len(p.state.lines) - 1
		p.state.lines[last] += " " + trimmed

	case imageLineRe.MatchString(trimmed):
		m := imageLineRe.FindStringSubmatch(trimmed)
		p.flush()
		caption := m[3]
		if caption == "" {
			caption = m[1]
		}
		p.emit(Image{Alt: m[1], URL: safeURL(m[2]), Caption: caption})

	default:
		if p.state.kind != openParagraph {
			p.flush()
			p.state.kind = openParagraph
		}
		p.state.lines = append(p.state.lines, trimmed)
	}
}

func (p *parser) emit(b Block) {
	p.result.Blocks = append(p.result.Blocks, b)
}

// flush finalizes the open construct, emits it, and resets the state.
func (p *parser) flush() {
	s := p.state
	p.state = parserState{}

	switch s.kind {
	case openParagraph:
		text := strings.Join(s.lines, " ")
		p.emit(Paragraph{Text: text, HTML: p.format.Format(text)})

	case openQuote:
		if len(s.lines) == 0 {
			return
		}
		text := strings.Join(s.lines, " ")
		p.emit(Blockquote{Text: text, HTML: p.format.FormatInline(text)})

	case openList:
		list := List{Ordered: s.ordered, Items: make([]ListItem, 0, len(s.lines))}
		for _, raw := range s.lines {
			list.Items = append(list.Items, p.listEntry(raw))
		}
		p.emit(list)

	case openTable:
		if !s.hasHeader {
			return
		}
		p.emit(s.table)

	case openCode:
		content := strings.Join(s.lines, "\n")
		if s.lang == mermaidLang {
			p.result.Flags.HasMermaid = true
			p.emit(Diagram{Source: content})
			return
		}
		if s.lang != "" {
			p.result.Flags.HasHighlighting = true
		}
		p.emit(CodeBlock{Language: s.lang, Content: content})
	}
}

func (p *parser) openCode(info string) {
	p.flush()
	lang := ""
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}
	p.state = parserState{kind: openCode, lang: lang}
}

func (p *parser) quoteLine(text string) {
	if p.state.kind != openQuote {
		p.flush()
		p.state.kind = openQuote
	}
	if text = strings.TrimSpace(text); text != "" {
		p.state.lines = append(p.state.lines, text)
	}
}

func (p *parser) heading(level int, raw string) {
	p.flush()

	plain := strings.TrimSpace(Strip(raw))
	if level == 1 && !p.seenH1 {
		p.seenH1 = true
		if p.skipTitle != "" && strings.EqualFold(plain, p.skipTitle) {
			return
		}
	}

	id := p.slugs.Slug(plain)
	p.result.Outline = append(p.result.Outline, OutlineEntry{Level: level, Text: plain, ID: id})
	p.emit(Heading{Level: level, Text: plain, ID: id, HTML: p.format.FormatInline(raw)})
}

func (p *parser) listItem(ordered bool, text string) {
	if p.state.kind != openList || p.state.ordered != ordered {
		p.flush()
		p.state = parserState{kind: openList, ordered: ordered}
	}
	p.state.lines = append(p.state.lines, strings.TrimSpace(text))
}

func (p *parser) listEntry(raw string) ListItem {
	if m := taskRe.FindStringSubmatch(raw); m != nil {
		return ListItem{
			Text:    m[2],
			HTML:    p.format.FormatInline(m[2]),
			Task:    true,
			Checked: m[1] != " ",
		}
	}
	return ListItem{Text: raw, HTML: p.format.FormatInline(raw)}
}

func (p *parser) tableRow(row string) {
	if p.state.kind != openTable {
		p.flush()
		p.state.kind = openTable
	}

	cells := splitCells(row)
	if aligns, ok := alignments(cells); ok {
		p.state.table.Alignments = aligns
		return
	}

	formatted := make([]string, len(cells))
	for i, c := range cells {
		formatted[i] = p.format.FormatInline(c)
	}
	if !p.state.hasHeader {
		p.state.table.Headers = formatted
		p.state.hasHeader = true
		return
	}
	p.state.table.Rows = append(p.state.table.Rows, formatted)
}

// splitCells splits a |-delimited row into trimmed cells.
func splitCells(row string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	cells := strings.Split(inner, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// alignments reports whether every cell is a separator and returns the
// column alignments it encodes.
func alignments(cells []string) ([]Align, bool) {
	aligns := make([]Align, len(cells))
	for i, c := range cells {
		if !separatorRe.MatchString(c) {
			return nil, false
		}
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			aligns[i] = AlignCenter
		case right:
			aligns[i] = AlignRight
		default:
			aligns[i] = AlignLeft
		}
	}
	return aligns, true
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, listIndentCont) || strings.HasPrefix(line, "\t")
}

// FirstHeading returns the plain text of the first level-1 heading outside
// fenced code, or "" when there is none.
func FirstHeading(body string) string {
	inCode := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, fence) {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		if m := headingRe.FindStringSubmatch(trimmed); m != nil && len(m[1]) == 1 {
			return strings.TrimSpace(Strip(strings.TrimSpace(m[2])))
		}
	}
	return ""
}
