package markdown

// Block is one rendered unit of document content. The concrete types are
// Heading, Paragraph, List, Blockquote, CodeBlock, Diagram, Table, Rule and Image.
type Block interface {
	block()
}

// Heading is an ATX heading. ID matches the outline entry for the heading.
type Heading struct {
	Level int
	Text  string // plain text, markers stripped
	ID    string
	HTML  string // formatted inline content
}

// Paragraph is a run of consecutive text lines joined with spaces.
type Paragraph struct {
	Text string
	HTML string
}

// ListItem is one entry of a List. Task is set for checkbox items.
type ListItem struct {
	Text    string
	HTML    string
	Task    bool
	Checked bool
}

// List is an ordered or unordered list. Ordered lists are renumbered from 1.
type List struct {
	Ordered bool
	Items   []ListItem
}

// Blockquote is a quote whose lines were joined into a single paragraph.
type Blockquote struct {
	Text string
	HTML string
}

// CodeBlock is a fenced code block. Content is verbatim.
type CodeBlock struct {
	Language string
	Content  string
}

// Diagram is a fenced block tagged mermaid. Rendering happens client-side.
type Diagram struct {
	Source string
}

// Align is a table column alignment.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the CSS text-align value.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Table is a pipe table. Cells hold formatted inline HTML.
type Table struct {
	Headers    []string
	Alignments []Align
	Rows       [][]string
}

// Rule is a thematic break.
type Rule struct{}

// Image is an image standing alone on its line. Caption falls back to Alt.
type Image struct {
	Alt     string
	URL     string
	Caption string
}

func (Heading) block()    {}
func (Paragraph) block()  {}
func (List) block()       {}
func (Blockquote) block() {}
func (CodeBlock) block()  {}
func (Diagram) block()    {}
func (Table) block()      {}
func (Rule) block()       {}
func (Image) block()      {}

// OutlineEntry is a table of contents entry
type OutlineEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Flags records which optional client capabilities a document needs.
type Flags struct {
	HasMermaid      bool `json:"hasMermaid"`
	HasHighlighting bool `json:"hasHighlighting"`
}
