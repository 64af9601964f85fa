// Package render assembles parsed markdown blocks and a style into a
// standalone HTML document.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/CageChen/docforge/internal/markdown"
	"github.com/CageChen/docforge/internal/style"
)

// MinTOCEntries is the outline size from which a table of contents is shown.
const MinTOCEntries = 3

const (
	mermaidModule  = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs"
	hljsBase       = "https://cdn.jsdelivr.net/gh/highlightjs/cdn-release@11.9.0/build"
	defaultTitle   = "Untitled"
	emptyParagraph = "<p></p>"
)

// Meta holds the display strings shown in the document header.
type Meta struct {
	Title    string
	Subtitle string
	Author   string
	Date     string
}

// Document is everything the renderer needs for one artifact.
type Document struct {
	Meta        Meta
	Blocks      []markdown.Block
	Outline     []markdown.OutlineEntry
	Flags       markdown.Flags
	WordCount   int
	ReadingTime string
	Style       style.Style
}

// Options tunes rendering.
type Options struct {
	// ServerHighlight highlights code with a known language at render time
	// instead of loading a client-side highlighter.
	ServerHighlight bool
	// LiveReload is the websocket path the page listens on for reloads.
	// Empty disables live reload.
	LiveReload string
}

type renderer struct {
	doc  Document
	opts Options
	b    strings.Builder

	// set when a block still needs client-side highlighting
	clientHighlight bool
}

// Render produces the complete HTML artifact for doc.
func Render(doc Document, opts Options) string {
	if doc.Meta.Title == "" {
		doc.Meta.Title = defaultTitle
	}
	r := &renderer{doc: doc, opts: opts}

	// Content first: it decides whether the highlighter is needed.
	content := r.content()

	r.head()
	r.b.WriteString("<body>\n")
	r.nav()
	r.hero()
	r.toc()
	r.b.WriteString(`<main class="doc-content">` + "\n")
	r.b.WriteString(content)
	r.b.WriteString("</main>\n")
	r.boot()
	if doc.Flags.HasMermaid {
		r.mermaid()
	}
	if doc.Flags.HasHighlighting && r.clientHighlight {
		r.highlighter()
	}
	if opts.LiveReload != "" {
		r.liveReload()
	}
	r.b.WriteString("</body>\n</html>\n")

	return r.b.String()
}

func (r *renderer) head() {
	m := r.doc.Meta
	r.b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	r.b.WriteString(`<meta charset="utf-8" />` + "\n")
	r.b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1" />` + "\n")
	fmt.Fprintf(&r.b, "<title>%s</title>\n", html.EscapeString(m.Title))
	if m.Subtitle != "" {
		fmt.Fprintf(&r.b, `<meta name="description" content="%s" />`+"\n", html.EscapeString(m.Subtitle))
	}
	if m.Author != "" {
		fmt.Fprintf(&r.b, `<meta name="author" content="%s" />`+"\n", html.EscapeString(m.Author))
	}
	r.b.WriteString("<style>\n")
	r.b.WriteString(stylesheet(r.doc.Style))
	r.b.WriteString("</style>\n</head>\n")
}

func (r *renderer) nav() {
	fmt.Fprintf(&r.b, `<nav class="doc-nav"><span class="doc-nav-title">%s</span><span class="doc-nav-meta">%s</span></nav>`+"\n",
		html.EscapeString(r.doc.Meta.Title), html.EscapeString(r.doc.ReadingTime))
}

func (r *renderer) hero() {
	m := r.doc.Meta
	r.b.WriteString(`<header class="doc-hero">` + "\n")
	fmt.Fprintf(&r.b, `<h1 class="doc-title">%s</h1>`+"\n", html.EscapeString(m.Title))
	if m.Subtitle != "" {
		fmt.Fprintf(&r.b, `<p class="doc-subtitle">%s</p>`+"\n", html.EscapeString(m.Subtitle))
	}

	var byline []string
	for _, s := range []string{m.Author, m.Date, r.doc.ReadingTime} {
		if s != "" {
			byline = append(byline, html.EscapeString(s))
		}
	}
	if len(byline) > 0 {
		fmt.Fprintf(&r.b, `<p class="doc-byline">%s</p>`+"\n", strings.Join(byline, " &middot; "))
	}
	r.b.WriteString("</header>\n")
}

func (r *renderer) toc() {
	if len(r.doc.Outline) < MinTOCEntries {
		return
	}
	r.b.WriteString(`<aside class="doc-toc"><p class="doc-toc-title">Contents</p><ul>` + "\n")
	for _, e := range r.doc.Outline {
		fmt.Fprintf(&r.b, `<li class="toc-level-%d"><a href="#%s">%s</a></li>`+"\n",
			e.Level, html.EscapeString(e.ID), html.EscapeString(e.Text))
	}
	r.b.WriteString("</ul></aside>\n")
}

func (r *renderer) content() string {
	var b strings.Builder
	for _, block := range r.doc.Blocks {
		b.WriteString(r.block(block))
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *renderer) block(block markdown.Block) string {
	switch v := block.(type) {
	case markdown.Heading:
		return fmt.Sprintf(`<h%d id="%s">%s</h%d>`, v.Level, html.EscapeString(v.ID), v.HTML, v.Level)

	case markdown.Paragraph:
		return strings.ReplaceAll("<p>"+v.HTML+"</p>", emptyParagraph, "")

	case markdown.Blockquote:
		return "<blockquote><p>" + v.HTML + "</p></blockquote>"

	case markdown.List:
		return listHTML(v)

	case markdown.Table:
		return tableHTML(v)

	case markdown.CodeBlock:
		return r.code(v)

	case markdown.Diagram:
		return `<pre class="mermaid">` + html.EscapeString(v.Source) + "</pre>"

	case markdown.Rule:
		return "<hr />"

	case markdown.Image:
		return markdown.FigureHTML(html.EscapeString(v.URL), html.EscapeString(v.Alt), html.EscapeString(v.Caption))
	}
	return ""
}

func (r *renderer) code(c markdown.CodeBlock) string {
	if c.Language != "" && r.opts.ServerHighlight {
		if out, ok := highlight(c.Language, c.Content, r.doc.Style.CodeTheme); ok {
			return fmt.Sprintf(`<div class="code-block" data-language="%s">%s</div>`, html.EscapeString(c.Language), out)
		}
	}
	if c.Language == "" {
		return `<pre class="code-block"><code>` + html.EscapeString(c.Content) + "</code></pre>"
	}
	r.clientHighlight = true
	return fmt.Sprintf(`<pre class="code-block"><code class="language-%s">%s</code></pre>`,
		html.EscapeString(c.Language), html.EscapeString(c.Content))
}

func listHTML(l markdown.List) string {
	tag := "ul"
	if l.Ordered {
		tag = "ol"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<%s class="doc-list">`, tag)
	for _, item := range l.Items {
		if !item.Task {
			b.WriteString("<li>" + item.HTML + "</li>")
			continue
		}
		checked := ""
		if item.Checked {
			checked = " checked"
		}
		fmt.Fprintf(&b, `<li class="task-item"><input type="checkbox" disabled%s /> %s</li>`, checked, item.HTML)
	}
	fmt.Fprintf(&b, "</%s>", tag)
	return b.String()
}

func tableHTML(t markdown.Table) string {
	align := func(i int) string {
		if i < len(t.Alignments) {
			return t.Alignments[i].String()
		}
		return markdown.AlignLeft.String()
	}

	var b strings.Builder
	b.WriteString(`<div class="table-wrap"><table><thead><tr>`)
	for i, h := range t.Headers {
		fmt.Fprintf(&b, `<th style="text-align: %s">%s</th>`, align(i), h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		// Short rows are padded to the header width; extra cells are kept.
		n := max(len(row), len(t.Headers))
		for i := 0; i < n; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fmt.Fprintf(&b, `<td style="text-align: %s">%s</td>`, align(i), cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div>")
	return b.String()
}

func (r *renderer) boot() {
	outline := r.doc.Outline
	if outline == nil {
		outline = []markdown.OutlineEntry{}
	}
	data, err := json.Marshal(outline)
	if err != nil {
		data = []byte("[]")
	}

	r.b.WriteString("<script>\n")
	r.b.WriteString("window.__docforge = {\n")
	fmt.Fprintf(&r.b, "  title: `%s`,\n", scriptSafe(EscapeLiteral(r.doc.Meta.Title)))
	fmt.Fprintf(&r.b, "  readingTime: `%s`,\n", scriptSafe(EscapeLiteral(r.doc.ReadingTime)))
	fmt.Fprintf(&r.b, "  wordCount: %d,\n", r.doc.WordCount)
	fmt.Fprintf(&r.b, "  hasMermaid: %t,\n", r.doc.Flags.HasMermaid)
	fmt.Fprintf(&r.b, "  hasHighlighting: %t,\n", r.doc.Flags.HasHighlighting)
	fmt.Fprintf(&r.b, "  outline: JSON.parse(`%s`),\n", scriptSafe(EscapeAttr(string(data))))
	r.b.WriteString("};\n</script>\n")
}

func (r *renderer) mermaid() {
	theme := "default"
	if isDark(r.doc.Style.Background) {
		theme = "dark"
	}
	r.b.WriteString(`<script type="module">` + "\n")
	fmt.Fprintf(&r.b, "import mermaid from %q;\n", mermaidModule)
	r.b.WriteString(`const nodes = document.querySelectorAll("pre.mermaid");
nodes.forEach((n) => { n.dataset.source = n.textContent; });
`)
	fmt.Fprintf(&r.b, "mermaid.initialize({ startOnLoad: false, theme: %q });\n", theme)
	r.b.WriteString(`try {
  await mermaid.run({ nodes });
} catch (err) {
  nodes.forEach((n) => {
    if (!n.querySelector("svg")) {
      n.textContent = n.dataset.source;
      n.classList.add("mermaid-error");
    }
  });
}
</script>
`)
}

func (r *renderer) highlighter() {
	theme := "github"
	if isDark(r.doc.Style.Background) {
		theme = "github-dark"
	}
	fmt.Fprintf(&r.b, `<link rel="stylesheet" href="%s/styles/%s.min.css" />`+"\n", hljsBase, theme)
	fmt.Fprintf(&r.b, `<script defer src="%s/highlight.min.js"></script>`+"\n", hljsBase)
	r.b.WriteString(`<script>
document.addEventListener("DOMContentLoaded", () => {
  document.querySelectorAll("pre code[class^='language-']").forEach((el) => hljs.highlightElement(el));
});
</script>
`)
}

func (r *renderer) liveReload() {
	path, _ := json.Marshal(r.opts.LiveReload)
	fmt.Fprintf(&r.b, `<script>
(() => {
  const proto = location.protocol === "https:" ? "wss:" : "ws:";
  const ws = new WebSocket(proto + "//" + location.host + %s);
  ws.onmessage = () => location.reload();
})();
</script>
`, path)
}

// isDark reports whether a #rgb or #rrggbb color has low luminance.
func isDark(color string) bool {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	red, green, blue := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	return 0.2126*red+0.7152*green+0.0722*blue < 128
}
