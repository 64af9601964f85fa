package render

import (
	"strings"
	"testing"

	"github.com/CageChen/docforge/internal/markdown"
	"github.com/CageChen/docforge/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, src string) Document {
	t.Helper()
	s := style.Editorial.Style()
	res := markdown.Parse(src, markdown.Options{Style: s})
	words := markdown.WordCount(src)
	return Document{
		Meta:        Meta{Title: "Guide", Subtitle: "A subtitle", Author: "Ada", Date: "2024-05-01"},
		Blocks:      res.Blocks,
		Outline:     res.Outline,
		Flags:       res.Flags,
		WordCount:   words,
		ReadingTime: markdown.ReadingTime(words),
		Style:       s,
	}
}

func TestRenderShell(t *testing.T) {
	out := Render(docFrom(t, "Hello *world*"), Options{})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Guide</title>")
	assert.Contains(t, out, `<meta name="description" content="A subtitle" />`)
	assert.Contains(t, out, `<h1 class="doc-title">Guide</h1>`)
	assert.Contains(t, out, `<p class="doc-byline">Ada &middot; 2024-05-01 &middot; 1 min read</p>`)
	assert.Contains(t, out, "<p>Hello <em>world</em></p>")
	assert.Contains(t, out, "--link: #9b2c2c;")
	assert.Contains(t, out, "wordCount: 2,")
	assert.True(t, strings.HasSuffix(out, "</html>\n"))
}

func TestRenderTOCThreshold(t *testing.T) {
	two := Render(docFrom(t, "## One\n## Two"), Options{})
	assert.NotContains(t, two, `class="doc-toc"`)

	three := Render(docFrom(t, "## One\n## Two\n### Three"), Options{})
	assert.Contains(t, three, `class="doc-toc"`)
	assert.Contains(t, three, `<li class="toc-level-3"><a href="#three">Three</a></li>`)
	assert.Contains(t, three, `<h3 id="three">Three</h3>`)
}

func TestRenderTOCLinksMatchHeadingIDs(t *testing.T) {
	doc := docFrom(t, "## Setup\n## Setup\n## Usage & Tips")
	out := Render(doc, Options{})

	for _, e := range doc.Outline {
		assert.Contains(t, out, `href="#`+e.ID+`"`)
		assert.Contains(t, out, `id="`+e.ID+`"`)
	}
	assert.Contains(t, out, ">Usage &amp; Tips</a>")
}

func TestRenderCapabilityLoaders(t *testing.T) {
	plain := Render(docFrom(t, "```\nplain\n```"), Options{})
	assert.NotContains(t, plain, "mermaid.esm")
	assert.NotContains(t, plain, "highlight.min.js")

	diagram := Render(docFrom(t, "```mermaid\ngraph TD; A-->B\n```"), Options{})
	assert.Contains(t, diagram, "mermaid.esm")
	assert.Contains(t, diagram, `<pre class="mermaid">graph TD; A--&gt;B</pre>`)
	assert.Contains(t, diagram, "n.textContent = n.dataset.source")
	assert.NotContains(t, diagram, "highlight.min.js")

	code := Render(docFrom(t, "```python\nprint('<x>')\n```"), Options{})
	assert.Contains(t, code, "highlight.min.js")
	assert.Contains(t, code, `<code class="language-python">print(&#39;&lt;x&gt;&#39;)</code>`)
	assert.NotContains(t, code, "mermaid.esm")
}

func TestRenderServerHighlight(t *testing.T) {
	out := Render(docFrom(t, "```go\nfunc main() {}\n```"), Options{ServerHighlight: true})

	assert.Contains(t, out, `<div class="code-block" data-language="go">`)
	assert.Contains(t, out, "style=")
	assert.NotContains(t, out, "highlight.min.js", "all code was highlighted server-side")

	unknown := Render(docFrom(t, "```no-such-language\nx\n```"), Options{ServerHighlight: true})
	assert.Contains(t, unknown, `<code class="language-no-such-language">x</code>`)
	assert.Contains(t, unknown, "highlight.min.js")
}

func TestRenderBlocks(t *testing.T) {
	src := strings.Join([]string{
		"1. first",
		"7. second",
		"",
		"- [x] done",
		"",
		"> quoted **text**",
		"",
		"| A | B |",
		"| :-: | --: |",
		"| 1 |",
		"",
		"---",
		"![Logo](logo.png \"The logo\")",
		"Inline ![pic](p.png) image",
	}, "\n")

	out := Render(docFrom(t, src), Options{})

	assert.Contains(t, out, `<ol class="doc-list"><li>first</li><li>second</li></ol>`)
	assert.Contains(t, out, `<li class="task-item"><input type="checkbox" disabled checked /> done</li>`)
	assert.Contains(t, out, "<blockquote><p>quoted <strong>text</strong></p></blockquote>")
	assert.Contains(t, out, `<th style="text-align: center">A</th><th style="text-align: right">B</th>`)
	assert.Contains(t, out, `<td style="text-align: center">1</td><td style="text-align: right"></td>`)
	assert.Contains(t, out, "<hr />")
	assert.Contains(t, out, `<img src="logo.png" alt="Logo" loading="lazy" /><figcaption>The logo</figcaption>`)
	assert.Contains(t, out, `<p>Inline </p><figure class="doc-figure">`)
	assert.NotContains(t, out, "<p></p>")
}

func TestRenderEscapesMetadata(t *testing.T) {
	doc := docFrom(t, "text")
	doc.Meta.Title = "A `tick` ${x} <script>"
	out := Render(doc, Options{})

	assert.Contains(t, out, "<title>A `tick` ${x} &lt;script&gt;</title>")
	assert.Contains(t, out, "title: `A \\`tick\\` \\${x} <script>`,")
	assert.NotContains(t, out, "</script>`")
}

func TestRenderEscapesCommentOpener(t *testing.T) {
	doc := docFrom(t, "text")
	doc.Meta.Title = "a <!-- b </script> c"
	out := Render(doc, Options{})

	assert.Contains(t, out, "title: `a <\\!-- b <\\/script> c`,")
	assert.Contains(t, out, "<title>a &lt;!-- b &lt;/script&gt; c</title>")
	assert.NotContains(t, out, "<!--")
}

func TestRenderDefaultTitle(t *testing.T) {
	doc := docFrom(t, "text")
	doc.Meta = Meta{}
	out := Render(doc, Options{})

	assert.Contains(t, out, "<title>Untitled</title>")
	assert.NotContains(t, out, `name="description"`)
}

func TestRenderLiveReload(t *testing.T) {
	without := Render(docFrom(t, "text"), Options{})
	assert.NotContains(t, without, "WebSocket")

	with := Render(docFrom(t, "text"), Options{LiveReload: "/api/ws"})
	assert.Contains(t, with, `location.host + "/api/ws"`)
}

func TestRenderDarkThemes(t *testing.T) {
	doc := docFrom(t, "```mermaid\nA\n```\n```go\nB\n```")
	doc.Style = style.Midnight.Style()
	out := Render(doc, Options{})

	assert.Contains(t, out, `theme: "dark"`)
	assert.Contains(t, out, "github-dark.min.css")
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a\\\\b \\` \\${x}", EscapeLiteral("a\\b ` ${x}"))
	assert.Equal(t, "\\{\"a\": \\`b\\`\\}", EscapeAttr("{\"a\": `b`}"))
	assert.Equal(t, "plain", EscapeAttr("plain"))
	assert.Equal(t, `<\/script><\!-- x`, scriptSafe("</script><!-- x"))
}

func TestIsDark(t *testing.T) {
	require.True(t, isDark("#0d1117"))
	require.True(t, isDark("#000"))
	require.False(t, isDark("#ffffff"))
	require.False(t, isDark("not-a-color"))
}
