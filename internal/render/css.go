package render

import (
	"strings"
	"text/template"

	"github.com/CageChen/docforge/internal/style"
)

var stylesheetTmpl = template.Must(template.New("css").Parse(`:root {
  --bg: {{.Background}};
  --text: {{.Text}};
  --accent: {{.Accent}};
  --muted: {{.Muted}};
  --surface: {{.Surface}};
  --border: {{.Border}};
  --link: {{.Link}};
  --quote-border: {{.BlockquoteBorder}};
  --quote-bg: {{.BlockquoteBackground}};
  --max-width: {{.MaxWidth}};
}
* { box-sizing: border-box; }
body {
  margin: 0;
  background: var(--bg);
  color: var(--text);
  font-family: {{.BodyFont}};
  font-size: 18px;
  line-height: 1.7;
}
h1, h2, h3, h4, h5, h6 {
  font-family: {{.HeadingFont}};
  line-height: 1.25;
  margin: 2em 0 0.6em;
}
a { color: var(--link); }
.doc-nav {
  position: sticky;
  top: 0;
  display: flex;
  justify-content: space-between;
  padding: 0.75rem 1.5rem;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
  font-size: 0.85rem;
  color: var(--muted);
  z-index: 10;
}
.doc-nav-title { font-weight: 600; color: var(--text); }
.doc-hero, .doc-toc, .doc-content {
  max-width: var(--max-width);
  margin: 0 auto;
  padding: 0 1.5rem;
}
.doc-hero { padding-top: 3rem; padding-bottom: 1.5rem; border-bottom: 1px solid var(--border); }
.doc-title { margin: 0 0 0.5rem; font-size: 2.6rem; color: var(--accent); }
.doc-subtitle { margin: 0 0 1rem; font-size: 1.25rem; color: var(--muted); }
.doc-byline { margin: 0; font-size: 0.9rem; color: var(--muted); }
.doc-toc { margin-top: 2rem; }
.doc-toc-title { font-weight: 600; text-transform: uppercase; letter-spacing: 0.08em; font-size: 0.8rem; color: var(--muted); }
.doc-toc ul { list-style: none; padding: 0; margin: 0; }
.doc-toc li { margin: 0.25rem 0; }
.doc-toc a { text-decoration: none; }
.toc-level-3 { padding-left: 1rem; }
.toc-level-4, .toc-level-5, .toc-level-6 { padding-left: 2rem; }
.doc-content { padding-bottom: 4rem; }
blockquote {
  margin: 1.5em 0;
  padding: 0.75em 1.25em;
  border-left: 4px solid var(--quote-border);
  background: var(--quote-bg);
}
blockquote p { margin: 0; }
.code-block, .mermaid {
  background: var(--surface);
  border: 1px solid var(--border);
  border-radius: 6px;
  padding: 1rem;
  overflow-x: auto;
}
pre, code { font-family: {{.CodeFont}}; }
.code-block pre { margin: 0; padding: 0; background: transparent !important; }
.mermaid { text-align: center; }
.mermaid-error { text-align: left; white-space: pre; }
.doc-list { padding-left: 1.5em; }
.task-item { list-style: none; margin-left: -1.5em; }
.table-wrap { overflow-x: auto; }
table { border-collapse: collapse; width: 100%; margin: 1.5em 0; }
th, td { border: 1px solid var(--border); padding: 0.5em 0.75em; }
th { background: var(--surface); }
hr { border: none; border-top: 1px solid var(--border); margin: 2.5em 0; }
.doc-figure { margin: 2em 0; text-align: center; }
.doc-figure img { max-width: 100%; height: auto; border-radius: 4px; }
.doc-figure figcaption { margin-top: 0.5em; font-size: 0.9rem; color: var(--muted); }
`))

// stylesheet renders the document CSS from the style tokens.
func stylesheet(s style.Style) string {
	var b strings.Builder
	if err := stylesheetTmpl.Execute(&b, s); err != nil {
		return ""
	}
	return b.String()
}
