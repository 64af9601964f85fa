// Package compiler turns a markdown document and a style into a finished HTML
// artifact plus the metadata callers need about it.
package compiler

import (
	"regexp"

	"github.com/CageChen/docforge/internal/frontmatter"
	"github.com/CageChen/docforge/internal/markdown"
	"github.com/CageChen/docforge/internal/render"
	"github.com/CageChen/docforge/internal/style"
)

var lineEndingRe = regexp.MustCompile(`\r\n?`)

// Options configures a compilation.
type Options struct {
	Style style.Style

	// Title, Subtitle, Author and Date override frontmatter values when set.
	Title    string
	Subtitle string
	Author   string
	Date     string

	// FallbackTitle is used when neither an override, frontmatter nor a
	// level-1 heading provides a title (typically the file name).
	FallbackTitle string

	ServerHighlight bool
	LiveReload      string
}

// Metadata describes a compiled document.
type Metadata struct {
	Title           string                  `json:"title"`
	Subtitle        string                  `json:"subtitle,omitempty"`
	Author          string                  `json:"author,omitempty"`
	Date            string                  `json:"date,omitempty"`
	WordCount       int                     `json:"wordCount"`
	ReadingTime     string                  `json:"readingTime"`
	HasMermaid      bool                    `json:"hasMermaid"`
	HasHighlighting bool                    `json:"hasHighlighting"`
	Outline         []markdown.OutlineEntry `json:"outline"`
	Style           string                  `json:"style"`
}

// Result is a compiled document.
type Result struct {
	HTML string   `json:"html"`
	Meta Metadata `json:"meta"`
}

// Compile runs the whole pipeline. Malformed markdown never fails; it degrades
// to literal text.
func Compile(raw string, opts Options) *Result {
	doc := frontmatter.Extract(NormalizeLineEndings(raw))

	title := firstNonEmpty(opts.Title, doc.Title(), markdown.FirstHeading(doc.Body), opts.FallbackTitle, "Untitled")
	meta := render.Meta{
		Title:    title,
		Subtitle: firstNonEmpty(opts.Subtitle, doc.Subtitle()),
		Author:   firstNonEmpty(opts.Author, doc.Author()),
		Date:     firstNonEmpty(opts.Date, doc.Date()),
	}

	parsed := markdown.Parse(doc.Body, markdown.Options{
		Style:     opts.Style,
		SkipTitle: title,
	})

	words := markdown.WordCount(doc.Body)
	reading := markdown.ReadingTime(words)

	html := render.Render(render.Document{
		Meta:        meta,
		Blocks:      parsed.Blocks,
		Outline:     parsed.Outline,
		Flags:       parsed.Flags,
		WordCount:   words,
		ReadingTime: reading,
		Style:       opts.Style,
	}, render.Options{
		ServerHighlight: opts.ServerHighlight,
		LiveReload:      opts.LiveReload,
	})

	outline := parsed.Outline
	if outline == nil {
		outline = []markdown.OutlineEntry{}
	}

	return &Result{
		HTML: html,
		Meta: Metadata{
			Title:           meta.Title,
			Subtitle:        meta.Subtitle,
			Author:          meta.Author,
			Date:            meta.Date,
			WordCount:       words,
			ReadingTime:     reading,
			HasMermaid:      parsed.Flags.HasMermaid,
			HasHighlighting: parsed.Flags.HasHighlighting,
			Outline:         outline,
			Style:           opts.Style.Name,
		},
	}
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(s string) string {
	return lineEndingRe.ReplaceAllString(s, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
