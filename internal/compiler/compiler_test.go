package compiler

import (
	"strings"
	"testing"

	"github.com/CageChen/docforge/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `---
title: Field Guide
description: Everything in one place
author: Grace
date: 2024-06-01
---
# Field Guide

Intro with **bold** text.

## Install

` + "```bash\nmake install\n```" + `

## Diagram

` + "```mermaid\ngraph TD; A-->B\n```" + `

## Notes

- [x] shipped
`

func TestCompile(t *testing.T) {
	res := Compile(sample, Options{Style: style.Technical.Style()})

	m := res.Meta
	assert.Equal(t, "Field Guide", m.Title)
	assert.Equal(t, "Everything in one place", m.Subtitle)
	assert.Equal(t, "Grace", m.Author)
	assert.Equal(t, "2024-06-01", m.Date)
	assert.True(t, m.HasMermaid)
	assert.True(t, m.HasHighlighting)
	assert.Equal(t, "technical", m.Style)
	assert.Equal(t, "1 min read", m.ReadingTime)

	// The H1 duplicates the title and is dropped from content and outline.
	require.Len(t, m.Outline, 3)
	assert.Equal(t, "install", m.Outline[0].ID)
	assert.Equal(t, 1, strings.Count(res.HTML, "Field Guide</h1>"))
	assert.Contains(t, res.HTML, `class="doc-toc"`)
	assert.Contains(t, res.HTML, "mermaid.esm")
}

func TestCompileTitleResolution(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{"override wins", "---\ntitle: Meta\n---\n# Heading", Options{Title: "Flag"}, "Flag"},
		{"frontmatter", "---\ntitle: Meta\n---\n# Heading", Options{}, "Meta"},
		{"first heading", "intro\n# Heading *One*\n# Two", Options{}, "Heading One"},
		{"fallback", "no headings", Options{FallbackTitle: "notes"}, "notes"},
		{"untitled", "", Options{}, "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Style = style.Minimal.Style()
			assert.Equal(t, tt.want, Compile(tt.src, tt.opts).Meta.Title)
		})
	}
}

func TestCompilePromotedHeadingIsSkipped(t *testing.T) {
	res := Compile("# Hello World\n\nBody", Options{Style: style.Minimal.Style()})

	assert.Equal(t, "Hello World", res.Meta.Title)
	assert.Empty(t, res.Meta.Outline)
	assert.NotNil(t, res.Meta.Outline, "outline serializes as an empty list")
	assert.NotContains(t, res.HTML, `id="hello-world"`)
}

func TestCompileDifferentHeadingIsKept(t *testing.T) {
	res := Compile("---\ntitle: Report\n---\n# Summary\ntext", Options{Style: style.Minimal.Style()})

	require.Len(t, res.Meta.Outline, 1)
	assert.Contains(t, res.HTML, `<h1 id="summary">Summary</h1>`)
}

func TestCompileNormalizesLineEndings(t *testing.T) {
	res := Compile("---\r\ntitle: CRLF\r\n---\r\n## A\r\n## B\r\n", Options{Style: style.Warm.Style()})

	assert.Equal(t, "CRLF", res.Meta.Title)
	assert.Len(t, res.Meta.Outline, 2)
}

func TestCompileWordCount(t *testing.T) {
	res := Compile("---\ntitle: x y z\n---\n**bold** word ~~x~~", Options{Style: style.Minimal.Style()})

	assert.Equal(t, 2, res.Meta.WordCount, "frontmatter is not counted")
}

func TestCompileNoOptionalCapabilities(t *testing.T) {
	res := Compile("Just text.", Options{Style: style.Minimal.Style()})

	assert.False(t, res.Meta.HasMermaid)
	assert.False(t, res.Meta.HasHighlighting)
	assert.NotContains(t, res.HTML, "mermaid.esm")
	assert.NotContains(t, res.HTML, "highlight.min.js")
}

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", NormalizeLineEndings("a\r\nb\rc\n"))
}
