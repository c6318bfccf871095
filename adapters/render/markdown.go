package render

import (
	"strings"

	"fdrtidy/domain/table"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown formats the table as a pipe table; numeric columns are right aligned
func Markdown(t table.Table) string {
	if t.NumCols() == 0 {
		return "_empty table_\n"
	}

	var b strings.Builder
	names := t.Names()
	kinds := t.Kinds()

	b.WriteString("|")
	for _, n := range names {
		b.WriteString(" " + escapeCell(n) + " |")
	}
	b.WriteString("\n|")
	for _, k := range kinds {
		if k == table.KindNumber {
			b.WriteString(" ---: |")
		} else {
			b.WriteString(" --- |")
		}
	}
	b.WriteString("\n")

	for i := 0; i < t.NumRows(); i++ {
		b.WriteString("|")
		for _, v := range t.Row(i).Values() {
			b.WriteString(" " + escapeCell(v.String()) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML converts a Markdown document, tables included, to an HTML fragment
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

// HTMLPage wraps converted Markdown in a minimal standalone page
func HTMLPage(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
