package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table collects rows and renders them for the renderer's mode.
type Table struct {
	r *Renderer
	w table.Writer
}

// NewTable starts a table with the given column headers.
func (r *Renderer) NewTable(headers ...string) *Table {
	w := table.NewWriter()
	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	w.AppendHeader(row)
	if r.isTTY {
		w.SetStyle(table.StyleRounded)
	} else {
		w.SetStyle(table.StyleLight)
	}
	return &Table{r: r, w: w}
}

// Append adds a row.
func (t *Table) Append(cells ...any) {
	t.w.AppendRow(table.Row(cells))
}

// Len returns the number of rows appended.
func (t *Table) Len() int {
	return t.w.Length()
}

// Render writes the table: box drawing in text mode, a pipe table in markdown.
func (t *Table) Render() {
	if t.r.EffectiveMode() == ModeMarkdown {
		t.r.Println(t.w.RenderMarkdown())
	} else {
		t.r.Println(t.w.Render())
	}
	t.r.Println("")
}
