package cli

import (
	"fmt"
	"io"
	"net/url"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderQueryParams writes the query parameters of rawURL as a two-column
// table, sorted by name.
func RenderQueryParams(w io.Writer, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	query := u.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("PARAMETER"),
		text.FgHiCyan.Sprint("VALUE"),
	})
	for _, name := range names {
		for _, value := range query[name] {
			t.AppendRow(table.Row{name, value})
		}
	}
	t.Render()
	return nil
}
