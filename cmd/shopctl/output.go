package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable — строки через табуляцию, выровненные по колонкам.
func printTable(w io.Writer, header string, rows []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, r); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// render — JSON при --json, иначе таблица от table.
func render(c *cli.Context, v any, table func(w io.Writer) error) error {
	if c.Bool(flagJSON) {
		return printJSON(c.App.Writer, v)
	}
	return table(c.App.Writer)
}
