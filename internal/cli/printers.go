package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
)

// printer writes either tables or JSON
type printer struct {
	out  io.Writer
	json bool
}

func newPrinter(out io.Writer, ro *RootOptions) *printer {
	return &printer{out: out, json: ro.JSON}
}

// table prints rows under a bold header; in JSON mode it prints v instead
func (p *printer) table(v interface{}, header []interface{}, rows [][]interface{}) error {
	if p.json {
		return p.value(v)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(p.out, faint("none"))
		return nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	boldHeader := make([]interface{}, 0, len(header))
	for _, h := range header {
		boldHeader = append(boldHeader, bold(h))
	}
	tbl.AddRow(boldHeader...)
	for _, row := range rows {
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(p.out, tbl)
	return nil
}

// done prints a one-line summary; in JSON mode it prints v instead
func (p *printer) done(v interface{}, format string, args ...interface{}) error {
	if p.json {
		return p.value(v)
	}
	_, _ = fmt.Fprintln(p.out, success(fmt.Sprintf(format, args...)))
	return nil
}

func (p *printer) value(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
