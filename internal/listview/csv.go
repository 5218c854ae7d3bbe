package listview

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/util"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// WriteCSV writes records as a spreadsheet-friendly CSV: UTF-8 with a BOM,
// a "Section,<name>" line, a blank line, the header row, then one row per
// record. Every cell is quoted, with embedded quotes doubled.
func WriteCSV(w io.Writer, section string, cols []api.Column, recs []api.Record) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	bw := bufio.NewWriter(tw)

	bw.WriteString("Section," + section + "\n\n")

	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = quote(c.Title)
	}
	bw.WriteString(strings.Join(cells, ",") + "\n")

	for _, rec := range recs {
		for i, c := range cols {
			cells[i] = quote(rec.Text(c.Field))
		}
		bw.WriteString(strings.Join(cells, ",") + "\n")
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	return tw.Close()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV writes the whole filtered collection, not just the visible page.
// It returns the number of data rows written.
func (v *View) ExportCSV(w io.Writer) (int, error) {
	recs := v.Filtered()
	if err := WriteCSV(w, v.res.Section, v.res.Columns, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// ExportFilename is "<section>_<YYYY-MM-DD>.csv" for the given time.
func (v *View) ExportFilename(now time.Time) string {
	return util.ExportFilename(v.res.Section, now)
}
