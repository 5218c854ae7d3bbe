package listview

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/haulops/haulctl/internal/api"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func TestWriteCSV_Format(t *testing.T) {
	cols := []api.Column{{Title: "Name", Field: "name"}, {Title: "Note", Field: "note"}}
	recs := []api.Record{
		{"name": `Big "Rig" Co`, "note": "a,b"},
		{"name": "Solo"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, "Customers", cols, recs); err != nil {
		t.Fatal(err)
	}

	want := "\xEF\xBB\xBF" +
		"Section,Customers\n" +
		"\n" +
		`"Name","Note"` + "\n" +
		`"Big ""Rig"" Co","a,b"` + "\n" +
		`"Solo",""` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("csv mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestExportCSV_FilteredNotVisible(t *testing.T) {
	v, _ := loaded(t, customers(23))
	v.SetSearchTerm("customer 1")
	v.GotoPage(0)
	if err := v.SetRowsPerPage(5); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	n, err := v.ExportCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("rows written = %d, want 10 (whole filtered set)", n)
	}

	// Strip the BOM the way a spreadsheet would, then parse back.
	body := transform.NewReader(&buf, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	r := csv.NewReader(body)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// csv.Reader skips the blank separator line.
	if diff := cmp.Diff([]string{"Section", "Customers"}, rows[0]); diff != "" {
		t.Fatalf("section line (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(api.Customers.ColumnTitles(), rows[1]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if len(rows)-2 != 10 {
		t.Fatalf("data rows = %d", len(rows)-2)
	}
	for _, row := range rows[2:] {
		if !strings.HasPrefix(row[1], "Customer 1") {
			t.Fatalf("unexpected row %v", row)
		}
	}
}

func TestExportFilename(t *testing.T) {
	v := New(api.Containers, &fakeBackend{lists: [][]api.Record{nil}})
	now := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	if got := v.ExportFilename(now); got != "YardDrops_2026-03-09.csv" {
		t.Fatalf("ExportFilename = %q", got)
	}
}
