package api

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordLookupAndText(t *testing.T) {
	rec := Record{
		"_id":      "b1",
		"rate":     json.Number("1800.00"),
		"hazmat":   false,
		"notes":    nil,
		"load":     map[string]any{"origin": "Reno, NV", "stops": []any{"A", "B"}},
		"customer": map[string]any{"name": "Acme"},
	}

	cases := map[string]string{
		"_id":           "b1",
		"rate":          "1800.00",
		"hazmat":        "false",
		"notes":         "",
		"missing":       "",
		"load.origin":   "Reno, NV",
		"load.stops":    `["A","B"]`,
		"customer.name": "Acme",
		"customer.x.y":  "",
		"_id.deeper":    "",
	}
	for path, want := range cases {
		if got := rec.Text(path); got != want {
			t.Errorf("Text(%q) = %q, want %q", path, got, want)
		}
	}
	if rec.ID(Bids) != "b1" {
		t.Fatalf("ID = %q", rec.ID(Bids))
	}
}

func TestRecordCloneIsDeep(t *testing.T) {
	orig := Record{"load": map[string]any{"origin": "Reno"}, "tags": []any{"x"}}
	cp := orig.Clone()
	cp.Set("load.origin", "Boise")
	cp.Set("address.city", "Elko")
	cp["tags"].([]any)[0] = "y"

	want := Record{"load": map[string]any{"origin": "Reno"}, "tags": []any{"x"}}
	if diff := cmp.Diff(want, orig); diff != "" {
		t.Fatalf("original mutated (-want +got):\n%s", diff)
	}
	if cp.Text("address.city") != "Elko" || cp.Text("load.origin") != "Boise" {
		t.Fatalf("clone not updated: %v", cp)
	}
}

func TestLookupResource(t *testing.T) {
	r, ok := Lookup("Fleet")
	if !ok || r.ListPath != "/vehicles/all" {
		t.Fatalf("Lookup(Fleet) = %+v, %v", r, ok)
	}
	if _, ok := Lookup("invoices"); ok {
		t.Fatal("unexpected resource")
	}
	if diff := cmp.Diff([]string{"bids", "containers", "customers", "fleet"}, Names()); diff != "" {
		t.Fatalf("Names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "email", "phone"}, Customers.Required()); diff != "" {
		t.Fatalf("Required (-want +got):\n%s", diff)
	}
}
