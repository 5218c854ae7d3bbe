package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/haulops/haulctl/internal/api"
)

func customer(name, phone, company string) api.Record {
	return api.Record{"_id": "c1", "name": name, "phone": phone, "company": company, "createdAt": "2026-01-01"}
}

func TestThreeWay_NoChanges(t *testing.T) {
	base := customer("Ada", "555", "Acme")
	result := ThreeWay(api.Customers, base, base.Clone(), base.Clone())

	if result.HasConflicts() {
		t.Fatal("expected no conflicts")
	}
	if diff := cmp.Diff(base, result.Merged); diff != "" {
		t.Fatalf("merged record changed (-want +got):\n%s", diff)
	}
}

func TestThreeWay_OnlyLocalChanged(t *testing.T) {
	base := customer("Ada", "555", "Acme")
	local := customer("Ada Lovelace", "555", "Acme")

	result := ThreeWay(api.Customers, base, local, base.Clone())

	if result.HasConflicts() {
		t.Fatal("expected no conflicts")
	}
	if got := result.Merged.Text("name"); got != "Ada Lovelace" {
		t.Fatalf("name = %q, want local value", got)
	}
	if result.AutoResolved != 0 {
		t.Fatalf("AutoResolved = %d, want 0", result.AutoResolved)
	}
}

func TestThreeWay_DisjointChanges(t *testing.T) {
	base := customer("Ada", "555", "Acme")
	local := customer("Ada", "555-0100", "Acme")
	remote := customer("Ada", "555", "Acme Freight")
	remote["updatedAt"] = "2026-03-01"

	result := ThreeWay(api.Customers, base, local, remote)

	if result.HasConflicts() {
		t.Fatalf("unexpected conflicts:\n%s", result.Summary())
	}
	want := customer("Ada", "555-0100", "Acme Freight")
	want["updatedAt"] = "2026-03-01"
	if diff := cmp.Diff(want, result.Merged); diff != "" {
		t.Fatalf("merged record (-want +got):\n%s", diff)
	}
	if result.AutoResolved != 1 {
		t.Fatalf("AutoResolved = %d, want 1", result.AutoResolved)
	}
}

func TestThreeWay_SameChangeOnBothSides(t *testing.T) {
	base := customer("Ada", "555", "Acme")
	both := customer("Ada", "555", "Acme Freight")

	result := ThreeWay(api.Customers, base, both, both.Clone())

	if result.HasConflicts() {
		t.Fatal("identical edits must not conflict")
	}
	if got := result.Merged.Text("company"); got != "Acme Freight" {
		t.Fatalf("company = %q", got)
	}
}

func TestThreeWay_Conflict(t *testing.T) {
	base := customer("Ada", "555", "Acme")
	local := customer("Ada", "555-0100", "Acme")
	remote := customer("Ada", "555-0199", "Acme")

	result := ThreeWay(api.Customers, base, local, remote)

	want := []Conflict{{Field: "phone", Label: "Phone", Base: "555", Local: "555-0100", Remote: "555-0199"}}
	if diff := cmp.Diff(want, result.Conflicts); diff != "" {
		t.Fatalf("conflicts (-want +got):\n%s", diff)
	}
	if got := result.Merged.Text("phone"); got != "555-0199" {
		t.Fatalf("conflicting field should keep remote value, got %q", got)
	}
}

func TestThreeWay_NestedFields(t *testing.T) {
	base := api.Record{"_id": "b1", "load": map[string]any{"origin": "Reno", "destination": "Boise"}, "rate": "1800"}
	local := base.Clone()
	local.Set("load.destination", "Spokane")
	remote := base.Clone()
	remote.Set("rate", "1900")

	result := ThreeWay(api.Bids, base, local, remote)

	if result.HasConflicts() {
		t.Fatalf("unexpected conflicts:\n%s", result.Summary())
	}
	if got := result.Merged.Text("load.destination"); got != "Spokane" {
		t.Fatalf("load.destination = %q", got)
	}
	if got := result.Merged.Text("rate"); got != "1900" {
		t.Fatalf("rate = %q", got)
	}
	if got := base.Text("load.destination"); got != "Boise" {
		t.Fatalf("base was modified: %q", got)
	}
}
