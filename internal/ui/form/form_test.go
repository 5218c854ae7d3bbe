package form

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/haulops/haulctl/internal/api"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	confirmErr error
	inputPos   int
	selectPos  int
	prompts    []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmErr != nil {
		return false, s.confirmErr
	}
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func TestFill_NewCustomer(t *testing.T) {
	d := &stubDriver{inputs: []string{"Sierra Haulers", "", "ops@sierra.example", " 775-555-0100 ", "", "Reno"}}

	got, err := Fill(context.Background(), d, api.Customers, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := api.Record{
		"name":    "Sierra Haulers",
		"email":   "ops@sierra.example",
		"phone":   "775-555-0100",
		"address": map[string]any{"city": "Reno"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record (-want +got):\n%s", diff)
	}
	if d.prompts[0].Message != "Name *" || d.prompts[1].Message != "Company" {
		t.Fatalf("prompt labels: %q, %q", d.prompts[0].Message, d.prompts[1].Message)
	}
}

func TestFill_EditKeepsOriginalUntouched(t *testing.T) {
	current := api.Record{
		"_id":         "v07",
		"plate":       "NV 1234",
		"status":      "Active",
		"truckNumber": "T-007",
	}
	d := &stubDriver{inputs: []string{"T-007", "NV 9999", "Volvo", ""}, selectIdx: []int{1}}

	got, err := Fill(context.Background(), d, api.Fleet, current)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text("plate") != "NV 9999" || got.Text("status") != "Maintenance" || got.Text("_id") != "v07" {
		t.Fatalf("edited = %v", got)
	}
	if current.Text("plate") != "NV 1234" || current.Text("status") != "Active" {
		t.Fatalf("original mutated: %v", current)
	}
	if d.prompts[1].Default != "NV 1234" {
		t.Fatalf("default = %q", d.prompts[1].Default)
	}
}

// defaultsDriver accepts every prompt's default.
type defaultsDriver struct {
	selects []SelectConfig
}

func (d *defaultsDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	return cfg.Default, nil
}

func (d *defaultsDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	return cfg.Default, nil
}

func (d *defaultsDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *defaultsDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.selects = append(d.selects, cfg)
	return cfg.DefaultIndex, nil
}

func TestFill_AcceptingDefaultsChangesNothing(t *testing.T) {
	tests := []struct {
		name    string
		res     api.Resource
		current api.Record
	}{
		{"fleet status outside options", api.Fleet, api.Record{
			"_id": "v09", "truckNumber": "T-009", "plate": "NV 4321", "make": "Kenworth", "status": "In Transit",
		}},
		{"lower-case bid status", api.Bids, api.Record{
			"_id":    "b3",
			"load":   map[string]any{"origin": "Reno", "destination": "Boise", "pickupDate": "2026-03-12"},
			"rate":   1250.5,
			"status": "accepted",
		}},
		{"container with listed values", api.Containers, api.Record{
			"_id": "y1", "containerNumber": "MSCU1234567", "size": "40ft", "yard": "North", "dropDate": "2026-03-01", "status": "On Hold",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fill(context.Background(), &defaultsDriver{}, tt.res, tt.current)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.current, got); diff != "" {
				t.Fatalf("record changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestFill_OutOfListValueIsOffered(t *testing.T) {
	d := &defaultsDriver{}
	current := api.Record{"truckNumber": "T-009", "plate": "NV 4321", "status": "In Transit"}
	if _, err := Fill(context.Background(), d, api.Fleet, current); err != nil {
		t.Fatal(err)
	}
	want := []string{"In Transit", "Active", "Maintenance", "Inactive"}
	if diff := cmp.Diff(want, d.selects[0].Options); diff != "" {
		t.Fatalf("options (-want +got):\n%s", diff)
	}
	if d.selects[0].DefaultIndex != 0 {
		t.Fatalf("default index = %d", d.selects[0].DefaultIndex)
	}
	if diff := cmp.Diff([]string{"Active", "Maintenance", "Inactive"}, api.Fleet.Fields[4].Options); diff != "" {
		t.Fatalf("resource options mutated:\n%s", diff)
	}
}

func TestFill_BlankRequiredFails(t *testing.T) {
	d := &stubDriver{inputs: []string{"   "}}
	if _, err := Fill(context.Background(), d, api.Customers, nil); err == nil {
		t.Fatal("expected error for blank required field")
	}
}

func TestFill_AbortPropagates(t *testing.T) {
	d := &stubDriver{}
	_, err := Fill(context.Background(), d, api.Customers, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestConfirm_AbortIsNo(t *testing.T) {
	ok, err := Confirm(context.Background(), &stubDriver{confirmErr: ErrAborted}, "Delete?")
	if ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	ok, err = Confirm(context.Background(), &stubDriver{confirm: []bool{true}}, "Delete?")
	if !ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestRequiredValidator(t *testing.T) {
	v := required("Email")
	if v("") == nil || v("  ") == nil {
		t.Fatal("blank accepted")
	}
	if v("a@b.c") != nil {
		t.Fatal("value rejected")
	}
}
