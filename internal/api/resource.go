package api

import (
	"net/url"
	"sort"
	"strings"
)

// Field describes one editable attribute of a resource, as shown in forms.
type Field struct {
	Name     string   // dotted record path
	Label    string   // prompt label
	Required bool     // must be non-empty before submit
	Options  []string // fixed choices; empty means free text
}

// Column is one displayed and exported column.
type Column struct {
	Title string
	Field string // dotted record path
}

// Resource describes one backend collection and how its screen behaves.
type Resource struct {
	Name         string // CLI name, e.g. "customers"
	Section      string // title used in headers and CSV exports
	Base         string // path prefix, e.g. "/customers"
	ListPath     string // collection endpoint, e.g. "/customers/all"
	PluralKey    string // envelope key used when "data" is absent
	IDField      string
	SearchFields []string
	Columns      []Column
	Fields       []Field
}

// AddPath is the create endpoint.
func (r Resource) AddPath() string {
	return r.Base + "/add"
}

// ItemPath is the update/delete endpoint for one record. The id is a
// single escaped path segment.
func (r Resource) ItemPath(id string) string {
	return r.Base + "/" + url.PathEscape(id)
}

// Required lists the names of required fields.
func (r Resource) Required() []string {
	var names []string
	for _, f := range r.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// ColumnTitles returns the column headers in display order.
func (r Resource) ColumnTitles() []string {
	titles := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		titles[i] = c.Title
	}
	return titles
}

var (
	Customers = Resource{
		Name:         "customers",
		Section:      "Customers",
		Base:         "/customers",
		ListPath:     "/customers/all",
		PluralKey:    "customers",
		IDField:      "_id",
		SearchFields: []string{"name", "email", "phone", "company"},
		Columns: []Column{
			{Title: "ID", Field: "_id"},
			{Title: "Name", Field: "name"},
			{Title: "Company", Field: "company"},
			{Title: "Email", Field: "email"},
			{Title: "Phone", Field: "phone"},
			{Title: "City", Field: "address.city"},
		},
		Fields: []Field{
			{Name: "name", Label: "Name", Required: true},
			{Name: "company", Label: "Company"},
			{Name: "email", Label: "Email", Required: true},
			{Name: "phone", Label: "Phone", Required: true},
			{Name: "address.street", Label: "Street"},
			{Name: "address.city", Label: "City"},
		},
	}

	Bids = Resource{
		Name:         "bids",
		Section:      "Bids",
		Base:         "/bids",
		ListPath:     "/bids/my-bids",
		PluralKey:    "bids",
		IDField:      "_id",
		SearchFields: []string{"load.origin", "load.destination", "status", "customer.name"},
		Columns: []Column{
			{Title: "ID", Field: "_id"},
			{Title: "Origin", Field: "load.origin"},
			{Title: "Destination", Field: "load.destination"},
			{Title: "Customer", Field: "customer.name"},
			{Title: "Rate", Field: "rate"},
			{Title: "Status", Field: "status"},
		},
		Fields: []Field{
			{Name: "load.origin", Label: "Origin", Required: true},
			{Name: "load.destination", Label: "Destination", Required: true},
			{Name: "load.pickupDate", Label: "Pickup date (YYYY-MM-DD)", Required: true},
			{Name: "rate", Label: "Rate", Required: true},
			{Name: "status", Label: "Status", Options: []string{"Pending", "Negotiating", "Accepted", "Rejected"}},
		},
	}

	Fleet = Resource{
		Name:         "fleet",
		Section:      "Fleet",
		Base:         "/vehicles",
		ListPath:     "/vehicles/all",
		PluralKey:    "vehicles",
		IDField:      "_id",
		SearchFields: []string{"truckNumber", "plate", "make", "model", "status", "driver.name"},
		Columns: []Column{
			{Title: "ID", Field: "_id"},
			{Title: "Truck", Field: "truckNumber"},
			{Title: "Plate", Field: "plate"},
			{Title: "Make", Field: "make"},
			{Title: "Model", Field: "model"},
			{Title: "Driver", Field: "driver.name"},
			{Title: "Status", Field: "status"},
		},
		Fields: []Field{
			{Name: "truckNumber", Label: "Truck number", Required: true},
			{Name: "plate", Label: "Plate", Required: true},
			{Name: "make", Label: "Make"},
			{Name: "model", Label: "Model"},
			{Name: "status", Label: "Status", Options: []string{"Active", "Maintenance", "Inactive"}},
		},
	}

	Containers = Resource{
		Name:         "containers",
		Section:      "YardDrops",
		Base:         "/yard-drops",
		ListPath:     "/yard-drops/all",
		PluralKey:    "yardDrops",
		IDField:      "_id",
		SearchFields: []string{"containerNumber", "yard", "status", "customer.name"},
		Columns: []Column{
			{Title: "ID", Field: "_id"},
			{Title: "Container", Field: "containerNumber"},
			{Title: "Size", Field: "size"},
			{Title: "Yard", Field: "yard"},
			{Title: "Customer", Field: "customer.name"},
			{Title: "Dropped", Field: "dropDate"},
			{Title: "Status", Field: "status"},
		},
		Fields: []Field{
			{Name: "containerNumber", Label: "Container number", Required: true},
			{Name: "size", Label: "Size", Options: []string{"20ft", "40ft", "45ft"}},
			{Name: "yard", Label: "Yard", Required: true},
			{Name: "dropDate", Label: "Drop date (YYYY-MM-DD)", Required: true},
			{Name: "status", Label: "Status", Options: []string{"Dropped", "Picked Up", "On Hold"}},
		},
	}
)

var registry = map[string]Resource{
	Customers.Name:  Customers,
	Bids.Name:       Bids,
	Fleet.Name:      Fleet,
	Containers.Name: Containers,
}

// Lookup returns the resource with the given CLI name.
func Lookup(name string) (Resource, bool) {
	r, ok := registry[strings.ToLower(name)]
	return r, ok
}

// Names returns all resource names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every resource in name order.
func All() []Resource {
	names := Names()
	out := make([]Resource, len(names))
	for i, n := range names {
		out[i] = registry[n]
	}
	return out
}
