// Package vendors is the service vendor listing tab.
package vendors

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

var statuses = format.StatusSet{
	"1": {Label: "Active", Severity: format.SeveritySuccess},
	"0": {Label: "Inactive", Severity: format.SeverityDanger},
}

func table() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("vendor_name", "Vendor"),
		listing.TextColumn("vendor_phone", "Phone"),
		listing.TextColumn("service_type", "Service"),
		listing.TextColumn("city", "City"),
		listing.TextColumn("total_vehicles", "Vehicles"),
		listing.StatusColumn("vendor_status", "Status", statuses),
		listing.DateColumn("created_at", "Onboarded"),
	}}
}

// Register mounts the vendor listing, toggle and form routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Vendors, table(), forms.VendorRules, opts).Register(mux)
}
