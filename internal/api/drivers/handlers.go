// Package drivers is the driver roster listing tab.
package drivers

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
		listing.TextColumn("driver_name", "Name"),
		listing.TextColumn("driver_phone", "Phone"),
		listing.TextColumn("license_number", "License"),
		listing.TextColumn("vendor_name", "Vendor"),
		listing.ImageColumn("driver_photo", "Photo"),
		listing.StatusColumn("driver_status", "Status", statuses),
		listing.DateColumn("created_at", "Added On"),
	}}
}

// Register mounts the driver listing, toggle and form routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Drivers, table(), forms.DriverRules, opts).Register(mux)
}
