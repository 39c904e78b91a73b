// Package vehicles is the fleet vehicle listing tab.
package vehicles

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

var statuses = format.StatusSet{
	"1": {Label: "On Road", Severity: format.SeveritySuccess},
	"0": {Label: "Off Road", Severity: format.SeverityDanger},
}

func table() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("vehicle_number", "Number"),
		listing.TextColumn("vehicle_type", "Type"),
		listing.TextColumn("vendor_name", "Vendor"),
		listing.ImageColumn("vehicle_image", "Photo"),
		listing.StatusColumn("vehicle_status", "Status", statuses),
		listing.DateColumn("created_at", "Added On"),
	}}
}

// Register mounts the vehicle listing, toggle and form routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Vehicles, table(), forms.VehicleRules, opts).Register(mux)
}
