// Package bookings is the ambulance booking listing tab.
package bookings

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

var statuses = format.StatusSet{
	"0": {Label: "Pending", Severity: format.SeverityWarning},
	"1": {Label: "Confirmed", Severity: format.SeverityInfo},
	"2": {Label: "Completed", Severity: format.SeveritySuccess},
	"3": {Label: "Cancelled", Severity: format.SeverityDanger},
}

func table() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("booking_id", "Booking ID"),
		listing.TextColumn("consumer_name", "Consumer"),
		listing.TextColumn("consumer_phone", "Phone"),
		listing.TextColumn("pickup_address", "Pickup"),
		listing.TextColumn("drop_address", "Drop"),
		listing.CurrencyColumn("booking_amount", "Amount"),
		listing.StatusColumn("booking_status", "Status", statuses),
		listing.DateColumn("created_at", "Booked At"),
	}}
}

// Register mounts the bookings listing routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Bookings, table(), forms.Rules{}, opts).Register(mux)
}
