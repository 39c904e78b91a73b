// Package transactions is the payment transaction listing tab. Read-only:
// payments have no toggle and no forms.
package transactions

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

var statuses = format.StatusSet{
	"0": {Label: "Failed", Severity: format.SeverityDanger},
	"1": {Label: "Success", Severity: format.SeveritySuccess},
	"2": {Label: "Refunded", Severity: format.SeverityInfo},
}

func table() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("transaction_id", "Transaction ID"),
		listing.TextColumn("booking_id", "Booking"),
		listing.CurrencyColumn("amount", "Amount"),
		listing.TextColumn("payment_mode", "Mode"),
		listing.StatusColumn("payment_status", "Status", statuses),
		listing.DateColumn("created_at", "Paid At"),
	}}
}

// Register mounts the transaction listing routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Transactions, table(), forms.Rules{}, opts).Register(mux)
}
