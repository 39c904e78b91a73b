// Package partners is the manpower partner listing tab.
package partners

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

// Partner status polarity is inverted upstream: 0 is the active value.
var statuses = format.StatusSet{
	"0": {Label: "Active", Severity: format.SeveritySuccess},
	"1": {Label: "Inactive", Severity: format.SeverityDanger},
}

func table() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("partner_name", "Partner"),
		listing.TextColumn("partner_phone", "Phone"),
		listing.TextColumn("company", "Company"),
		listing.StatusColumn("partner_status", "Status", statuses),
		listing.DateColumn("created_at", "Onboarded"),
	}}
}

// Register mounts the partner listing, toggle and form routes.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Partners, table(), forms.PartnerRules, opts).Register(mux)
}
