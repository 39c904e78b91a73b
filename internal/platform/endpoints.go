package platform

import (
	"context"
	"fmt"
)

// Endpoint describes one platform listing tab: where its rows come from, how
// the envelope nests them, and how its status toggle behaves.
//
// ActiveValue/InactiveValue carry the toggle polarity per entity. The backend
// is not uniform about which value means active (vendors use 1, partners use
// 0), so polarity is configured here rather than assumed.
type Endpoint struct {
	Name     string
	ListPath string
	RowKey   string
	IDKey    string

	// CreatePath/UpdatePath are empty for read-only listings.
	CreatePath string
	UpdatePath string // fmt template with one %s for the row ID

	// StatusPath is empty for entities without a status toggle.
	StatusPath    string // fmt template with one %s for the row ID
	StatusField   string
	ActiveValue   string
	InactiveValue string
}

// Adapter returns the envelope adapter for this endpoint.
func (e Endpoint) Adapter() Adapter {
	return Adapter{RowKey: e.RowKey}
}

// Toggleable reports whether the entity has a status toggle.
func (e Endpoint) Toggleable() bool {
	return e.StatusPath != ""
}

// InvertStatus flips a raw status value per this endpoint's polarity.
// Anything that is not the active value toggles to active.
func (e Endpoint) InvertStatus(current string) string {
	if current == e.ActiveValue {
		return e.InactiveValue
	}
	return e.ActiveValue
}

// ToggleStatus issues the PATCH flipping one row's status to next. Success
// returns the upstream envelope; failure leaves any local view untouched.
// There is no retry and no rollback.
func (c *Client) ToggleStatus(ctx context.Context, ep Endpoint, token, id, next string) (*Envelope, error) {
	if !ep.Toggleable() {
		return nil, fmt.Errorf("platform: %s has no status toggle", ep.Name)
	}
	payload := map[string]string{ep.StatusField: next}
	return c.PatchJSON(ctx, fmt.Sprintf(ep.StatusPath, id), token, payload)
}

// The platform endpoint registry. Row keys mirror the upstream envelope
// shapes verbatim; they are the contract, not a convention.
var (
	Bookings = Endpoint{
		Name:     "bookings",
		ListPath: "/admin/booking/list",
		RowKey:   "booking_list",
		IDKey:    "booking_id",
	}

	Drivers = Endpoint{
		Name:          "drivers",
		ListPath:      "/admin/driver/list",
		RowKey:        "driver_list",
		IDKey:         "driver_id",
		CreatePath:    "/admin/driver",
		UpdatePath:    "/admin/driver/%s",
		StatusPath:    "/admin/driver/%s/status",
		StatusField:   "driver_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}

	Vendors = Endpoint{
		Name:          "vendors",
		ListPath:      "/admin/vendor/list",
		RowKey:        "vendor_list",
		IDKey:         "vendor_id",
		CreatePath:    "/admin/vendor",
		UpdatePath:    "/admin/vendor/%s",
		StatusPath:    "/admin/vendor/%s/status",
		StatusField:   "vendor_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}

	// Partners keep the inverted polarity the backend actually uses: 0 is
	// active. Confirmed against upstream behavior, not an error here.
	Partners = Endpoint{
		Name:          "partners",
		ListPath:      "/admin/partner/list",
		RowKey:        "partner_list",
		IDKey:         "partner_id",
		CreatePath:    "/admin/partner",
		UpdatePath:    "/admin/partner/%s",
		StatusPath:    "/admin/partner/%s/status",
		StatusField:   "partner_status",
		ActiveValue:   "0",
		InactiveValue: "1",
	}

	Vehicles = Endpoint{
		Name:          "vehicles",
		ListPath:      "/admin/vehicle/list",
		RowKey:        "vehicle_list",
		IDKey:         "vehicle_id",
		CreatePath:    "/admin/vehicle",
		UpdatePath:    "/admin/vehicle/%s",
		StatusPath:    "/admin/vehicle/%s/status",
		StatusField:   "vehicle_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}

	Transactions = Endpoint{
		Name:     "transactions",
		ListPath: "/admin/transaction/list",
		RowKey:   "transaction_list",
		IDKey:    "transaction_id",
	}

	Cities = Endpoint{
		Name:          "cities",
		ListPath:      "/admin/content/city/list",
		RowKey:        "city_list",
		IDKey:         "city_id",
		CreatePath:    "/admin/content/city",
		UpdatePath:    "/admin/content/city/%s",
		StatusPath:    "/admin/content/city/%s/status",
		StatusField:   "city_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}

	Blogs = Endpoint{
		Name:          "blogs",
		ListPath:      "/admin/content/blog/list",
		RowKey:        "blog_list",
		IDKey:         "blog_id",
		CreatePath:    "/admin/content/blog",
		UpdatePath:    "/admin/content/blog/%s",
		StatusPath:    "/admin/content/blog/%s/status",
		StatusField:   "blog_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}

	FAQs = Endpoint{
		Name:          "faqs",
		ListPath:      "/admin/content/faq/list",
		RowKey:        "faq_list",
		IDKey:         "faq_id",
		CreatePath:    "/admin/content/faq",
		UpdatePath:    "/admin/content/faq/%s",
		StatusPath:    "/admin/content/faq/%s/status",
		StatusField:   "faq_status",
		ActiveValue:   "1",
		InactiveValue: "0",
	}
)

// Endpoints lists every registered listing endpoint, in dashboard order.
func Endpoints() []Endpoint {
	return []Endpoint{Bookings, Drivers, Vendors, Partners, Vehicles, Transactions, Cities, Blogs, FAQs}
}

// EndpointByName resolves an endpoint from its URL segment.
func EndpointByName(name string) (Endpoint, bool) {
	for _, ep := range Endpoints() {
		if ep.Name == name {
			return ep, true
		}
	}
	return Endpoint{}, false
}
