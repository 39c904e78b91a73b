// Package forms performs the validation the admin UI used to do client-side:
// required fields, enum membership and phone numbers are checked before a
// submission is forwarded to the platform API. A failing form never produces
// an upstream call.
package forms

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// FieldError is one per-field validation failure, rendered inline by the UI.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// defaultPhoneRegion resolves national-format numbers; the platform operates
// in India.
const defaultPhoneRegion = "IN"

// Rules declares the validation contract for one form.
type Rules struct {
	Required []string
	Phone    []string
	Enum     map[string][]string
	MaxLen   map[string]int
}

// Validate checks the submitted fields and returns every failure found.
func (r Rules) Validate(fields map[string]string) []FieldError {
	var errs []FieldError

	for _, field := range r.Required {
		if strings.TrimSpace(fields[field]) == "" {
			errs = append(errs, FieldError{Field: field, Reason: "is required"})
		}
	}
	for _, field := range r.Phone {
		value := strings.TrimSpace(fields[field])
		if value == "" {
			continue // requiredness is declared separately
		}
		if !ValidPhone(value) {
			errs = append(errs, FieldError{Field: field, Reason: "is not a valid phone number"})
		}
	}
	for field, allowed := range r.Enum {
		value := strings.TrimSpace(fields[field])
		if value == "" {
			continue
		}
		if !contains(allowed, value) {
			errs = append(errs, FieldError{Field: field, Reason: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))})
		}
	}
	for field, max := range r.MaxLen {
		if len(fields[field]) > max {
			errs = append(errs, FieldError{Field: field, Reason: fmt.Sprintf("must be %d characters or fewer", max)})
		}
	}
	return errs
}

// ValidPhone reports whether raw parses as a possible, valid phone number.
func ValidPhone(raw string) bool {
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Per-entity rule sets. Field names mirror the upstream form contracts.
var (
	DriverRules = Rules{
		Required: []string{"driver_name", "driver_phone", "license_number"},
		Phone:    []string{"driver_phone"},
		MaxLen:   map[string]int{"driver_name": 100},
	}

	VendorRules = Rules{
		Required: []string{"vendor_name", "vendor_phone", "service_type"},
		Phone:    []string{"vendor_phone"},
		Enum: map[string][]string{
			"service_type": {"ambulance", "manpower", "equipment"},
		},
	}

	PartnerRules = Rules{
		Required: []string{"partner_name", "partner_phone"},
		Phone:    []string{"partner_phone"},
	}

	VehicleRules = Rules{
		Required: []string{"vehicle_number", "vehicle_type"},
		Enum: map[string][]string{
			"vehicle_type": {"bls", "als", "icu", "mortuary"},
		},
	}

	BlogRules = Rules{
		Required: []string{"blog_title", "blog_body"},
		MaxLen:   map[string]int{"blog_title": 200},
	}

	FAQRules = Rules{
		Required: []string{"question", "answer"},
	}

	CityRules = Rules{
		Required: []string{"city_name", "city_content"},
		MaxLen:   map[string]int{"city_name": 100},
	}
)
