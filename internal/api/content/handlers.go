// Package content groups the CMS listing tabs: city pages, blogs and FAQs.
package content

import (
	"net/http"

	"github.com/medrush/opsconsole/internal/api/listings"
	"github.com/medrush/opsconsole/internal/format"
	"github.com/medrush/opsconsole/internal/forms"
	"github.com/medrush/opsconsole/internal/listing"
	"github.com/medrush/opsconsole/internal/platform"
)

var publishStatuses = format.StatusSet{
	"1": {Label: "Published", Severity: format.SeveritySuccess},
	"0": {Label: "Draft", Severity: format.SeverityWarning},
}

func cityTable() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("city_name", "City"),
		listing.TextColumn("city_slug", "Slug"),
		listing.ImageColumn("banner_image", "Banner"),
		listing.StatusColumn("city_status", "Status", publishStatuses),
		listing.DateColumn("updated_at", "Updated"),
	}}
}

func blogTable() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("blog_title", "Title"),
		listing.TextColumn("author_name", "Author"),
		listing.ImageColumn("cover_image", "Cover"),
		listing.StatusColumn("blog_status", "Status", publishStatuses),
		listing.DateColumn("published_at", "Published"),
	}}
}

func faqTable() listing.Table {
	return listing.Table{Columns: []listing.Column{
		listing.TextColumn("question", "Question"),
		listing.TextColumn("category", "Category"),
		listing.StatusColumn("faq_status", "Status", publishStatuses),
		listing.DateColumn("updated_at", "Updated"),
	}}
}

// Register mounts the three content listing tabs.
func Register(mux *http.ServeMux, client *platform.Client, opts listings.Options) {
	listings.New(client, platform.Cities, cityTable(), forms.CityRules, opts).Register(mux)
	listings.New(client, platform.Blogs, blogTable(), forms.BlogRules, opts).Register(mux)
	listings.New(client, platform.FAQs, faqTable(), forms.FAQRules, opts).Register(mux)
}
