// Package audit evaluates the site's configuration and content against a
// fixed rule set and aggregates the outcomes into a categorized report.
package audit

import "github.com/siteops/siteaudit/internal/models"

// Category keys. The report and the action resolver are keyed on these.
const (
	CategoryWordPress = "wordpress"
	CategorySEO       = "seo"
	CategoryImages    = "images"
)

// Option keys read from the site's option store.
const (
	OptBlogPublic       = "blog_public"
	OptBlogName         = "blogname"
	OptSeoPluginActive  = "seo_plugin_active"
	OptSeoTitles        = "seo_titles"
	OptResponsibleUsers = "audit_responsible_users"
)

// Content types never given a search-appearance check: the media library
// itself and the auditor's own log type.
const (
	attachmentType = "attachment"
	auditLogType   = "audit_log"
)

// DefaultCategories returns the fixed category list in display order. The
// slice is built fresh on each call so callers can't mutate shared state.
func DefaultCategories() []models.Category {
	return []models.Category{
		{Key: CategoryWordPress, Label: "WordPress"},
		{Key: CategorySEO, Label: "SEO"},
		{Key: CategoryImages, Label: "Images"},
	}
}
