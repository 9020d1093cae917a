package audit

import (
	"strings"

	"github.com/siteops/siteaudit/internal/models"
)

// ResolveAction maps a non-passing check to its remediation action: either
// an inline edit of a single setting or a link to the relevant settings
// screen. Returns nil for passing results and for checks with no known
// remediation.
func (a *Auditor) ResolveAction(category string, r models.CheckResult) *models.RemediationAction {
	if r.Status == models.StatusPassed {
		return nil
	}

	switch category {
	case CategoryWordPress:
		switch r.Label {
		case LabelVisibility:
			return models.Link(a.adminURL+"/options-reading.php", "Edit Visibility")
		case LabelSiteTitle:
			return models.InlineEdit(OptBlogName)
		}

	case CategorySEO:
		if !a.seoActive {
			return models.Link(a.adminURL+"/plugin-install.php?s=seo&tab=search&type=term", "Install SEO Plugin")
		}

		switch r.Label {
		case LabelHomeTitle, LabelSocialImage:
			return a.seoSettingsLink("site-basics")
		case LabelAuthorArchives:
			return a.seoSettingsLink("author-archives")
		case LabelDateArchives:
			return a.seoSettingsLink("date-archives")
		case LabelFormatArchives:
			return a.seoSettingsLink("format-archives")
		case LabelMediaPages:
			return a.seoSettingsLink("post-type/attachment")
		}

		// Dynamic per-content-type checks resolve through the slug.
		if strings.HasSuffix(r.Label, searchAppearanceLabel) {
			if r.Slug != "" {
				return a.seoSettingsLink("post-type/" + r.Slug)
			}
			return models.Link(a.adminURL+"/admin.php?page=seo_page_settings", "Edit SEO Settings")
		}
	}

	return nil
}

func (a *Auditor) seoSettingsLink(fragment string) *models.RemediationAction {
	return models.Link(a.adminURL+"/admin.php?page=seo_page_settings#/"+fragment, "Edit SEO Settings")
}
