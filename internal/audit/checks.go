package audit

import (
	"context"
	"fmt"

	"github.com/siteops/siteaudit/internal/models"
)

// Check labels. The action resolver is keyed on these.
const (
	LabelVisibility       = "Search Engine Visibility"
	LabelSiteTitle        = "Site Title"
	LabelSeoPlugin        = "SEO Plugin"
	LabelHomeTitle        = "Homepage Title Template"
	LabelSocialImage      = "Default Social Image"
	LabelAuthorArchives   = "Author Archives"
	LabelDateArchives     = "Date Archives"
	LabelFormatArchives   = "Format Archives"
	LabelMediaPages       = "Media Pages"
	searchAppearanceLabel = " Search Appearance"
)

// categoryChecks evaluates the generic (non-image) checks for one category.
func (a *Auditor) categoryChecks(ctx context.Context, key string) []models.CheckResult {
	switch key {
	case CategoryWordPress:
		return a.WordPressChecks(ctx)
	case CategorySEO:
		return a.SeoChecks(ctx)
	}
	return nil
}

// WordPressChecks evaluates the platform settings checks.
func (a *Auditor) WordPressChecks(ctx context.Context) []models.CheckResult {
	return []models.CheckResult{
		a.checkVisibility(ctx),
		a.checkSiteTitle(ctx),
	}
}

func (a *Auditor) checkVisibility(ctx context.Context) models.CheckResult {
	v, err := a.store.GetOption(ctx, OptBlogPublic)
	if err != nil {
		return failedCheck(LabelVisibility, "Could not read visibility setting: "+err.Error())
	}
	if truthy(v) {
		return passedCheck(LabelVisibility, "Search engines allowed.")
	}
	return failedCheck(LabelVisibility, "Search engines are blocked.")
}

func (a *Auditor) checkSiteTitle(ctx context.Context) models.CheckResult {
	name, err := a.store.GetOption(ctx, OptBlogName)
	if err != nil {
		return failedCheck(LabelSiteTitle, "Could not read site title: "+err.Error())
	}

	// The SEO plugin can override the site name; either one satisfies
	// the check.
	var seoName string
	if a.seoActive {
		if seo, err := a.loadSeoSettings(ctx); err == nil {
			seoName = seo.String(seoSiteNameKey)
		}
	}

	switch {
	case name != "" && seoName != "":
		return passedCheck(LabelSiteTitle, fmt.Sprintf("Site title set: %s (SEO override: %s)", name, seoName))
	case name != "":
		return passedCheck(LabelSiteTitle, "Site title set: "+name)
	case seoName != "":
		return passedCheck(LabelSiteTitle, "Site title set via SEO plugin: "+seoName)
	default:
		return failedCheck(LabelSiteTitle, "No site title configured.")
	}
}

// SeoChecks evaluates the SEO plugin checks. When the plugin is inactive the
// category short-circuits to a single failed result; no further checks run.
func (a *Auditor) SeoChecks(ctx context.Context) []models.CheckResult {
	if !a.seoActive {
		return []models.CheckResult{failedCheck(LabelSeoPlugin, "SEO plugin not active.")}
	}

	seo, err := a.loadSeoSettings(ctx)
	if err != nil {
		return []models.CheckResult{failedCheck(LabelSeoPlugin, "Could not read SEO settings: "+err.Error())}
	}

	results := []models.CheckResult{
		checkHomeTitle(seo),
		checkSocialImage(seo),
		archiveCheck(LabelAuthorArchives, "Author", seoDisableAuthorKey, seo),
		archiveCheck(LabelDateArchives, "Date", seoDisableDateKey, seo),
		archiveCheck(LabelFormatArchives, "Format", seoDisableFormatKey, seo),
		checkMediaPages(seo),
	}

	// One search-appearance check per registered custom content type.
	types, err := a.store.ListContentTypes(ctx)
	if err != nil {
		results = append(results, failedCheck("Search Appearance",
			"Could not enumerate content types: "+err.Error()))
		return results
	}
	for _, ct := range types {
		if ct.Builtin || ct.Slug == attachmentType || ct.Slug == auditLogType {
			continue
		}
		results = append(results, searchAppearanceCheck(ct, seo))
	}

	return results
}

func (a *Auditor) loadSeoSettings(ctx context.Context) (*SeoSettings, error) {
	blob, err := a.store.GetOption(ctx, OptSeoTitles)
	if err != nil {
		return nil, err
	}
	return ParseSeoSettings(blob)
}

func checkHomeTitle(seo *SeoSettings) models.CheckResult {
	if seo.String(seoHomeTitleKey) != "" {
		return passedCheck(LabelHomeTitle, "Title template found.")
	}
	return failedCheck(LabelHomeTitle, "No title template set.")
}

func checkSocialImage(seo *SeoSettings) models.CheckResult {
	if seo.String(seoSocialImageKey) != "" {
		return passedCheck(LabelSocialImage, "Default social image is set.")
	}
	return failedCheck(LabelSocialImage, "No default social image set.")
}

// archiveCheck reports on an archive type the SEO plugin can disable. An
// absent disable flag means the archive is enabled. Enabled archives are a
// warning, not a failure: they are informational, not necessarily wrong.
func archiveCheck(label, kind, disableKey string, seo *SeoSettings) models.CheckResult {
	if seo.ArchiveDisabled(disableKey) {
		return passedCheck(label, kind+" archives are disabled.")
	}
	return models.CheckResult{
		Label:   label,
		Status:  models.StatusWarning,
		Message: kind + " archives are enabled. Consider disabling them if unused.",
	}
}

// checkMediaPages flags attachment archive pages, which should always be
// disabled.
func checkMediaPages(seo *SeoSettings) models.CheckResult {
	if seo.ArchiveDisabled(seoDisableMediaKey) {
		return passedCheck(LabelMediaPages, "Media attachment pages are disabled.")
	}
	return failedCheck(LabelMediaPages, "Media attachment pages are enabled. These should be disabled.")
}

// searchAppearanceCheck evaluates one content type's search visibility.
// A type is "effectively public" when its two public-ness flags disagree;
// the XOR is deliberate and targets inconsistent configurations. An
// effectively-public type that is also noindexed is reachable but invisible
// to search, which is the failure mode this check exists for.
func searchAppearanceCheck(ct *models.ContentType, seo *SeoSettings) models.CheckResult {
	label := ct.Label + searchAppearanceLabel
	effectivelyPublic := ct.PubliclyQueryable != ct.Public

	result := models.CheckResult{Label: label, Slug: ct.Slug, Status: models.StatusPassed}
	switch {
	case !effectivelyPublic:
		result.Message = fmt.Sprintf("%s visibility flags are consistent.", ct.Label)
	case seo.Noindexed(ct.Slug):
		result.Status = models.StatusFailed
		result.Message = fmt.Sprintf("%s is publicly reachable but excluded from search results.", ct.Label)
	default:
		result.Message = fmt.Sprintf("%s is properly configured for search.", ct.Label)
	}
	return result
}

func passedCheck(label, message string) models.CheckResult {
	return models.CheckResult{Label: label, Status: models.StatusPassed, Message: message}
}

func failedCheck(label, message string) models.CheckResult {
	return models.CheckResult{Label: label, Status: models.StatusFailed, Message: message}
}
