package audit

import (
	"encoding/json"
	"fmt"
)

// SEO plugin setting keys within the seo_titles option blob. Archive and
// media "disable" flags absent from the blob mean the feature is enabled.
const (
	seoHomeTitleKey      = "title-home-wpseo"
	seoSiteNameKey       = "website_name"
	seoSocialImageKey    = "og_default_image"
	seoDisableAuthorKey  = "disable-author"
	seoDisableDateKey    = "disable-date"
	seoDisableFormatKey  = "disable-post_format"
	seoDisableMediaKey   = "disable-attachment"
	seoNoindexKeyPrefix  = "noindex-"
)

// SeoSettings wraps the SEO plugin's loosely-typed settings blob with typed
// accessors.
type SeoSettings struct {
	raw map[string]any
}

// ParseSeoSettings decodes the seo_titles option JSON. An empty blob yields
// empty settings, not an error.
func ParseSeoSettings(blob string) (*SeoSettings, error) {
	s := &SeoSettings{raw: map[string]any{}}
	if blob == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(blob), &s.raw); err != nil {
		return nil, fmt.Errorf("parse seo settings: %w", err)
	}
	return s, nil
}

// String returns the string value for key, or "" when unset.
func (s *SeoSettings) String(key string) string {
	v, ok := s.raw[key].(string)
	if !ok {
		return ""
	}
	return v
}

// Bool returns the boolean value for key, or false when unset.
func (s *SeoSettings) Bool(key string) bool {
	v, ok := s.raw[key].(bool)
	return ok && v
}

// ArchiveDisabled reports whether the given disable flag is set. An absent
// flag means the archive is enabled.
func (s *SeoSettings) ArchiveDisabled(disableKey string) bool {
	return s.Bool(disableKey)
}

// Noindexed reports whether the content type is excluded from search indexing.
func (s *SeoSettings) Noindexed(slug string) bool {
	return s.Bool(seoNoindexKeyPrefix + slug)
}
