package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

func setSeoTitles(t *testing.T, s store.Store, settings map[string]any) {
	t.Helper()
	blob, err := json.Marshal(settings)
	require.NoError(t, err)
	require.NoError(t, s.SetOption(context.Background(), OptSeoTitles, string(blob)))
}

func findResult(t *testing.T, results []models.CheckResult, label string) models.CheckResult {
	t.Helper()
	for _, r := range results {
		if r.Label == label {
			return r
		}
	}
	t.Fatalf("no result with label %q", label)
	return models.CheckResult{}
}

func TestWordPressChecks_Visibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := New(Config{Store: s})

	t.Run("blocked by default", func(t *testing.T) {
		r := findResult(t, a.WordPressChecks(ctx), LabelVisibility)
		assert.Equal(t, models.StatusFailed, r.Status)
		assert.Equal(t, "Search engines are blocked.", r.Message)
	})

	t.Run("allowed when flag truthy", func(t *testing.T) {
		require.NoError(t, s.SetOption(ctx, OptBlogPublic, "1"))

		r := findResult(t, a.WordPressChecks(ctx), LabelVisibility)
		assert.Equal(t, models.StatusPassed, r.Status)
	})
}

func TestWordPressChecks_SiteTitle(t *testing.T) {
	ctx := context.Background()

	t.Run("missing title fails", func(t *testing.T) {
		s := newTestStore(t)
		a := New(Config{Store: s})

		r := findResult(t, a.WordPressChecks(ctx), LabelSiteTitle)
		assert.Equal(t, models.StatusFailed, r.Status)
	})

	t.Run("platform title passes", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.SetOption(ctx, OptBlogName, "My Site"))
		a := New(Config{Store: s})

		r := findResult(t, a.WordPressChecks(ctx), LabelSiteTitle)
		assert.Equal(t, models.StatusPassed, r.Status)
		assert.Contains(t, r.Message, "My Site")
	})

	t.Run("seo override alone passes", func(t *testing.T) {
		s := newTestStore(t)
		setSeoTitles(t, s, map[string]any{seoSiteNameKey: "Brand Name"})
		a := New(Config{Store: s, SeoActive: true})

		r := findResult(t, a.WordPressChecks(ctx), LabelSiteTitle)
		assert.Equal(t, models.StatusPassed, r.Status)
		assert.Contains(t, r.Message, "Brand Name")
	})

	t.Run("both values concatenated", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.SetOption(ctx, OptBlogName, "My Site"))
		setSeoTitles(t, s, map[string]any{seoSiteNameKey: "Brand Name"})
		a := New(Config{Store: s, SeoActive: true})

		r := findResult(t, a.WordPressChecks(ctx), LabelSiteTitle)
		assert.Equal(t, models.StatusPassed, r.Status)
		assert.Contains(t, r.Message, "My Site")
		assert.Contains(t, r.Message, "Brand Name")
	})
}

func TestSeoChecks_InactiveShortCircuits(t *testing.T) {
	s := newTestStore(t)
	a := New(Config{Store: s, SeoActive: false})

	results := a.SeoChecks(context.Background())
	require.Len(t, results, 1)
	assert.Equal(t, LabelSeoPlugin, results[0].Label)
	assert.Equal(t, models.StatusFailed, results[0].Status)
	assert.Equal(t, "SEO plugin not active.", results[0].Message)
}

func TestSeoChecks_MalformedSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetOption(ctx, OptSeoTitles, "{not json"))
	a := New(Config{Store: s, SeoActive: true})

	results := a.SeoChecks(ctx)
	require.Len(t, results, 1)
	assert.Equal(t, models.StatusFailed, results[0].Status)
}

func TestSeoChecks_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := New(Config{Store: s, SeoActive: true})

	// No settings stored: everything falls to its unset behavior.
	results := a.SeoChecks(ctx)

	r := findResult(t, results, LabelHomeTitle)
	assert.Equal(t, models.StatusFailed, r.Status)

	r = findResult(t, results, LabelSocialImage)
	assert.Equal(t, models.StatusFailed, r.Status)

	// Archives default to enabled, which is a warning.
	for _, label := range []string{LabelAuthorArchives, LabelDateArchives, LabelFormatArchives} {
		r = findResult(t, results, label)
		assert.Equal(t, models.StatusWarning, r.Status, label)
	}

	// Media pages default to enabled, which should always be disabled.
	r = findResult(t, results, LabelMediaPages)
	assert.Equal(t, models.StatusFailed, r.Status)
}

func TestSeoChecks_ConfiguredSettingsPass(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	setSeoTitles(t, s, map[string]any{
		seoHomeTitleKey:     "%%sitename%% - %%tagline%%",
		seoSocialImageKey:   "https://example.com/og.png",
		seoDisableAuthorKey: true,
		seoDisableDateKey:   true,
		seoDisableFormatKey: true,
		seoDisableMediaKey:  true,
	})
	a := New(Config{Store: s, SeoActive: true})

	for _, r := range a.SeoChecks(ctx) {
		assert.Equal(t, models.StatusPassed, r.Status, r.Label)
	}
}

func TestSeoChecks_ContentTypeFanout(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Builtins and excluded types get no search-appearance check.
	require.NoError(t, s.UpsertContentType(ctx, &models.ContentType{Slug: "post", Label: "Posts", Builtin: true}))
	require.NoError(t, s.UpsertContentType(ctx, &models.ContentType{Slug: "attachment", Label: "Media"}))
	require.NoError(t, s.UpsertContentType(ctx, &models.ContentType{Slug: "audit_log", Label: "Audit Log"}))
	require.NoError(t, s.UpsertContentType(ctx, &models.ContentType{
		Slug: "portfolio", Label: "Portfolio", Public: true, PubliclyQueryable: false,
	}))

	a := New(Config{Store: s, SeoActive: true})
	results := a.SeoChecks(ctx)

	var appearance []models.CheckResult
	for _, r := range results {
		if r.Slug != "" {
			appearance = append(appearance, r)
		}
	}
	require.Len(t, appearance, 1)
	assert.Equal(t, "Portfolio Search Appearance", appearance[0].Label)
	assert.Equal(t, "portfolio", appearance[0].Slug)
}

func TestSearchAppearanceCheck(t *testing.T) {
	empty, err := ParseSeoSettings("")
	require.NoError(t, err)

	t.Run("consistent flags always pass", func(t *testing.T) {
		for _, ct := range []*models.ContentType{
			{Slug: "a", Label: "A", Public: true, PubliclyQueryable: true},
			{Slug: "b", Label: "B", Public: false, PubliclyQueryable: false},
		} {
			r := searchAppearanceCheck(ct, empty)
			assert.Equal(t, models.StatusPassed, r.Status, ct.Slug)
		}
	})

	t.Run("effectively public and indexed passes", func(t *testing.T) {
		ct := &models.ContentType{Slug: "portfolio", Label: "Portfolio", Public: true, PubliclyQueryable: false}
		r := searchAppearanceCheck(ct, empty)
		assert.Equal(t, models.StatusPassed, r.Status)
		assert.Contains(t, r.Message, "properly configured")
	})

	t.Run("effectively public but noindexed fails", func(t *testing.T) {
		seo, err := ParseSeoSettings(`{"noindex-portfolio": true}`)
		require.NoError(t, err)

		ct := &models.ContentType{Slug: "portfolio", Label: "Portfolio", Public: false, PubliclyQueryable: true}
		r := searchAppearanceCheck(ct, seo)
		assert.Equal(t, models.StatusFailed, r.Status)
		assert.Contains(t, r.Message, "excluded from search")
	})

	t.Run("noindex on a consistent type is ignored", func(t *testing.T) {
		seo, err := ParseSeoSettings(`{"noindex-internal": true}`)
		require.NoError(t, err)

		ct := &models.ContentType{Slug: "internal", Label: "Internal"}
		r := searchAppearanceCheck(ct, seo)
		assert.Equal(t, models.StatusPassed, r.Status)
	})
}
