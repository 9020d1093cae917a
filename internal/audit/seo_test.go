package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeoSettings(t *testing.T) {
	t.Run("empty blob yields empty settings", func(t *testing.T) {
		seo, err := ParseSeoSettings("")
		require.NoError(t, err)
		assert.Equal(t, "", seo.String(seoHomeTitleKey))
		assert.False(t, seo.Bool(seoDisableAuthorKey))
	})

	t.Run("malformed blob errors", func(t *testing.T) {
		_, err := ParseSeoSettings("{broken")
		assert.Error(t, err)
	})

	t.Run("typed accessors", func(t *testing.T) {
		seo, err := ParseSeoSettings(`{
			"title-home-wpseo": "%%sitename%%",
			"disable-author": true,
			"noindex-portfolio": true,
			"og_default_image": 42
		}`)
		require.NoError(t, err)

		assert.Equal(t, "%%sitename%%", seo.String(seoHomeTitleKey))
		assert.True(t, seo.ArchiveDisabled(seoDisableAuthorKey))
		assert.False(t, seo.ArchiveDisabled(seoDisableDateKey))
		assert.True(t, seo.Noindexed("portfolio"))
		assert.False(t, seo.Noindexed("post"))

		// Wrong-typed values read as unset, not as errors.
		assert.Equal(t, "", seo.String(seoSocialImageKey))
	})
}
