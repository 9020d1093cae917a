package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/media"
	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	auditor := audit.New(audit.Config{Store: s, AdminURL: "http://example.com/wp-admin"})
	return NewServer(s, auditor, media.NewProbe(s)), s
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NotNil(t, srv)
	assert.NotNil(t, srv.MCPServer())
}

func TestHandleRunAudit(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.SetOption(ctx, audit.OptBlogPublic, "1"))

	result, err := srv.handleRunAudit(ctx, callToolReq("audit_run", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	assert.Contains(t, report.Results, audit.CategoryWordPress)
	assert.Contains(t, report.Results, audit.CategorySEO)
}

func TestHandleCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	result, err := srv.handleCategories(context.Background(), callToolReq("audit_categories", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var categories []models.Category
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &categories))
	require.Len(t, categories, 3)
	assert.Equal(t, audit.CategoryWordPress, categories[0].Key)
}

func TestHandleSaveAltText(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	img := &models.Attachment{Title: "hero", MimeType: "image/jpeg"}
	require.NoError(t, s.CreateAttachment(ctx, img))

	t.Run("updates alt text", func(t *testing.T) {
		result, err := srv.handleSaveAltText(ctx, callToolReq("audit_save_alt_text", map[string]any{
			"image_id": img.ID,
			"alt_text": " <b>a</b> banner ",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		got, err := s.GetAttachment(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, "a banner", got.AltText)
	})

	t.Run("missing image_id", func(t *testing.T) {
		result, err := srv.handleSaveAltText(ctx, callToolReq("audit_save_alt_text", map[string]any{
			"alt_text": "text",
		}))
		require.NoError(t, err, "handler should not return Go error; should wrap in result")
		assert.True(t, result.IsError)
	})

	t.Run("empty after sanitize", func(t *testing.T) {
		result, err := srv.handleSaveAltText(ctx, callToolReq("audit_save_alt_text", map[string]any{
			"image_id": img.ID,
			"alt_text": " <img src=x> ",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("unknown image", func(t *testing.T) {
		result, err := srv.handleSaveAltText(ctx, callToolReq("audit_save_alt_text", map[string]any{
			"image_id": "missing",
			"alt_text": "text",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
