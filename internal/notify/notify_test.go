package notify

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

type fakeSender struct {
	sent    int
	to      []string
	subject string
	body    string
	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, to []string, subject, body string) error {
	f.sent++
	f.to = to
	f.subject = subject
	f.body = body
	return f.sendErr
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWeeklyAudit_NoRecipientsIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := audit.New(audit.Config{Store: s})
	sender := &fakeSender{}

	err := WeeklyAudit(ctx, s, a, sender, slog.Default())
	require.NoError(t, err)
	assert.Zero(t, sender.sent)
}

func TestWeeklyAudit_SendsReport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{DisplayName: "Admin", Email: "admin@example.com", Role: models.RoleAdministrator}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.SetOption(ctx, audit.OptResponsibleUsers, u.ID))

	a := audit.New(audit.Config{Store: s})
	sender := &fakeSender{}

	err := WeeklyAudit(ctx, s, a, sender, slog.Default())
	require.NoError(t, err)

	assert.Equal(t, 1, sender.sent)
	assert.Equal(t, []string{"admin@example.com"}, sender.to)
	assert.Equal(t, "Weekly Audit Results", sender.subject)
	assert.Contains(t, sender.body, "WordPress")
	assert.Contains(t, sender.body, "SEO")
	assert.Contains(t, sender.body, "Images")
}

func TestRecipients(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := &models.User{DisplayName: "Admin", Email: "admin@example.com", Role: models.RoleAdministrator}
	u2 := &models.User{DisplayName: "Editor", Email: "editor@example.com", Role: models.RoleEditor}
	require.NoError(t, s.CreateUser(ctx, u1))
	require.NoError(t, s.CreateUser(ctx, u2))

	t.Run("resolves ids to emails", func(t *testing.T) {
		require.NoError(t, s.SetOption(ctx, audit.OptResponsibleUsers, u1.ID+","+u2.ID))

		emails, err := Recipients(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin@example.com", "editor@example.com"}, emails)
	})

	t.Run("skips unknown users", func(t *testing.T) {
		require.NoError(t, s.SetOption(ctx, audit.OptResponsibleUsers, "missing, "+u1.ID))

		emails, err := Recipients(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin@example.com"}, emails)
	})

	t.Run("unset option is empty", func(t *testing.T) {
		require.NoError(t, s.DeleteOption(ctx, audit.OptResponsibleUsers))

		emails, err := Recipients(ctx, s)
		require.NoError(t, err)
		assert.Empty(t, emails)
	})
}

func TestRenderText(t *testing.T) {
	categories := []models.Category{
		{Key: audit.CategoryWordPress, Label: "WordPress"},
		{Key: audit.CategoryImages, Label: "Images"},
	}

	t.Run("checks and clean images", func(t *testing.T) {
		report := &models.Report{
			Results: map[string][]models.CheckResult{
				audit.CategoryWordPress: {
					{Label: "Site Title", Status: models.StatusFailed, Message: "No site title configured."},
					{Label: "Search Engine Visibility", Status: models.StatusPassed, Message: "Search engines allowed."},
				},
			},
		}

		text := RenderText(categories, report)
		assert.Contains(t, text, "WordPress\n=========")
		assert.Contains(t, text, "[FAILED] Site Title: No site title configured.")
		assert.Contains(t, text, "[PASSED] Search Engine Visibility: Search engines allowed.")
		assert.Contains(t, text, "All images have proper metadata.")
	})

	t.Run("flagged images", func(t *testing.T) {
		report := &models.Report{
			Results: map[string][]models.CheckResult{},
			Images: []models.ImageCheckResult{
				{
					Title:   "hero.jpg",
					Status:  models.StatusFailed,
					Issues:  []string{"Missing alt text"},
					Details: []string{"File size: 0.10 MB"},
				},
			},
		}

		text := RenderText(categories, report)
		assert.Contains(t, text, "[FAILED] hero.jpg")
		assert.Contains(t, text, "  - File size: 0.10 MB")
		assert.Contains(t, text, "  - Missing alt text")
	})
}
