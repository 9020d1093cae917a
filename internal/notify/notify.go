// Package notify runs the scheduled audit and mails the rendered report to
// the responsible users.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/mailer"
	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

// WeeklyAudit runs a full audit and emails the report to the users listed in
// the responsible-users option. An empty recipient list is a no-op, not an
// error.
func WeeklyAudit(ctx context.Context, s store.Store, a *audit.Auditor, m mailer.Sender, log *slog.Logger) error {
	recipients, err := Recipients(ctx, s)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		log.Info("weekly audit skipped: no responsible users configured")
		return nil
	}

	report, err := a.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("run audit: %w", err)
	}

	body := RenderText(a.Categories(), report)
	if err := m.Send(ctx, recipients, "Weekly Audit Results", body); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	log.Info("weekly audit report sent", "recipients", len(recipients))
	return nil
}

// Recipients resolves the responsible-users option (comma-separated user
// IDs) to email addresses. Unknown users are skipped.
func Recipients(ctx context.Context, s store.Store) ([]string, error) {
	raw, err := s.GetOption(ctx, audit.OptResponsibleUsers)
	if err != nil {
		return nil, err
	}

	var emails []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		u, err := s.GetUser(ctx, id)
		if err != nil {
			continue
		}
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

// RenderText renders a report as plain text for email delivery.
func RenderText(categories []models.Category, report *models.Report) string {
	var sb strings.Builder

	for _, cat := range categories {
		sb.WriteString(cat.Label)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", len(cat.Label)))
		sb.WriteString("\n")

		if cat.Key == audit.CategoryImages {
			renderImages(&sb, report.Images)
		} else {
			renderChecks(&sb, report.Results[cat.Key])
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderChecks(sb *strings.Builder, results []models.CheckResult) {
	for _, r := range results {
		fmt.Fprintf(sb, "[%s] %s: %s\n", strings.ToUpper(string(r.Status)), r.Label, r.Message)
	}
}

func renderImages(sb *strings.Builder, images []models.ImageCheckResult) {
	if len(images) == 0 {
		sb.WriteString("All images have proper metadata.\n")
		return
	}
	for _, img := range images {
		fmt.Fprintf(sb, "[%s] %s\n", strings.ToUpper(string(img.Status)), img.Title)
		for _, d := range img.Details {
			fmt.Fprintf(sb, "  - %s\n", d)
		}
		for _, issue := range img.Issues {
			fmt.Fprintf(sb, "  - %s\n", issue)
		}
		for _, w := range img.Warnings {
			fmt.Fprintf(sb, "  - %s\n", w)
		}
	}
}
