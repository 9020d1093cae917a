package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/output"
)

var (
	auditCategory string
	auditFormat   string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the site audit and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return auditRun()
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditCategory, "category", "", "Only show one category (wordpress, seo, images)")
	auditCmd.Flags().StringVar(&auditFormat, "format", "text", "Output format: text, json")
	rootCmd.AddCommand(auditCmd)
}

func auditRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	auditor := getAuditor(ctx, s)
	report, err := auditor.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("run audit: %w", err)
	}

	if auditFormat == "json" {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, cat := range auditor.Categories() {
		if auditCategory != "" && cat.Key != auditCategory {
			continue
		}

		fmt.Fprintf(ui.Out, "\n%s\n\n", output.Cyan(cat.Label))
		if cat.Key == audit.CategoryImages {
			renderImageTable(report.Images)
		} else {
			renderCheckTable(report.Results[cat.Key])
		}
	}

	return nil
}

func renderCheckTable(results []models.CheckResult) {
	table := ui.Table([]string{"Check", "Status", "Details", "Action"})
	for _, r := range results {
		table.Append([]string{r.Label, output.StatusText(r.Status), r.Message, actionText(r.Action)})
	}
	table.Render()
}

func renderImageTable(images []models.ImageCheckResult) {
	if len(images) == 0 {
		ui.Success("All images have proper metadata")
		return
	}

	table := ui.Table([]string{"Image", "Status", "Details"})
	for _, img := range images {
		var details []string
		details = append(details, img.Details...)
		details = append(details, img.Issues...)
		details = append(details, img.Warnings...)
		table.Append([]string{img.Title, output.StatusText(img.Status), strings.Join(details, "; ")})
	}
	table.Render()
}

func actionText(a *models.RemediationAction) string {
	if a == nil {
		return ""
	}
	if a.Kind == models.ActionInlineEdit {
		return "edit setting: " + a.SettingKey
	}
	return fmt.Sprintf("%s (%s)", a.Label, a.URL)
}
