package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/siteops/siteaudit/internal/notify"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run the audit now and email the report to responsible users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return notifyRun()
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func notifyRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	auditor := getAuditor(ctx, s)
	return notify.WeeklyAudit(ctx, s, auditor, getMailer(), slog.Default())
}
