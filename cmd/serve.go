package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteops/siteaudit/internal/api"
	"github.com/siteops/siteaudit/internal/notify"
	"github.com/siteops/siteaudit/internal/schedule"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the audit API server and the weekly audit scheduler",
	Long: `Start an HTTP server exposing the audit report and inline remediation
endpoints, and register the weekly audit email trigger.
By default it listens on port 8080. Use --port to change it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveRun()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

func serveRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	ctx := context.Background()
	log := slog.Default()

	auditor := getAuditor(ctx, s)
	probe := getProbe(s)
	captions := getCaptioner(ctx, s)
	mail := getMailer()

	// Weekly audit email. Start is idempotent, so re-running serve never
	// double-schedules.
	weekly := schedule.New(schedule.DefaultInterval, func(ctx context.Context) error {
		return notify.WeeklyAudit(ctx, s, auditor, mail, log)
	}, log)
	weekly.Start(ctx)

	server := api.NewServer(s, auditor, probe, captions, log)

	port := viper.GetInt("serve.port")
	addr := fmt.Sprintf(":%d", port)
	ui.Info("Serving audit API at http://localhost%s", addr)
	return http.ListenAndServe(addr, server.Router())
}
