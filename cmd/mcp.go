package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/siteops/siteaudit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long:  "Expose the auditor as MCP tools (audit_run, audit_categories, audit_save_alt_text) over stdio.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpRun()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	auditor := getAuditor(ctx, s)
	server := mcp.NewServer(s, auditor, getProbe(s))
	return server.ServeStdio(ctx)
}
