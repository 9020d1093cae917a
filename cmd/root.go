package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/captioner"
	"github.com/siteops/siteaudit/internal/mailer"
	"github.com/siteops/siteaudit/internal/media"
	"github.com/siteops/siteaudit/internal/output"
	"github.com/siteops/siteaudit/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "siteaudit",
	Short: "Audit a site's visibility, SEO, and image metadata",
	Long: `siteaudit checks a site's configuration against a fixed rule set:
search engine visibility, SEO plugin settings, and image metadata.
Results are grouped into categories with inline remediation actions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/siteaudit/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "siteaudit")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SITEAUDIT")
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "siteaudit")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "siteaudit.db"))
	viper.SetDefault("site.admin_url", "http://localhost/wp-admin")
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("mail.host", "")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.from", "")
	viper.SetDefault("serve.port", 8080)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// The store is initialized lazily so config/version commands can run
	// without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}

// getAuditor builds an Auditor over the shared store, resolving the SEO
// capability flag once.
func getAuditor(ctx context.Context, s store.Store) *audit.Auditor {
	return audit.New(audit.Config{
		Store:     s,
		AdminURL:  viper.GetString("site.admin_url"),
		SeoActive: audit.SeoActive(ctx, s),
	})
}

// getCaptioner builds the captioning client from the stored encrypted API
// key, falling back to the configured key. Returns nil when no key is
// available.
func getCaptioner(ctx context.Context, s store.Store) *captioner.Client {
	apiKey, err := storedAPIKey(ctx, s)
	if err != nil {
		ui.Warning("stored API key unreadable: %v", err)
	}
	if apiKey == "" {
		apiKey = viper.GetString("anthropic.api_key")
	}
	if apiKey == "" {
		return nil
	}
	return captioner.NewClient(apiKey, viper.GetString("anthropic.model"))
}

func getMailer() *mailer.Mailer {
	return mailer.New(mailer.Config{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Username: viper.GetString("mail.username"),
		Password: viper.GetString("mail.password"),
		From:     viper.GetString("mail.from"),
	})
}

func getProbe(s store.Store) *media.Probe {
	return media.NewProbe(s)
}
