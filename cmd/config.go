package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siteops/siteaudit/internal/secrets"
	"github.com/siteops/siteaudit/internal/store"
)

// Option keys for the encrypted credential storage.
const (
	optEncryptionKey   = "audit_encryption_key"
	optEncryptedAPIKey = "anthropic_api_key_encrypted"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key <key>",
	Short: "Store the Anthropic API key, encrypted at rest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetAPIKeyRun(args[0])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetAPIKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func configShowRun() error {
	fmt.Fprintf(ui.Out, "db_path:          %s\n", viper.GetString("db_path"))
	fmt.Fprintf(ui.Out, "site.admin_url:   %s\n", viper.GetString("site.admin_url"))
	fmt.Fprintf(ui.Out, "anthropic.model:  %s\n", viper.GetString("anthropic.model"))
	fmt.Fprintf(ui.Out, "mail.host:        %s\n", viper.GetString("mail.host"))
	fmt.Fprintf(ui.Out, "mail.port:        %d\n", viper.GetInt("mail.port"))
	fmt.Fprintf(ui.Out, "mail.from:        %s\n", viper.GetString("mail.from"))
	fmt.Fprintf(ui.Out, "serve.port:       %d\n", viper.GetInt("serve.port"))

	s, err := getStore()
	if err != nil {
		return err
	}
	stored, err := s.GetOption(rootCmd.Context(), optEncryptedAPIKey)
	if err != nil {
		return err
	}
	if stored != "" {
		fmt.Fprintf(ui.Out, "anthropic.api_key: ******** (stored encrypted)\n")
	} else if viper.GetString("anthropic.api_key") != "" {
		fmt.Fprintf(ui.Out, "anthropic.api_key: ******** (from config)\n")
	} else {
		fmt.Fprintf(ui.Out, "anthropic.api_key: (not set)\n")
	}
	return nil
}

func configSetAPIKeyRun(apiKey string) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	key, err := encryptionKey(ctx, s)
	if err != nil {
		return err
	}

	encrypted, err := secrets.Encrypt(apiKey, key)
	if err != nil {
		// Never fall back to plaintext; the write is blocked instead.
		return fmt.Errorf("encrypt API key: %w", err)
	}

	if err := s.SetOption(ctx, optEncryptedAPIKey, encrypted); err != nil {
		return err
	}

	ui.Success("API key stored (encrypted)")
	return nil
}

// encryptionKey returns the per-install encryption key, generating and
// storing one on first use.
func encryptionKey(ctx context.Context, s store.Store) ([]byte, error) {
	encoded, err := s.GetOption(ctx, optEncryptionKey)
	if err != nil {
		return nil, err
	}
	if encoded != "" {
		return secrets.DecodeKey(encoded)
	}

	key, err := secrets.NewKey()
	if err != nil {
		return nil, err
	}
	if err := s.SetOption(ctx, optEncryptionKey, secrets.EncodeKey(key)); err != nil {
		return nil, err
	}
	return key, nil
}

// storedAPIKey decrypts the stored API key, or returns "" when none is set.
func storedAPIKey(ctx context.Context, s store.Store) (string, error) {
	encrypted, err := s.GetOption(ctx, optEncryptedAPIKey)
	if err != nil || encrypted == "" {
		return "", err
	}

	encoded, err := s.GetOption(ctx, optEncryptionKey)
	if err != nil {
		return "", err
	}
	if encoded == "" {
		return "", fmt.Errorf("encrypted API key present but encryption key missing")
	}

	key, err := secrets.DecodeKey(encoded)
	if err != nil {
		return "", err
	}
	return secrets.Decrypt(encrypted, key)
}
