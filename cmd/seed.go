package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/siteops/siteaudit/internal/audit"
	"github.com/siteops/siteaudit/internal/models"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a site snapshot from a YAML fixture into the store",
	Long: `Load options, content types, attachments, and users from a YAML
fixture so the auditor can run against a reproducible site snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedRun()
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture file (required)")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

// seedFixture mirrors the YAML fixture layout.
type seedFixture struct {
	Options map[string]string `yaml:"options"`
	Seo     struct {
		Active bool           `yaml:"active"`
		Titles map[string]any `yaml:"titles"`
	} `yaml:"seo"`
	ContentTypes []struct {
		Slug              string `yaml:"slug"`
		Label             string `yaml:"label"`
		Public            bool   `yaml:"public"`
		PubliclyQueryable bool   `yaml:"publicly_queryable"`
		Builtin           bool   `yaml:"builtin"`
	} `yaml:"content_types"`
	Attachments []struct {
		ID        string `yaml:"id"`
		Title     string `yaml:"title"`
		MimeType  string `yaml:"mime_type"`
		FilePath  string `yaml:"file_path"`
		Width     int    `yaml:"width"`
		Height    int    `yaml:"height"`
		SizeBytes int64  `yaml:"size_bytes"`
		AltText   string `yaml:"alt_text"`
		PublicURL string `yaml:"public_url"`
		EditURL   string `yaml:"edit_url"`
	} `yaml:"attachments"`
	Users []struct {
		ID          string `yaml:"id"`
		DisplayName string `yaml:"display_name"`
		Email       string `yaml:"email"`
		Role        string `yaml:"role"`
	} `yaml:"users"`
	ResponsibleUsers []string `yaml:"responsible_users"`
}

func seedRun() error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}

	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := context.Background()

	for key, value := range fixture.Options {
		if err := s.SetOption(ctx, key, value); err != nil {
			return err
		}
	}

	if fixture.Seo.Active {
		if err := s.SetOption(ctx, audit.OptSeoPluginActive, "1"); err != nil {
			return err
		}
	}
	if len(fixture.Seo.Titles) > 0 {
		blob, err := json.Marshal(fixture.Seo.Titles)
		if err != nil {
			return fmt.Errorf("encode seo settings: %w", err)
		}
		if err := s.SetOption(ctx, audit.OptSeoTitles, string(blob)); err != nil {
			return err
		}
	}

	for _, ct := range fixture.ContentTypes {
		err := s.UpsertContentType(ctx, &models.ContentType{
			Slug:              ct.Slug,
			Label:             ct.Label,
			Public:            ct.Public,
			PubliclyQueryable: ct.PubliclyQueryable,
			Builtin:           ct.Builtin,
		})
		if err != nil {
			return err
		}
	}

	for _, a := range fixture.Attachments {
		err := s.CreateAttachment(ctx, &models.Attachment{
			ID:        a.ID,
			Title:     a.Title,
			MimeType:  a.MimeType,
			FilePath:  a.FilePath,
			Width:     a.Width,
			Height:    a.Height,
			SizeBytes: a.SizeBytes,
			AltText:   a.AltText,
			PublicURL: a.PublicURL,
			EditURL:   a.EditURL,
		})
		if err != nil {
			return err
		}
	}

	for _, u := range fixture.Users {
		err := s.CreateUser(ctx, &models.User{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			Email:       u.Email,
			Role:        models.UserRole(u.Role),
		})
		if err != nil {
			return err
		}
	}

	if len(fixture.ResponsibleUsers) > 0 {
		err := s.SetOption(ctx, audit.OptResponsibleUsers, strings.Join(fixture.ResponsibleUsers, ","))
		if err != nil {
			return err
		}
	}

	ui.Success("Fixture loaded: %d options, %d content types, %d attachments, %d users",
		len(fixture.Options), len(fixture.ContentTypes), len(fixture.Attachments), len(fixture.Users))
	return nil
}
