// Package media reads image metadata and evaluates it against the site's
// size and dimension policy.
package media

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

const (
	// Dimension thresholds in pixels, applied to width and height alike.
	maxDimensionPx         = 2000
	recommendedDimensionPx = 1500

	// File size thresholds in bytes.
	maxSizeBytes         = 1536 * 1024 // 1.5 MB
	recommendedSizeBytes = 512 * 1024  // 500 KB
	dimensionFailBytes   = 1024 * 1024 // 1 MB

	// Dimension checks only apply to files at or above this size. Small
	// files with nominally large dimensions (vector sources and the like)
	// are not penalized.
	dimensionGateBytes = recommendedSizeBytes
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Metadata holds what is known about an image file. Zero values mean the
// corresponding fact is unavailable.
type Metadata struct {
	Width     int
	Height    int
	SizeBytes int64
}

// Evaluation is the outcome of checking one image against the policy.
type Evaluation struct {
	Status   models.Status
	Issues   []string
	Warnings []string
	Details  []string
}

// Probe reads image metadata from the store and the filesystem and manages
// the descriptive alt-text field.
type Probe struct {
	store store.Store
}

// NewProbe returns a Probe backed by the given store.
func NewProbe(s store.Store) *Probe {
	return &Probe{store: s}
}

// Metadata returns the known dimensions and byte size for an attachment.
// The byte size falls back to a file stat when the record does not carry it.
func (p *Probe) Metadata(a *models.Attachment) Metadata {
	m := Metadata{
		Width:     a.Width,
		Height:    a.Height,
		SizeBytes: a.SizeBytes,
	}
	if m.SizeBytes == 0 && a.FilePath != "" {
		if info, err := os.Stat(a.FilePath); err == nil {
			m.SizeBytes = info.Size()
		}
	}
	return m
}

// AltText returns the attachment's alt text, or "" when unset.
func (p *Probe) AltText(ctx context.Context, id string) (string, error) {
	a, err := p.store.GetAttachment(ctx, id)
	if err != nil {
		return "", err
	}
	return a.AltText, nil
}

// SetAltText persists a trimmed, tag-stripped alt text for the attachment.
// Returns store.ErrNotFound when the attachment does not exist.
func (p *Probe) SetAltText(ctx context.Context, id, alt string) error {
	return p.store.SetAltText(ctx, id, SanitizeAltText(alt))
}

// SanitizeAltText trims whitespace and strips markup tags.
func SanitizeAltText(alt string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(alt, ""))
}

// Evaluate checks one attachment against the size and dimension policy.
// Statuses combine by severity: once failed, nothing downgrades the result.
func (p *Probe) Evaluate(a *models.Attachment) Evaluation {
	m := p.Metadata(a)
	ev := Evaluation{Status: models.StatusPassed}

	sizeMB := float64(m.SizeBytes) / 1024 / 1024

	if m.Width > 0 && m.Height > 0 {
		ev.Details = append(ev.Details, fmt.Sprintf("Dimensions: %dpx × %dpx", m.Width, m.Height))
	}
	if m.SizeBytes > 0 {
		ev.Details = append(ev.Details, fmt.Sprintf("File size: %.2f MB", sizeMB))
	}

	// Dimension checks are gated on file size: small files pass regardless
	// of their nominal dimensions.
	if m.SizeBytes >= dimensionGateBytes {
		ev.checkDimension("width", m.Width, m.SizeBytes)
		ev.checkDimension("height", m.Height, m.SizeBytes)
	}

	if m.SizeBytes >= maxSizeBytes {
		ev.fail(fmt.Sprintf("File size (%.2f MB) exceeds maximum allowed (1.5 MB)", sizeMB))
	} else if m.SizeBytes >= recommendedSizeBytes {
		ev.warn(fmt.Sprintf("File size (%.2f MB) exceeds recommended size (500 KB)", sizeMB))
	}

	if a.AltText == "" {
		ev.fail("Missing alt text")
	}

	return ev
}

func (ev *Evaluation) checkDimension(name string, px int, sizeBytes int64) {
	switch {
	case px > maxDimensionPx:
		msg := fmt.Sprintf("Image %s (%dpx) exceeds maximum allowed (%dpx)", name, px, maxDimensionPx)
		if sizeBytes < dimensionFailBytes {
			ev.warn(msg)
		} else {
			ev.fail(msg)
		}
	case px >= recommendedDimensionPx:
		ev.warn(fmt.Sprintf("Image %s (%dpx) exceeds recommended size (%dpx)", name, px, recommendedDimensionPx))
	}
}

func (ev *Evaluation) fail(msg string) {
	ev.Issues = append(ev.Issues, msg)
	ev.Status = ev.Status.Combine(models.StatusFailed)
}

func (ev *Evaluation) warn(msg string) {
	ev.Warnings = append(ev.Warnings, msg)
	ev.Status = ev.Status.Combine(models.StatusWarning)
}
