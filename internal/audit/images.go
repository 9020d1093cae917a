package audit

import (
	"context"

	"github.com/siteops/siteaudit/internal/models"
)

// ImageChecks evaluates every image in the media library against the size,
// dimension, and alt-text policy. Only images with at least one issue or
// warning are surfaced; clean images are omitted, not listed as passed.
func (a *Auditor) ImageChecks(ctx context.Context) []models.ImageCheckResult {
	images, err := a.store.ListImages(ctx)
	if err != nil {
		// An unreadable media library must not look like a clean one.
		return []models.ImageCheckResult{{
			Title:  "Media Library",
			Status: models.StatusFailed,
			Issues: []string{"Could not read media library: " + err.Error()},
		}}
	}

	var results []models.ImageCheckResult
	for _, img := range images {
		ev := a.probe.Evaluate(img)
		if len(ev.Issues) == 0 && len(ev.Warnings) == 0 {
			continue
		}
		results = append(results, models.ImageCheckResult{
			ImageID:   img.ID,
			Title:     img.Title,
			PublicURL: img.PublicURL,
			EditURL:   img.EditURL,
			Status:    ev.Status,
			Issues:    ev.Issues,
			Warnings:  ev.Warnings,
			Details:   ev.Details,
		})
	}
	return results
}

// EvaluateImage re-checks a single image, returning its result even when it
// passes. Used by the single-image status endpoint after an inline edit.
func (a *Auditor) EvaluateImage(ctx context.Context, id string) (*models.ImageCheckResult, error) {
	img, err := a.store.GetAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	ev := a.probe.Evaluate(img)
	return &models.ImageCheckResult{
		ImageID:   img.ID,
		Title:     img.Title,
		PublicURL: img.PublicURL,
		EditURL:   img.EditURL,
		Status:    ev.Status,
		Issues:    ev.Issues,
		Warnings:  ev.Warnings,
		Details:   ev.Details,
	}, nil
}
