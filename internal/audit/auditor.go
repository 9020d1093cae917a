package audit

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/siteops/siteaudit/internal/media"
	"github.com/siteops/siteaudit/internal/models"
	"github.com/siteops/siteaudit/internal/store"
)

// Auditor runs the full rule set against the site state. It holds no
// per-run state; every RunAll builds a fresh report.
type Auditor struct {
	store      store.Store
	probe      *media.Probe
	categories []models.Category
	adminURL   string
	seoActive  bool
}

// Config wires an Auditor's collaborators. SeoActive is resolved once at
// startup (see SeoActive), not re-probed per check.
type Config struct {
	Store      store.Store
	Probe      *media.Probe // defaults to a probe over Store
	Categories []models.Category
	AdminURL   string
	SeoActive  bool
}

// New creates an Auditor from the given configuration.
func New(cfg Config) *Auditor {
	probe := cfg.Probe
	if probe == nil {
		probe = media.NewProbe(cfg.Store)
	}
	cats := cfg.Categories
	if cats == nil {
		cats = DefaultCategories()
	}
	return &Auditor{
		store:      cfg.Store,
		probe:      probe,
		categories: cats,
		adminURL:   strings.TrimRight(cfg.AdminURL, "/"),
		seoActive:  cfg.SeoActive,
	}
}

// SeoActive reads the SEO plugin capability flag from the option store.
// Callers resolve this once at startup and pass it into Config.
func SeoActive(ctx context.Context, s store.Store) bool {
	v, err := s.GetOption(ctx, OptSeoPluginActive)
	return err == nil && truthy(v)
}

// Categories returns the category list in display order.
func (a *Auditor) Categories() []models.Category {
	out := make([]models.Category, len(a.categories))
	copy(out, a.categories)
	return out
}

// RunAll evaluates every category and returns the assembled report. The
// categories are independent and evaluated concurrently; within each
// category results are sorted failures-first and remediation actions are
// attached to non-passing results.
func (a *Auditor) RunAll(ctx context.Context) (*models.Report, error) {
	report := &models.Report{Results: make(map[string][]models.CheckResult)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, cat := range a.categories {
		g.Go(func() error {
			if cat.Key == CategoryImages {
				images := a.ImageChecks(ctx)
				SortImageResults(images)
				mu.Lock()
				report.Images = images
				mu.Unlock()
				return nil
			}

			results := a.categoryChecks(ctx, cat.Key)
			SortResults(results)
			a.attachActions(cat.Key, results)
			mu.Lock()
			report.Results[cat.Key] = results
			mu.Unlock()
			return nil
		})
	}

	// Individual checks degrade to failed results instead of erroring, so
	// the group only propagates context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// attachActions resolves and sets remediation actions on non-passing results.
func (a *Auditor) attachActions(category string, results []models.CheckResult) {
	for i := range results {
		results[i].Action = a.ResolveAction(category, results[i])
	}
}

// truthy interprets a stored option flag the way the host platform does:
// any of "1", "true", "yes", "on" (case-insensitive) is set.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
