package audit

import (
	"sort"

	"github.com/siteops/siteaudit/internal/models"
)

// SortResults orders results for display: failed first, then warnings, then
// passed. The sort is stable so equal-severity results keep their original
// evaluation order across renders.
func SortResults(results []models.CheckResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Status.Before(results[j].Status)
	})
}

// SortImageResults orders image results failed-first. Unlike the generic
// sorter this is a binary partition: warnings and passes keep their relative
// order behind the failures, matching the media report's rendering.
func SortImageResults(results []models.ImageCheckResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Status == models.StatusFailed && results[j].Status != models.StatusFailed
	})
}
