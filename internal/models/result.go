package models

// Status is the tri-state outcome of a single check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusWarning Status = "warning"
	StatusFailed  Status = "failed"
)

// rank orders statuses for display: failures first.
func (s Status) rank() int {
	switch s {
	case StatusFailed:
		return 0
	case StatusWarning:
		return 1
	default:
		return 2
	}
}

// Before reports whether s sorts ahead of other in display order.
func (s Status) Before(other Status) bool {
	return s.rank() < other.rank()
}

// Combine merges two statuses by severity: failed > warning > passed.
// Once failed, a status never downgrades.
func (s Status) Combine(other Status) Status {
	if s == StatusFailed || other == StatusFailed {
		return StatusFailed
	}
	if s == StatusWarning || other == StatusWarning {
		return StatusWarning
	}
	return StatusPassed
}

// ActionKind discriminates remediation action variants.
type ActionKind string

const (
	ActionInlineEdit ActionKind = "inline_edit"
	ActionLink       ActionKind = "link"
)

// RemediationAction tells the presentation layer how a failing check can be
// fixed: either an inline edit of a single setting, or a link to another
// screen.
type RemediationAction struct {
	Kind       ActionKind `json:"kind"`
	SettingKey string     `json:"setting_key,omitempty"`
	URL        string     `json:"url,omitempty"`
	Label      string     `json:"label,omitempty"`
}

// InlineEdit builds an inline-edit action for a single scalar setting.
func InlineEdit(settingKey string) *RemediationAction {
	return &RemediationAction{Kind: ActionInlineEdit, SettingKey: settingKey}
}

// Link builds an external-link action.
func Link(url, label string) *RemediationAction {
	return &RemediationAction{Kind: ActionLink, URL: url, Label: label}
}

// CheckResult is the immutable outcome of one configuration check.
type CheckResult struct {
	Label   string             `json:"label"`
	Status  Status             `json:"status"`
	Message string             `json:"message"`
	Details []string           `json:"details,omitempty"`
	Action  *RemediationAction `json:"action,omitempty"`
	Slug    string             `json:"slug,omitempty"` // content-type key for dynamic checks
}

// ImageCheckResult is the per-image outcome of the media checks. An image is
// only surfaced when it has at least one issue or warning.
type ImageCheckResult struct {
	ImageID   string   `json:"image_id"`
	Title     string   `json:"title"`
	PublicURL string   `json:"public_url"`
	EditURL   string   `json:"edit_url"`
	Status    Status   `json:"status"`
	Issues    []string `json:"issues"`
	Warnings  []string `json:"warnings"`
	Details   []string `json:"details"`
}

// Category groups related checks under a stable key and a display label.
// The slice order of a category list is the display (tab) order.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Report holds one audit run, grouped by category key. It is built fresh per
// run and never persisted. The images category carries ImageCheckResults
// instead of generic results.
type Report struct {
	Results map[string][]CheckResult `json:"results"`
	Images  []ImageCheckResult       `json:"images"`
}
