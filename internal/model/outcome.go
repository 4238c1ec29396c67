package model

type Step string

const (
	StepReleaseCheck Step = "release_check"
	StepBlocklist    Step = "blocklist"
	StepDelete       Step = "delete"
	StepSearch       Step = "search"
	StepComment      Step = "comment"
	StepClose        Step = "close"
	StepNotify       Step = "notify"
)

// StepResult records one downstream sub-step. Skipped steps carry the reason
// instead of an error; a failed step never aborts the steps after it.
type StepResult struct {
	Step    Step   `json:"step"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ActionOutcome is the executor's roll-up for one plan.
type ActionOutcome struct {
	Plan  ActionPlan   `json:"plan"`
	Steps []StepResult `json:"steps"`

	// DeletedFiles counts files removed by the delete step, surfaced in
	// comment templates.
	DeletedFiles int `json:"deleted_files"`

	// Remediated reports whether the primary remediation steps (blocklist,
	// delete, search) all succeeded or were legitimately skipped. Comment,
	// close and notify failures do not flip it.
	Remediated bool `json:"remediated"`

	// Searched reports whether a search was actually issued; false for
	// wrong-movie plans gated off by the release-date check.
	Searched bool `json:"searched"`

	Closed bool `json:"closed"`
}

func (o *ActionOutcome) Record(r StepResult) {
	o.Steps = append(o.Steps, r)
}

// StepFor returns the recorded result for a step, if any.
func (o *ActionOutcome) StepFor(s Step) (StepResult, bool) {
	for _, r := range o.Steps {
		if r.Step == s {
			return r, true
		}
	}
	return StepResult{}, false
}
