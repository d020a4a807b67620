// Package provision runs the idempotent sequence that turns a local content
// directory into a published GitHub Pages dashboard: verify the credential,
// ensure the repository, push content, enable Pages, store the secret, and
// dispatch the update workflow.
package provision

import (
	"context"

	"github.com/jinhae8971/stock-dashboard/pkg/git"
	"github.com/jinhae8971/stock-dashboard/pkg/github"
)

// HostAPI is the subset of the GitHub client the provisioner needs. It is an
// interface so the pipeline can run against a fake in tests.
type HostAPI interface {
	CurrentUser(ctx context.Context) (string, error)
	EnsureRepo(ctx context.Context, spec github.RepoSpec) (github.EnsureOutcome, error)
	EnablePages(ctx context.Context, owner, repo string, spec github.PagesSpec) error
	PutSecret(ctx context.Context, owner, repo, name, value string) error
	DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string) error
}

// Syncer pushes local content to the remote branch.
type Syncer interface {
	Sync(ctx context.Context, opts git.SyncOptions) (string, error)
}

// SecretEntry names a secret and its plaintext value. The value is only ever
// logged in redacted form.
type SecretEntry struct {
	Name  string
	Value string
}

// DispatchRequest identifies the workflow to trigger and the ref to run it on.
type DispatchRequest struct {
	Workflow string
	Ref      string
}

// Request describes one provisioning run.
type Request struct {
	Token string

	Repo  github.RepoSpec
	Pages github.PagesSpec

	// ContentDir is the local directory holding the site.
	ContentDir string

	// CleanSlate discards local history before pushing.
	CleanSlate bool

	AuthorName  string
	AuthorEmail string

	// Secret is stored when non-nil and its value is non-empty.
	Secret *SecretEntry

	// Dispatch triggers the update workflow when non-nil.
	Dispatch *DispatchRequest
}

// Step identifies one stage of the pipeline.
type Step string

const (
	StepAuth     Step = "auth"
	StepRepo     Step = "repo"
	StepPush     Step = "push"
	StepPages    Step = "pages"
	StepSecret   Step = "secret"
	StepDispatch Step = "dispatch"
)

// Status is the outcome of a single step.
type Status int

const (
	// StatusOK means the step succeeded (including idempotent no-ops).
	StatusOK Status = iota
	// StatusSkipped means the step had nothing to do.
	StatusSkipped
	// StatusWarned means the step failed but the failure is advisory; the
	// hint tells the operator how to finish it by hand.
	StatusWarned
	// StatusFailed means the step failed fatally and stopped the pipeline.
	StatusFailed
)

// String returns the printable form of a status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusWarned:
		return "warned"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult records how one step went.
type StepResult struct {
	Step   Step
	Status Status

	// Note carries extra detail ("existed", commit hash, error text).
	Note string

	// Hint is a manual-remediation pointer for warned steps.
	Hint string
}

// Result enumerates the outcome of every attempted step.
type Result struct {
	Steps []StepResult

	// Login is the authenticated user resolved in step one.
	Login string

	// RepoOutcome reports whether the repository existed or was created.
	RepoOutcome github.EnsureOutcome

	// CommitHash is the pushed commit.
	CommitHash string

	// SiteURL is the public dashboard address.
	SiteURL string

	// ActionsURL points at the repository's workflow runs.
	ActionsURL string
}

// StepStatus returns the recorded status for a step, or StatusSkipped if the
// pipeline never reached it.
func (r *Result) StepStatus(step Step) Status {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Status
		}
	}
	return StatusSkipped
}

func (r *Result) record(step Step, status Status, note, hint string) {
	r.Steps = append(r.Steps, StepResult{Step: step, Status: status, Note: note, Hint: hint})
}
