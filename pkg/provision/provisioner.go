package provision

import (
	"context"
	"fmt"

	"github.com/jinhae8971/stock-dashboard/pkg/git"
	"github.com/jinhae8971/stock-dashboard/pkg/github"
	"github.com/jinhae8971/stock-dashboard/pkg/log"
)

// Provisioner runs the provisioning pipeline against an injected host API and
// syncer.
type Provisioner struct {
	host HostAPI
	sync Syncer

	// remoteURL overrides the computed push URL (used by tests).
	remoteURL string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithRemoteURL overrides the push URL derived from the repository spec.
func WithRemoteURL(url string) Option {
	return func(p *Provisioner) {
		p.remoteURL = url
	}
}

// New creates a Provisioner.
func New(host HostAPI, sync Syncer, opts ...Option) *Provisioner {
	p := &Provisioner{host: host, sync: sync}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision runs the sequence in strict order, short-circuiting on the first
// fatal failure. The returned Result always lists every step attempted; a
// non-nil error is one of AuthError, RepoProvisionError, or PushError.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		SiteURL:    fmt.Sprintf("https://%s.github.io/%s/", req.Repo.Owner, req.Repo.Name),
		ActionsURL: fmt.Sprintf("https://github.com/%s/actions", req.Repo.FullName()),
	}

	// 1. Authenticate. The only precondition check before any mutation.
	login, err := p.host.CurrentUser(ctx)
	if err != nil {
		result.record(StepAuth, StatusFailed, err.Error(), "")
		return result, &AuthError{Err: err}
	}
	result.Login = login
	result.record(StepAuth, StatusOK, login, "")
	log.Info("authenticated", "login", login)

	// 2. Ensure the repository exists.
	outcome, err := p.host.EnsureRepo(ctx, req.Repo)
	if err != nil {
		result.record(StepRepo, StatusFailed, err.Error(), "")
		return result, &RepoProvisionError{Err: err}
	}
	result.RepoOutcome = outcome
	note := "created"
	if outcome == github.RepoExisted {
		note = "existed"
	}
	result.record(StepRepo, StatusOK, note, "")
	log.Info("repository ready", "repo", req.Repo.FullName(), "outcome", note)

	// 3. Synchronize content to the default branch.
	hash, err := p.sync.Sync(ctx, git.SyncOptions{
		Dir:         req.ContentDir,
		RemoteURL:   p.pushURL(req),
		Branch:      req.Pages.Branch,
		CleanSlate:  req.CleanSlate,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Token:       req.Token,
	})
	if err != nil {
		result.record(StepPush, StatusFailed, err.Error(), "")
		return result, &PushError{Err: err}
	}
	result.CommitHash = hash
	result.record(StepPush, StatusOK, hash, "")
	log.Info("content pushed", "branch", req.Pages.Branch, "commit", hash)

	// 4. Enable Pages. Advisory from here on: a failure is a warning with a
	// manual-action hint, not a reason to stop.
	if err := p.host.EnablePages(ctx, req.Repo.Owner, req.Repo.Name, req.Pages); err != nil {
		hint := fmt.Sprintf("enable Pages manually at https://github.com/%s/settings/pages", req.Repo.FullName())
		result.record(StepPages, StatusWarned, err.Error(), hint)
		log.Warn("pages configuration failed", "error", err, "hint", hint)
	} else {
		result.record(StepPages, StatusOK, "", "")
		log.Info("pages configured", "site", result.SiteURL)
	}

	// 5. Store the secret, when one was supplied.
	if req.Secret == nil || req.Secret.Value == "" {
		result.record(StepSecret, StatusSkipped, "no value supplied", "")
	} else if err := p.host.PutSecret(ctx, req.Repo.Owner, req.Repo.Name, req.Secret.Name, req.Secret.Value); err != nil {
		hint := fmt.Sprintf("add the secret manually at https://github.com/%s/settings/secrets/actions", req.Repo.FullName())
		result.record(StepSecret, StatusWarned, err.Error(), hint)
		log.Warn("secret write failed", "name", req.Secret.Name, "value", github.Redact(req.Secret.Value), "hint", hint)
	} else {
		result.record(StepSecret, StatusOK, req.Secret.Name, "")
		log.Info("secret stored", "name", req.Secret.Name, "value", github.Redact(req.Secret.Value))
	}

	// 6. Dispatch the update workflow, when requested.
	if req.Dispatch == nil {
		result.record(StepDispatch, StatusSkipped, "not requested", "")
	} else if err := p.host.DispatchWorkflow(ctx, req.Repo.Owner, req.Repo.Name, req.Dispatch.Workflow, req.Dispatch.Ref); err != nil {
		hint := fmt.Sprintf("run the workflow manually at %s", result.ActionsURL)
		result.record(StepDispatch, StatusWarned, err.Error(), hint)
		log.Warn("workflow dispatch failed", "workflow", req.Dispatch.Workflow, "hint", hint)
	} else {
		result.record(StepDispatch, StatusOK, req.Dispatch.Workflow, "")
		log.Info("workflow dispatched", "workflow", req.Dispatch.Workflow, "ref", req.Dispatch.Ref)
	}

	return result, nil
}

func (p *Provisioner) pushURL(req Request) string {
	if p.remoteURL != "" {
		return p.remoteURL
	}
	return fmt.Sprintf("https://github.com/%s.git", req.Repo.FullName())
}
