package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// RepoSpec identifies the repository to ensure.
type RepoSpec struct {
	Owner       string
	Name        string
	Private     bool
	Description string
}

// FullName returns "owner/name".
func (s RepoSpec) FullName() string {
	return fmt.Sprintf("%s/%s", s.Owner, s.Name)
}

// PagesSpec identifies the branch and path GitHub Pages should serve.
type PagesSpec struct {
	Branch string
	Path   string
}

// EnsureOutcome describes how EnsureRepo satisfied the request.
type EnsureOutcome int

const (
	// RepoExisted means the repository was already present.
	RepoExisted EnsureOutcome = iota
	// RepoCreated means the repository was created by this call.
	RepoCreated
)

// CurrentUser resolves the login of the authenticated user. This is the
// identity check that gates every mutating call.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// EnsureRepo makes sure the repository exists, creating it when absent.
// A repository that already exists is success, not an error.
func (c *Client) EnsureRepo(ctx context.Context, spec RepoSpec) (EnsureOutcome, error) {
	_, _, err := c.gh.Repositories.Get(ctx, spec.Owner, spec.Name)
	if err == nil {
		return RepoExisted, nil
	}
	if !IsNotFound(err) {
		return 0, fmt.Errorf("failed to look up repository %s: %w", spec.FullName(), err)
	}

	repo := &github.Repository{
		Name:        github.String(spec.Name),
		Private:     github.Bool(spec.Private),
		Description: github.String(spec.Description),
	}
	// Empty org creates under the authenticated user.
	_, _, err = c.gh.Repositories.Create(ctx, "", repo)
	if err != nil {
		if IsAlreadyExists(err) {
			return RepoExisted, nil
		}
		return 0, fmt.Errorf("failed to create repository %s: %w", spec.FullName(), err)
	}
	return RepoCreated, nil
}

// EnablePages configures GitHub Pages to serve the given branch and path.
// An already-configured site is success; the caller decides how to treat
// other failures.
func (c *Client) EnablePages(ctx context.Context, owner, repo string, spec PagesSpec) error {
	pages := &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(spec.Branch),
			Path:   github.String(spec.Path),
		},
	}
	_, _, err := c.gh.Repositories.EnablePages(ctx, owner, repo, pages)
	if err == nil {
		return nil
	}
	// 409 means the site already exists; update the source instead so a
	// changed branch/path still takes effect.
	if IsConflict(err) {
		update := &github.PagesUpdate{
			Source: &github.PagesSource{
				Branch: github.String(spec.Branch),
				Path:   github.String(spec.Path),
			},
		}
		if _, uerr := c.gh.Repositories.UpdatePages(ctx, owner, repo, update); uerr != nil {
			return fmt.Errorf("failed to update Pages source: %w", uerr)
		}
		return nil
	}
	return fmt.Errorf("failed to enable Pages: %w", err)
}
