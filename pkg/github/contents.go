package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// UploadFile creates or updates a file through the Contents API, avoiding a
// full clone/push cycle for single-file updates. Updating an existing file
// requires its current blob SHA, so the file is looked up first.
func (c *Client) UploadFile(ctx context.Context, owner, repo, branch, path string, data []byte, message string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: data,
		Branch:  github.String(branch),
	}

	existing, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: branch})
	switch {
	case err == nil && existing != nil:
		opts.SHA = github.String(existing.GetSHA())
	case err != nil && !IsNotFound(err):
		return fmt.Errorf("failed to look up %s: %w", path, err)
	}

	if opts.SHA != nil {
		if _, _, err := c.gh.Repositories.UpdateFile(ctx, owner, repo, path, opts); err != nil {
			return fmt.Errorf("failed to update %s: %w", path, err)
		}
		return nil
	}
	if _, _, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}
