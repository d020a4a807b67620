// Package git synchronizes a local working directory to a remote repository
// branch. It is the only component that mutates the local version-control
// state, and it owns that state exclusively for the duration of a run.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// DefaultRemote is the remote name the syncer manages.
const DefaultRemote = "origin"

// SyncOptions describe a single synchronization run.
type SyncOptions struct {
	// Dir is the local working directory holding the site content.
	Dir string

	// RemoteURL is the URL of the repository to push to.
	RemoteURL string

	// Branch is the branch to push (e.g. "main").
	Branch string

	// CleanSlate discards any existing local history and starts from a
	// fresh single-commit history.
	CleanSlate bool

	// AuthorName and AuthorEmail set the committer identity.
	AuthorName  string
	AuthorEmail string

	// Message is the commit message. Empty uses a default.
	Message string

	// Token authenticates the push. Empty pushes unauthenticated, which
	// only works for local or public remotes.
	Token string
}

// Syncer pushes local content to the remote default branch.
type Syncer struct{}

// NewSyncer creates a Syncer.
func NewSyncer() *Syncer {
	return &Syncer{}
}

// Sync stages all content in opts.Dir, commits it (an empty commit when
// nothing changed), and force-pushes to opts.Branch on the remote. It returns
// the pushed commit hash. Push failures carry the transport error verbatim so
// the operator can diagnose scope problems.
func (s *Syncer) Sync(ctx context.Context, opts SyncOptions) (string, error) {
	repo, err := s.openOrInit(opts)
	if err != nil {
		return "", err
	}

	if err := s.setRemote(repo, opts.RemoteURL); err != nil {
		return "", err
	}

	hash, err := s.commitAll(repo, opts)
	if err != nil {
		return "", err
	}

	if err := s.forcePush(ctx, repo, opts); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *Syncer) openOrInit(opts SyncOptions) (*gogit.Repository, error) {
	if opts.CleanSlate {
		if err := os.RemoveAll(filepath.Join(opts.Dir, ".git")); err != nil {
			return nil, fmt.Errorf("failed to discard existing history: %w", err)
		}
	}

	repo, err := gogit.PlainOpen(opts.Dir)
	if err == nil {
		return repo, nil
	}
	if err != gogit.ErrRepositoryNotExists {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	repo, err = gogit.PlainInitWithOptions(opts.Dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(opts.Branch),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}
	return repo, nil
}

// setRemote replaces the managed remote so a stale URL from an earlier run
// never wins.
func (s *Syncer) setRemote(repo *gogit.Repository, url string) error {
	if err := repo.DeleteRemote(DefaultRemote); err != nil && err != gogit.ErrRemoteNotFound {
		return fmt.Errorf("failed to remove existing remote: %w", err)
	}
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemote,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("failed to configure remote: %w", err)
	}
	return nil
}

func (s *Syncer) commitAll(repo *gogit.Repository, opts SyncOptions) (string, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("failed to stage content: %w", err)
	}

	message := opts.Message
	if message == "" {
		message = "chore: sync dashboard content"
	}

	// AllowEmptyCommits keeps a rerun with unchanged content from failing;
	// "nothing to commit" must never abort provisioning.
	commit, err := worktree.Commit(message, &gogit.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  opts.AuthorName,
			Email: opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return commit.String(), nil
}

func (s *Syncer) forcePush(ctx context.Context, repo *gogit.Repository, opts SyncOptions) error {
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	pushOpts := &gogit.PushOptions{
		RemoteName: DefaultRemote,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+%s:refs/heads/%s", head.Name(), opts.Branch)),
		},
		Force: true,
	}
	if opts.Token != "" {
		pushOpts.Auth = &http.BasicAuth{
			Username: "x-access-token", // any non-empty user works for token auth
			Password: opts.Token,
		}
	}

	if err := repo.PushContext(ctx, pushOpts); err != nil && err != gogit.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push %s: %w", opts.Branch, err)
	}
	return nil
}
