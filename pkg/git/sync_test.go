package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// newBareRemote creates an empty bare repository to push into.
func newBareRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, true); err != nil {
		t.Fatalf("PlainInit(bare) error = %v", err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
}

func remoteBranchHash(t *testing.T, remoteDir, branch string) plumbing.Hash {
	t.Helper()
	repo, err := gogit.PlainOpen(remoteDir)
	if err != nil {
		t.Fatalf("PlainOpen(remote) error = %v", err)
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("Reference(%s) error = %v", branch, err)
	}
	return ref.Hash()
}

func TestSync_InitialPush(t *testing.T) {
	remote := newBareRemote(t)
	work := t.TempDir()
	writeFile(t, work, "index.html", "<html></html>")

	syncer := NewSyncer()
	hash, err := syncer.Sync(context.Background(), SyncOptions{
		Dir:         work,
		RemoteURL:   remote,
		Branch:      "main",
		AuthorName:  "Dashboard Bot",
		AuthorEmail: "bot@example.com",
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if got := remoteBranchHash(t, remote, "main").String(); got != hash {
		t.Errorf("remote main = %s, want pushed commit %s", got, hash)
	}
}

func TestSync_EmptyCommitOnUnchangedContent(t *testing.T) {
	remote := newBareRemote(t)
	work := t.TempDir()
	writeFile(t, work, "index.html", "<html></html>")

	syncer := NewSyncer()
	opts := SyncOptions{
		Dir:         work,
		RemoteURL:   remote,
		Branch:      "main",
		AuthorName:  "Dashboard Bot",
		AuthorEmail: "bot@example.com",
	}

	first, err := syncer.Sync(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}

	// Second run with identical content must still succeed.
	second, err := syncer.Sync(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if first == second {
		t.Error("second Sync() reused the first commit, expected a fresh empty commit")
	}
}

func TestSync_CleanSlateDiscardsHistory(t *testing.T) {
	remote := newBareRemote(t)
	work := t.TempDir()
	writeFile(t, work, "index.html", "v1")

	syncer := NewSyncer()
	opts := SyncOptions{
		Dir:         work,
		RemoteURL:   remote,
		Branch:      "main",
		AuthorName:  "Dashboard Bot",
		AuthorEmail: "bot@example.com",
	}
	if _, err := syncer.Sync(context.Background(), opts); err != nil {
		t.Fatalf("first Sync() error = %v", err)
	}

	writeFile(t, work, "index.html", "v2")
	opts.CleanSlate = true
	hash, err := syncer.Sync(context.Background(), opts)
	if err != nil {
		t.Fatalf("clean-slate Sync() error = %v", err)
	}

	repo, err := gogit.PlainOpen(work)
	if err != nil {
		t.Fatalf("PlainOpen(work) error = %v", err)
	}
	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}
	if commit.NumParents() != 0 {
		t.Errorf("clean-slate commit has %d parents, want 0", commit.NumParents())
	}
	if got := remoteBranchHash(t, remote, "main").String(); got != hash {
		t.Errorf("remote main = %s, want rewritten commit %s", got, hash)
	}
}

func TestSync_ReplacesStaleRemote(t *testing.T) {
	remote := newBareRemote(t)
	work := t.TempDir()
	writeFile(t, work, "index.html", "<html></html>")

	// Seed the workspace with a repository pointing at a dead remote.
	repo, err := gogit.PlainInit(work, false)
	if err != nil {
		t.Fatalf("PlainInit(work) error = %v", err)
	}

	syncer := NewSyncer()
	if err := syncer.setRemote(repo, "/nonexistent/old-remote"); err != nil {
		t.Fatalf("seed setRemote() error = %v", err)
	}

	if _, err := syncer.Sync(context.Background(), SyncOptions{
		Dir:         work,
		RemoteURL:   remote,
		Branch:      "master",
		AuthorName:  "Dashboard Bot",
		AuthorEmail: "bot@example.com",
	}); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	rem, err := repo.Remote(DefaultRemote)
	if err != nil {
		t.Fatalf("Remote() error = %v", err)
	}
	if got := rem.Config().URLs[0]; got != remote {
		t.Errorf("remote URL = %s, want %s", got, remote)
	}
}

func TestSync_PushFailureSurfacesTransportError(t *testing.T) {
	work := t.TempDir()
	writeFile(t, work, "index.html", "<html></html>")

	syncer := NewSyncer()
	_, err := syncer.Sync(context.Background(), SyncOptions{
		Dir:         work,
		RemoteURL:   filepath.Join(t.TempDir(), "missing"),
		Branch:      "main",
		AuthorName:  "Dashboard Bot",
		AuthorEmail: "bot@example.com",
	})
	if err == nil {
		t.Fatal("Sync() expected error for unreachable remote")
	}
}
