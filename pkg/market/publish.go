package market

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jinhae8971/stock-dashboard/pkg/log"
)

// Uploader stores a file in the remote repository. pkg/github's Contents API
// client satisfies this.
type Uploader interface {
	UploadFile(ctx context.Context, owner, repo, branch, path string, data []byte, message string) error
}

// Publish writes the snapshot to localPath and uploads it to the repository.
// The local write is the backup of record: an upload failure is logged, not
// fatal, and reported through the return value so the caller can set its exit
// message accordingly.
func Publish(ctx context.Context, snap *Snapshot, localPath string, uploader Uploader, owner, repo, branch, remotePath string) (uploaded bool, err error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	log.Info("snapshot written", "path", localPath, "bytes", len(data))

	if uploader == nil {
		log.Warn("no token configured, upload skipped")
		return false, nil
	}

	message := fmt.Sprintf("chore: update market data %s", snap.UpdatedAt)
	if err := uploader.UploadFile(ctx, owner, repo, branch, remotePath, data, message); err != nil {
		log.Errorf("upload failed, local file kept: %v", err)
		return false, nil
	}
	log.Info("snapshot uploaded", "repo", owner+"/"+repo, "path", remotePath)
	return true, nil
}
