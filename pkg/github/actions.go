package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// DispatchWorkflow requests a workflow_dispatch run of the named workflow file
// against ref. The run itself is asynchronous; a successful dispatch only
// means GitHub accepted the event.
func (c *Client) DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string) error {
	event := github.CreateWorkflowDispatchEventRequest{Ref: ref}
	_, err := c.gh.Actions.CreateWorkflowDispatchEventByFileName(ctx, owner, repo, workflowFile, event)
	if err != nil {
		return fmt.Errorf("failed to dispatch workflow %s@%s: %w", workflowFile, ref, err)
	}
	return nil
}
