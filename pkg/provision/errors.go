package provision

import "fmt"

// AuthError means the credential could not be resolved to an identity.
// Nothing has been mutated when this is returned.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RepoProvisionError means the repository could not be created for a reason
// other than already existing.
type RepoProvisionError struct {
	Err error
}

func (e *RepoProvisionError) Error() string {
	return fmt.Sprintf("repository provisioning failed: %v", e.Err)
}

func (e *RepoProvisionError) Unwrap() error { return e.Err }

// PushError means the content push failed. Output carries the raw transport
// error text; insufficient token scope is the common cause.
type PushError struct {
	Err error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push failed (check token scope): %v", e.Err)
}

func (e *PushError) Unwrap() error { return e.Err }
