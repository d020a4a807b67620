package github

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/go-github/v68/github"
	"golang.org/x/crypto/nacl/box"
)

// PutSecret stores a named Actions secret on the repository. The plaintext is
// sealed against the repository public key before it leaves the process; it is
// never logged.
func (c *Client) PutSecret(ctx context.Context, owner, repo, name, value string) error {
	key, _, err := c.gh.Actions.GetRepoPublicKey(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("failed to fetch repository public key: %w", err)
	}

	sealed, err := sealSecret(key.GetKey(), value)
	if err != nil {
		return err
	}

	secret := &github.EncryptedSecret{
		Name:           name,
		KeyID:          key.GetKeyID(),
		EncryptedValue: sealed,
	}
	if _, err := c.gh.Actions.CreateOrUpdateRepoSecret(ctx, owner, repo, secret); err != nil {
		return fmt.Errorf("failed to store secret %s: %w", name, err)
	}
	return nil
}

// sealSecret encrypts value with an anonymous NaCl box against the
// base64-encoded repository public key and returns the base64 ciphertext,
// the envelope the Actions secrets API requires.
func sealSecret(publicKeyB64, value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode repository public key: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("repository public key has unexpected length %d", len(raw))
	}

	var pub [32]byte
	copy(pub[:], raw)

	sealed, err := box.SealAnonymous(nil, []byte(value), &pub, crand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to seal secret value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Redact returns a partially masked form of a secret suitable for logs,
// keeping only the first four characters.
func Redact(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
