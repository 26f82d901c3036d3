// Package secrets encrypts provider API keys before they are written to the
// settings store, using fernet symmetric tokens.
package secrets

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Codec encrypts and decrypts short secrets with a fernet key. A nil Codec
// is valid and passes values through unchanged, for deployments that choose
// not to configure a key.
type Codec struct {
	keys []*fernet.Key
}

// NewCodec builds a Codec from a base64-encoded fernet key. An empty key
// returns a nil Codec (plaintext passthrough).
func NewCodec(encodedKey string) (*Codec, error) {
	if encodedKey == "" {
		return nil, nil
	}
	keys, err := fernet.DecodeKeys(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid fernet key: %w", err)
	}
	return &Codec{keys: keys}, nil
}

// Encrypt returns a fernet token for plaintext, or plaintext unchanged on a
// nil Codec. Empty strings are never encrypted.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if c == nil || plaintext == "" {
		return plaintext, nil
	}
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Decrypt reverses Encrypt. Tokens never expire (TTL 0): the stored API key
// remains valid until the user replaces it. A value that does not verify as
// a fernet token is returned as-is, which keeps plaintext values written
// before a key was configured readable.
func (c *Codec) Decrypt(stored string) string {
	if c == nil || stored == "" {
		return stored
	}
	plaintext := fernet.VerifyAndDecrypt([]byte(stored), 0, c.keys)
	if plaintext == nil {
		return stored
	}
	return string(plaintext)
}
