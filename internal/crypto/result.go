// Package crypto holds the discovery result cipher and record key wrapping
package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"

	"github.com/celestiaorg/pamdiscover/internal/types"
)

// ErrAuthFailure is returned when a discovery result cannot be authenticated and decrypted
var ErrAuthFailure = errors.New("discovery result authentication failed")

// noTTL disables the token age check. Results can be fetched long after the job completed.
const noTTL = -1

// GenerateToken returns a new job token: a Fernet key, url-safe base64 encoded
func GenerateToken() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate job token: %w", err)
	}
	return key.Encode(), nil
}

// Encrypt seals a result tree with the job token, the way the gateway does
func Encrypt(result *types.DiscoveredObject, token string) (string, error) {
	key, err := fernet.DecodeKey(token)
	if err != nil {
		return "", fmt.Errorf("invalid job token: %w", err)
	}
	plaintext, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode discovery result: %w", err)
	}
	sealed, err := fernet.EncryptAndSign(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt discovery result: %w", err)
	}
	return string(sealed), nil
}

// Decrypt opens a result produced by the gateway with the job token.
// Any failure yields ErrAuthFailure and no tree, partial or otherwise.
func Decrypt(payload, token string) (*types.DiscoveredObject, error) {
	key, err := fernet.DecodeKey(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid job token", ErrAuthFailure)
	}

	plaintext := fernet.VerifyAndDecrypt([]byte(strings.TrimSpace(payload)), noTTL, []*fernet.Key{key})
	if plaintext == nil {
		return nil, fmt.Errorf("%w: token does not match or payload was modified", ErrAuthFailure)
	}

	var result types.DiscoveredObject
	if err := json.Unmarshal(plaintext, &result); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload is not a discovery result", ErrAuthFailure)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailure, err)
	}
	return &result, nil
}
