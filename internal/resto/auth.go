package resto

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	authPath = "/api/v2/auth"

	// hashedPasswordMarker prefixes a password that is already a sha1 hex digest.
	hashedPasswordMarker = "sha1:"
)

// Authenticate exchanges login and password for a session key.
func (c *Client) Authenticate(ctx context.Context, server, login, password string) (Session, error) {
	baseURL := normalizeBaseURL(server)
	if baseURL == "" {
		return Session{}, &AuthError{Server: server, Err: ErrEmptyServer}
	}

	c.logger.Info("auth start", zap.String("server", baseURL), zap.String("login", login))

	resp, err := c.doGet(ctx, c.timeouts.Auth, baseURL+authPath, map[string]string{
		"login": login,
		"pass":  PasswordCredential(password),
	})
	if err != nil {
		c.logger.Warn("auth failed", zap.Error(err))
		return Session{}, &AuthError{Server: baseURL, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return Session{}, &AuthError{Server: baseURL, Err: fmt.Errorf("unexpected status %s", resp.Status())}
	}

	key := strings.TrimSpace(resp.String())
	if key == "" {
		return Session{}, &AuthError{Server: baseURL, Err: ErrEmptySessionKey}
	}

	c.logger.Info("auth ok", zap.String("key_prefix", keyPrefix(key)))
	return Session{BaseURL: baseURL, Key: key}, nil
}

// PasswordCredential returns the value sent as the pass parameter.
// Surrounding whitespace is not part of the password.
func PasswordCredential(password string) string {
	password = strings.TrimSpace(password)
	if idx := strings.Index(password, hashedPasswordMarker); idx >= 0 {
		return strings.TrimSpace(password[:idx] + password[idx+len(hashedPasswordMarker):])
	}
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

func keyPrefix(key string) string {
	const visible = 6
	if len(key) <= visible {
		return key
	}
	return key[:visible] + "..."
}
