// Package auth stores and checks the administrator password that guards
// write access to the web API.
package auth

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName      = "paperslight"
	adminHashAccount = "admin-password-hash"
	adminHashEnvVar  = "PAPERSLIGHT_ADMIN_HASH"
	adminUserEnvVar  = "PAPERSLIGHT_ADMIN_USER"

	// DefaultAdminUser is the login name when PAPERSLIGHT_ADMIN_USER is unset.
	DefaultAdminUser = "admin"
)

// AdminUser returns the configured administrator login name.
func AdminUser() string {
	if u := strings.TrimSpace(os.Getenv(adminUserEnvVar)); u != "" {
		return u
	}
	return DefaultAdminUser
}

// AdminHash returns the stored argon2id hash and where it came from
// ("Keychain" or "Environment Variable"). Both are empty when unset.
func AdminHash(allowEnv bool) (string, string) {
	hash, err := keyring.Get(serviceName, adminHashAccount)
	if err == nil && strings.TrimSpace(hash) != "" {
		return strings.TrimSpace(hash), "Keychain"
	}
	if allowEnv {
		if hash = strings.TrimSpace(os.Getenv(adminHashEnvVar)); hash != "" {
			return hash, "Environment Variable"
		}
	}
	return "", ""
}

// SetAdminPassword hashes password and saves it to the OS keychain.
func SetAdminPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, adminHashAccount, hash)
}

// DeleteAdminPassword removes the stored hash from the OS keychain.
func DeleteAdminPassword() error {
	return keyring.Delete(serviceName, adminHashAccount)
}

// Verifier checks administrator credentials.
type Verifier struct {
	User string
	hash *Argon2idHash
}

// NewVerifier parses phc. An empty phc yields a verifier that rejects every
// login.
func NewVerifier(user, phc string) (*Verifier, error) {
	v := &Verifier{User: user}
	if strings.TrimSpace(phc) == "" {
		return v, nil
	}
	h, err := ParseArgon2idHash(phc)
	if err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	v.hash = h
	return v, nil
}

// Enabled reports whether a password is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && v.hash != nil
}

func (v *Verifier) Check(user, password string) bool {
	if !v.Enabled() || user != v.User {
		return false
	}
	return v.hash.Verify(password)
}

// PromptForPassword reads a password from the terminal without echo.
func PromptForPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
