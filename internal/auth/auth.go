// Package auth resolves the ImageRouter API key. Lookup order: explicit
// config value, OS keyring, environment. The keyring is the only place
// the CLI ever writes a key.
package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

const (
	serviceName = "imagerouter"
	accountName = "api-key"

	// EnvAPIKey is the environment fallback consulted when the keyring
	// holds no key.
	EnvAPIKey = "IMAGEROUTER_API_KEY"
)

// Source names where a key was found, for status output.
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "environment"
	SourceNone    Source = ""
)

// Resolve returns the API key and where it came from. An empty key with
// SourceNone means no key is configured anywhere.
func Resolve() (string, Source) {
	if key, err := keyring.Get(serviceName, accountName); err == nil && key != "" {
		return strings.TrimSpace(key), SourceKeyring
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		return strings.TrimSpace(key), SourceEnv
	}
	return "", SourceNone
}

// Require resolves the key or fails with an auth error telling the user
// how to provide one.
func Require() (string, error) {
	key, src := Resolve()
	if src == SourceNone {
		return "", apperrors.New(apperrors.KindAuth,
			"no API key configured; run 'imagerouter auth login' or set %s", EnvAPIKey)
	}
	return key, nil
}

// Save stores the key in the OS keyring.
func Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperrors.New(apperrors.KindValidation, "API key cannot be empty")
	}
	if err := keyring.Set(serviceName, accountName, key); err != nil {
		return fmt.Errorf("storing key in keyring: %w", err)
	}
	return nil
}

// Delete removes the key from the OS keyring.
func Delete() error {
	if err := keyring.Delete(serviceName, accountName); err != nil {
		return fmt.Errorf("removing key from keyring: %w", err)
	}
	return nil
}

// Prompt reads a key from the terminal without echoing it.
func Prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
