package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or environment.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over every other source.
	File string
	// KeyringAccount names an entry in the OS keyring under KeyringService.
	// It is consulted after File and before Value.
	KeyringAccount string
}

// Load returns the resolved secret value from the provided source. The lookup
// order is File, then the OS keyring, then Value. The returned secret is
// always trimmed. An error is returned when no source contains a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if account := strings.TrimSpace(src.KeyringAccount); account != "" {
		secret, err := Get(account)
		switch {
		case err == nil && secret != "":
			return secret, nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			return "", fmt.Errorf("reading %s from keyring: %w", name, err)
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
