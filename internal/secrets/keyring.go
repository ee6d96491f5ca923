package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the application's secrets in the OS keychain.
const KeyringService = "resume-screener"

// Get returns the trimmed keyring entry stored for account.
func Get(account string) (string, error) {
	pw, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pw), nil
}

// Set stores secret under account in the OS keyring.
func Set(account, secret string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, strings.TrimSpace(secret))
}

// Delete removes the keyring entry stored for account.
func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
