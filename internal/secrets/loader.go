package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups talentscout secrets in the OS keychain.
const KeyringService = "talentscout"

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value.
	File string
	// KeyringAccount is the account name under KeyringService in the OS keychain.
	KeyringAccount string
}

// Load returns the resolved secret value from the provided source.
// Precedence is File, then KeyringAccount, then Value. The returned secret is
// always trimmed.
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

	account := strings.TrimSpace(src.KeyringAccount)
	if account != "" {
		secret, err := keyring.Get(KeyringService, account)
		switch {
		case err == nil && strings.TrimSpace(secret) != "":
			return strings.TrimSpace(secret), nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			return "", fmt.Errorf("reading %s from keyring account %q: %w", name, account, err)
		}
		// not found in the keychain, fall through to the inline value
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

// Store saves a secret in the OS keychain under the given account.
func Store(account, secret string) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return errors.New("keyring account name is empty")
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, secret)
}

// Delete removes the secret stored for the account.
func Delete(account string) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
