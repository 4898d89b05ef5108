package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultProfile is the profile name used when none is given
const DefaultProfile = "default"

// Credential is a stored NASA API key
type Credential struct {
	Profile      string    `json:"profile"`
	APIKey       string    `json:"api_key"`
	LastModified time.Time `json:"last_modified"`
}

// KeyStore is a backend able to hold API keys by profile
type KeyStore interface {
	// Name identifies the backend in status output
	Name() string

	// Store saves the credential for its profile
	Store(cred *Credential) error

	// Retrieve gets the credential for a profile
	Retrieve(profile string) (*Credential, error)

	// Delete removes the credential for a profile
	Delete(profile string) error

	// Exists checks if a credential exists for a profile
	Exists(profile string) bool
}

// Manager handles key storage with fallback mechanisms
type Manager struct {
	stores []KeyStore
}

// NewManager chains the system keychain (when available), an encrypted file
// under the config directory and read-only environment lookup.
func NewManager() (*Manager, error) {
	var stores []KeyStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return NewManagerWithStores(stores...), nil
}

// NewManagerWithStores builds a Manager over explicit backends, tried in order
func NewManagerWithStores(stores ...KeyStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the key using the first store that accepts it and returns that
// store's name.
func (m *Manager) Store(cred *Credential) (string, error) {
	if cred == nil || strings.TrimSpace(cred.APIKey) == "" {
		return "", ErrInvalidCredentials
	}
	if cred.Profile == "" {
		cred.Profile = DefaultProfile
	}
	cred.APIKey = strings.TrimSpace(cred.APIKey)
	cred.LastModified = time.Now()

	var errs []error
	for _, store := range m.stores {
		err := store.Store(cred)
		if err == nil {
			return store.Name(), nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
	}

	if len(errs) > 0 {
		return "", fmt.Errorf("failed to store API key: %w", errors.Join(errs...))
	}
	return "", ErrStoreUnavailable
}

// Retrieve gets the key from the first store that has it and names that store
func (m *Manager) Retrieve(profile string) (*Credential, string, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	for _, store := range m.stores {
		if cred, err := store.Retrieve(profile); err == nil && cred != nil {
			return cred, store.Name(), nil
		}
	}
	return nil, "", ErrCredentialsNotFound
}

// APIKey returns only the key of the default profile
func (m *Manager) APIKey() (string, error) {
	cred, _, err := m.Retrieve(DefaultProfile)
	if err != nil {
		return "", err
	}
	return cred.APIKey, nil
}

// Delete removes the key from every store that has it
func (m *Manager) Delete(profile string) error {
	if profile == "" {
		profile = DefaultProfile
	}

	var deleted bool
	var lastErr error
	for _, store := range m.stores {
		if !store.Exists(profile) {
			continue
		}
		if err := store.Delete(profile); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete API key: %w", lastErr)
	}
	if !deleted {
		return ErrCredentialsNotFound
	}
	return nil
}

// StoreNames lists the backends in lookup order
func (m *Manager) StoreNames() []string {
	names := make([]string, 0, len(m.stores))
	for _, store := range m.stores {
		names = append(names, store.Name())
	}
	return names
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "marsphotos")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "marsphotos")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "marsphotos")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "marsphotos")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// MaskKey masks all but the first 4 and last 4 characters of a key
func MaskKey(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("API key not found")
	ErrInvalidCredentials  = errors.New("invalid API key")
	ErrStoreUnavailable    = errors.New("key store unavailable")
)
