package auth

import (
	"os"
	"time"
)

// EnvironmentVariable is read by EnvironmentStore
const EnvironmentVariable = "NASA_API_KEY"

// EnvironmentStore exposes NASA_API_KEY as a read-only KeyStore
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based key store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Name() string {
	return "environment"
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve returns NASA_API_KEY for any profile
func (e *EnvironmentStore) Retrieve(profile string) (*Credential, error) {
	key := os.Getenv(EnvironmentVariable)
	if key == "" {
		return nil, ErrCredentialsNotFound
	}
	if profile == "" {
		profile = DefaultProfile
	}
	return &Credential{
		Profile:      profile,
		APIKey:       key,
		LastModified: time.Now(),
	}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(profile string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(profile string) bool {
	return os.Getenv(EnvironmentVariable) != ""
}
