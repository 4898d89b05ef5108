package auth

import (
	"errors"
	"sync"
)

// mockStore is an in-memory KeyStore
type mockStore struct {
	name     string
	mu       sync.Mutex
	creds    map[string]Credential
	storeErr error
}

func newMockStore(name string) *mockStore {
	return &mockStore{name: name, creds: make(map[string]Credential)}
}

func (m *mockStore) Name() string { return m.name }

func (m *mockStore) Store(cred *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.creds[cred.Profile] = *cred
	return nil
}

func (m *mockStore) Retrieve(profile string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.creds[profile]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return &cred, nil
}

func (m *mockStore) Delete(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.creds[profile]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.creds, profile)
	return nil
}

func (m *mockStore) Exists(profile string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.creds[profile]
	return ok
}

func (m *mockStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creds)
}

var errBroken = errors.New("broken backend")
