package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	store := newMockStore("mock")
	manager := NewManagerWithStores(store)

	name, err := manager.Store(&Credential{APIKey: "  abcdef1234567890  "})
	require.NoError(t, err)
	assert.Equal(t, "mock", name)

	cred, source, err := manager.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "mock", source)
	assert.Equal(t, DefaultProfile, cred.Profile)
	assert.Equal(t, "abcdef1234567890", cred.APIKey)
	assert.False(t, cred.LastModified.IsZero())

	key, err := manager.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "abcdef1234567890", key)
}

func TestManagerRejectsEmptyKey(t *testing.T) {
	manager := NewManagerWithStores(newMockStore("mock"))

	_, err := manager.Store(&Credential{APIKey: "   "})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = manager.Store(nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := newMockStore("broken")
	broken.storeErr = errBroken
	working := newMockStore("working")
	manager := NewManagerWithStores(broken, working)

	name, err := manager.Store(&Credential{APIKey: "key-one"})
	require.NoError(t, err)
	assert.Equal(t, "working", name)
	assert.Equal(t, 0, broken.count())
	assert.Equal(t, 1, working.count())
}

func TestManagerAllStoresFail(t *testing.T) {
	broken := newMockStore("broken")
	broken.storeErr = errBroken
	manager := NewManagerWithStores(broken, NewEnvironmentStore())

	_, err := manager.Store(&Credential{APIKey: "key-one"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "broken")
}

func TestManagerNoStores(t *testing.T) {
	manager := NewManagerWithStores()

	_, err := manager.Store(&Credential{APIKey: "key"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = manager.APIKey()
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
}

func TestManagerDelete(t *testing.T) {
	first := newMockStore("first")
	second := newMockStore("second")
	manager := NewManagerWithStores(first, second)

	require.NoError(t, first.Store(&Credential{Profile: DefaultProfile, APIKey: "a"}))
	require.NoError(t, second.Store(&Credential{Profile: DefaultProfile, APIKey: "b"}))

	require.NoError(t, manager.Delete(""))
	assert.Equal(t, 0, first.count())
	assert.Equal(t, 0, second.count())

	assert.ErrorIs(t, manager.Delete(""), ErrCredentialsNotFound)
}

func TestManagerDeleteSkipsReadOnlyStore(t *testing.T) {
	t.Setenv(EnvironmentVariable, "from-env")
	manager := NewManagerWithStores(NewEnvironmentStore())

	assert.ErrorIs(t, manager.Delete(""), ErrCredentialsNotFound)
}

func TestManagerStoreNames(t *testing.T) {
	manager := NewManagerWithStores(newMockStore("a"), NewEnvironmentStore())
	assert.Equal(t, []string{"a", "environment"}, manager.StoreNames())
}

func TestEnvironmentStore(t *testing.T) {
	store := NewEnvironmentStore()

	t.Setenv(EnvironmentVariable, "")
	_, err := store.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(DefaultProfile))

	t.Setenv(EnvironmentVariable, "env-key")
	cred, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cred.APIKey)
	assert.Equal(t, DefaultProfile, cred.Profile)
	assert.True(t, store.Exists(DefaultProfile))

	assert.ErrorIs(t, store.Store(cred), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete(DefaultProfile), ErrStoreUnavailable)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	require.NoError(t, err)
	assert.Equal(t, "keyring", store.Name())

	assert.False(t, store.Exists(DefaultProfile))
	_, err = store.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Store(&Credential{Profile: DefaultProfile, APIKey: "ring-key"}))
	assert.True(t, store.Exists(DefaultProfile))

	cred, err := store.Retrieve(DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "ring-key", cred.APIKey)

	require.NoError(t, store.Delete(DefaultProfile))
	assert.ErrorIs(t, store.Delete(DefaultProfile), ErrCredentialsNotFound)
	assert.ErrorIs(t, store.Store(&Credential{}), ErrInvalidCredentials)
}

func TestEncryptedFileStore(t *testing.T) {
	t.Setenv(PassphraseVariable, "test-passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "encrypted file", store.Name())

	_, err = store.Retrieve(DefaultProfile)
	assert.ErrorIs(t, err, ErrCredentialsNotFound)

	require.NoError(t, store.Store(&Credential{Profile: DefaultProfile, APIKey: "secret-key-123"}))
	require.NoError(t, store.Store(&Credential{Profile: "work", APIKey: "work-key"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "secret-key-123")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second store over the same file decrypts what the first wrote
	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	cred, err := reopened.Retrieve(DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "secret-key-123", cred.APIKey)

	require.NoError(t, reopened.Delete(DefaultProfile))
	assert.False(t, reopened.Exists(DefaultProfile))
	assert.True(t, reopened.Exists("work"))

	require.NoError(t, reopened.Delete("work"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv(PassphraseVariable, "right")
	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: DefaultProfile, APIKey: "k"}))

	t.Setenv(PassphraseVariable, "wrong")
	other, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	_, err = other.Retrieve(DefaultProfile)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialsNotFound)
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	t.Setenv(PassphraseVariable, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(&Credential{Profile: DefaultProfile, APIKey: "generated"}))

	passphrase, err := os.ReadFile(filepath.Join(dir, ".passphrase"))
	require.NoError(t, err)
	assert.NotEmpty(t, passphrase)

	reopened, err := NewEncryptedFileStore(path)
	require.NoError(t, err)
	cred, err := reopened.Retrieve(DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "generated", cred.APIKey)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********", MaskKey("short"))
	assert.Equal(t, "abcd...wxyz", MaskKey("abcdefghijklmnopqrstuvwxyz"))
}

func TestShowAPIKeyGuide(t *testing.T) {
	var sb strings.Builder
	ShowAPIKeyGuide(&sb)
	assert.Contains(t, sb.String(), "https://api.nasa.gov")
	assert.Contains(t, sb.String(), "marsphotos auth set-key")
}
