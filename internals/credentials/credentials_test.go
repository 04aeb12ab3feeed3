package credentials

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineAccount(t *testing.T) {
	account := OfflineAccount("Alex")

	assert.Equal(t, "Alex", account.PlayerName)
	assert.True(t, account.Offline())

	// same name, same uuid. different name, different uuid
	assert.Equal(t, account.UUID, OfflineAccount("Alex").UUID)
	assert.NotEqual(t, account.UUID, OfflineAccount("Steve").UUID)

	uuidRe := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-3[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	assert.Regexp(t, uuidRe, account.UUID, "offline uuids are version 3")
}

func TestFileStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store := &Store{globalDir: dir, NoKeyRingMode: true}

	require.NoError(t, store.Set(OfflineAccount("Alex")))

	reloaded := &Store{globalDir: dir, NoKeyRingMode: true}
	require.NoError(t, reloaded.readCredentialFile("credentials.json", &reloaded.Account))
	require.NotNil(t, reloaded.Account)
	assert.Equal(t, "Alex", reloaded.Account.PlayerName)
	assert.Equal(t, store.Account.UUID, reloaded.Account.UUID)

	require.NoError(t, reloaded.Clear())
	fresh := &Store{globalDir: dir, NoKeyRingMode: true}
	require.NoError(t, fresh.readCredentialFile("credentials.json", &fresh.Account))
	assert.Nil(t, fresh.Account)
}

func TestEnsureClientID(t *testing.T) {
	dir := t.TempDir()

	store := &Store{globalDir: dir, NoKeyRingMode: true}
	require.NoError(t, store.ensureClientID())
	require.Len(t, store.ClientID, 32)

	// stable across loads
	second := &Store{globalDir: dir, NoKeyRingMode: true}
	require.NoError(t, second.ensureClientID())
	assert.Equal(t, store.ClientID, second.ClientID)
}
