package credentials

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dchest/uniuri"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

var (
	authService = "lodestone"
	authUser    = "account_data"
)

// Account is a playable minecraft account. Tokens come from an external
// auth flow, lodestone only stores and forwards them
type Account struct {
	PlayerName  string `json:"playerName"`
	UUID        string `json:"uuid"`
	AccessToken string `json:"accessToken,omitempty"`
	// UserType is msa for microsoft accounts, legacy otherwise
	UserType string `json:"userType,omitempty"`
	XUID     string `json:"xuid,omitempty"`
	// Session is the oauth token the access token was minted from,
	// kept so it can be refreshed
	Session *oauth2.Token `json:"session,omitempty"`
}

// Offline reports whether this account can only join offline servers
func (a *Account) Offline() bool {
	return a.AccessToken == ""
}

// OfflineAccount builds a local-only account the way the vanilla
// client derives offline player UUIDs
func OfflineAccount(playerName string) *Account {
	sum := md5.Sum([]byte("OfflinePlayer:" + playerName))
	// version 3 uuid, like java's UUID.nameUUIDFromBytes
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80

	return &Account{
		PlayerName: playerName,
		UUID:       fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16]),
		UserType:   "legacy",
	}
}

// Store persists the account in the OS keyring, falling back to a
// plain file when no keyring is available (headless boxes, most CI)
type Store struct {
	globalDir     string
	NoKeyRingMode bool
	Account       *Account
	// ClientID identifies this launcher install, generated once
	ClientID string
}

// New creates a store and loads existing credentials
func New(globalDir string) (*Store, error) {
	store := &Store{globalDir: globalDir}
	if err := store.Find(); err != nil {
		return nil, err
	}
	if err := store.ensureClientID(); err != nil {
		return nil, err
	}
	return store, nil
}

// Find tries to find existing credentials
func (s *Store) Find() error {
	raw, err := keyring.Get(authService, authUser)
	switch err {
	case nil:
		return json.Unmarshal([]byte(raw), &s.Account)
	case keyring.ErrNotFound:
		// no credentials (yet) is fine
		return nil
	default:
		// no usable keyring, fall back to the file store
		s.NoKeyRingMode = true
		return s.readCredentialFile("credentials.json", &s.Account)
	}
}

// Set persists the account
func (s *Store) Set(account *Account) error {
	s.Account = account

	blob, err := json.Marshal(account)
	if err != nil {
		return err
	}
	if s.NoKeyRingMode {
		return s.writeCredentialFile("credentials.json", blob)
	}
	return keyring.Set(authService, authUser, string(blob))
}

// Clear removes the stored account
func (s *Store) Clear() error {
	s.Account = nil
	if s.NoKeyRingMode {
		err := os.Remove(filepath.Join(s.globalDir, "credentials.json"))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	err := keyring.Delete(authService, authUser)
	if err == keyring.ErrNotFound {
		return nil
	}
	return err
}

// ensureClientID loads or generates the per-install client id. It is
// not a secret, a plain file is fine
func (s *Store) ensureClientID() error {
	file := filepath.Join(s.globalDir, "clientid")

	raw, err := os.ReadFile(file)
	if err == nil && len(raw) != 0 {
		s.ClientID = string(raw)
		return nil
	}

	s.ClientID = uniuri.NewLen(32)
	if err := os.MkdirAll(s.globalDir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(file, []byte(s.ClientID), 0644)
}

// readCredentialFile is a helper that reads a file from the config dir
func (s *Store) readCredentialFile(location string, v interface{}) error {
	file := filepath.Join(s.globalDir, location)
	raw, err := os.ReadFile(file)
	switch {
	case err == nil:
		return json.Unmarshal(raw, v)
	case os.IsNotExist(err):
		// no file is fine
		return nil
	default:
		return err
	}
}

// writeCredentialFile is a helper that writes a file to the config dir
func (s *Store) writeCredentialFile(location string, content []byte) error {
	if err := os.MkdirAll(s.globalDir, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.globalDir, location), content, 0700)
}
