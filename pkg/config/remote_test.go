package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *RemoteProfile {
	return &RemoteProfile{
		APIKey:     "AIzaTest",
		AuthDomain: "demo.example.com",
		ProjectID:  "demo-project",
		AppID:      "1:123:web:abc",
	}
}

func TestParseRemoteProfile(t *testing.T) {
	raw := []byte(`{
		"apiKey": "AIzaTest",
		"authDomain": "demo.example.com",
		"projectId": "demo-project",
		"appId": "1:123:web:abc",
		"storageBucket": "demo.appspot.com"
	}`)

	profile, err := ParseRemoteProfile(raw)
	require.NoError(t, err)
	assert.Equal(t, "AIzaTest", profile.APIKey)
	assert.Equal(t, "demo.appspot.com", profile.StorageBucket)
}

func TestParseRemoteProfileRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed json", raw: `{"apiKey": `},
		{name: "missing api key", raw: `{"authDomain": "d", "projectId": "p", "appId": "a"}`},
		{name: "missing app id", raw: `{"apiKey": "k", "authDomain": "d", "projectId": "p"}`},
		{name: "empty object", raw: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRemoteProfile([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrRemoteProfileInvalid)
		})
	}
}

func TestRemoteProfileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote_profile.json")
	store := NewRemoteProfileStore(path)

	require.NoError(t, store.Save(validProfile()))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, validProfile(), loaded)
}

func TestRemoteProfileStoreSaveRejectsIncomplete(t *testing.T) {
	store := NewRemoteProfileStore(filepath.Join(t.TempDir(), "remote_profile.json"))

	err := store.Save(&RemoteProfile{APIKey: "only"})
	assert.ErrorIs(t, err, ErrRemoteProfileInvalid)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrRemoteProfileNotFound)
}

func TestRemoteProfileStoreEnvFallback(t *testing.T) {
	store := NewRemoteProfileStore(filepath.Join(t.TempDir(), "remote_profile.json"))

	t.Setenv(EnvRemoteProfile, `{"apiKey":"env","authDomain":"d","projectId":"p","appId":"a"}`)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "env", loaded.APIKey)

	// A saved file wins over the environment default.
	require.NoError(t, store.Save(validProfile()))
	loaded, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "AIzaTest", loaded.APIKey)
}

func TestRemoteProfileStoreMalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote_profile.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewRemoteProfileStore(path)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrRemoteProfileNotFound)
}

func TestRemoteProfileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remote_profile.json")
	store := NewRemoteProfileStore(path)

	require.NoError(t, store.Save(validProfile()))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrRemoteProfileNotFound)

	// Clearing an already-clear store is fine.
	assert.NoError(t, store.Clear())
}
