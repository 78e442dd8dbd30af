package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// EnvRemoteProfile is the environment variable holding the default remote
// connection profile as a JSON object. A previously saved profile on disk
// always takes priority over this default.
const EnvRemoteProfile = "REMOTE_PROFILE_JSON"

var (
	ErrRemoteProfileInvalid  = errors.New("remote profile: malformed or incomplete")
	ErrRemoteProfileNotFound = errors.New("remote profile: not configured")
)

// RemoteProfile holds the connection parameters for the remote document
// service. API key, auth domain, project id and app id are required; the
// rest are optional.
type RemoteProfile struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	AppID             string `json:"appId"`
	StorageBucket     string `json:"storageBucket,omitempty"`
	MessagingSenderID string `json:"messagingSenderId,omitempty"`
	MeasurementID     string `json:"measurementId,omitempty"`
}

// Validate reports whether all required fields are present.
func (p *RemoteProfile) Validate() error {
	if p.APIKey == "" || p.AuthDomain == "" || p.ProjectID == "" || p.AppID == "" {
		return ErrRemoteProfileInvalid
	}
	return nil
}

// ParseRemoteProfile decodes a pasted or loaded JSON blob. Malformed JSON
// and blobs missing a required field are rejected.
func ParseRemoteProfile(raw []byte) (*RemoteProfile, error) {
	var profile RemoteProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteProfileInvalid, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RemoteProfileStore loads, saves and clears the persisted profile.
// Lifecycle: load-on-start, persist-on-save, clear-on-reset.
type RemoteProfileStore struct {
	path string
}

func NewRemoteProfileStore(path string) *RemoteProfileStore {
	return &RemoteProfileStore{path: path}
}

// Load returns the saved profile if one exists and is valid, otherwise the
// environment default, otherwise ErrRemoteProfileNotFound. A malformed
// saved file is treated as absent rather than fatal.
func (s *RemoteProfileStore) Load() (*RemoteProfile, error) {
	if raw, err := os.ReadFile(s.path); err == nil {
		if profile, err := ParseRemoteProfile(raw); err == nil {
			return profile, nil
		}
	}

	if raw := os.Getenv(EnvRemoteProfile); raw != "" {
		if profile, err := ParseRemoteProfile([]byte(raw)); err == nil {
			return profile, nil
		}
	}

	return nil, ErrRemoteProfileNotFound
}

// Save validates and persists the profile.
func (s *RemoteProfileStore) Save(profile *RemoteProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the saved profile, returning the service to setup state.
func (s *RemoteProfileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
