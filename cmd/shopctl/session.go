package main

import (
	"os"
	"path/filepath"
	"strings"

	"storefront-client/internal/model"
)

const sessionFile = "session"

// loadSession reads the saved bearer token. Absent or unreadable files mean
// a guest session.
func loadSession(stateDir string) model.Session {
	data, err := os.ReadFile(filepath.Join(stateDir, sessionFile))
	if err != nil {
		return model.Session{}
	}
	return model.Session{Token: strings.TrimSpace(string(data))}
}

func saveSession(stateDir string, s model.Session) error {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(stateDir, sessionFile), []byte(s.Token), 0o600)
}

func clearSession(stateDir string) error {
	err := os.Remove(filepath.Join(stateDir, sessionFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
