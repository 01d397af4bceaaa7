package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = ".jotter-session"

func sessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jotter", sessionFile)
	}
	return sessionFile
}

func loadSession(path string) (string, error) {
	if token := strings.TrimSpace(os.Getenv("JOTTER_TOKEN")); token != "" {
		return token, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveSession(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func clearSession(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
