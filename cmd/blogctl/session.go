package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Session is what blogctl remembers between runs. Firebase sessions keep the
// refresh token; local sessions keep the claims tokens are minted from.
type Session struct {
	Mode         string `mapstructure:"mode"`
	RefreshToken string `mapstructure:"refresh_token"`
	UID          string `mapstructure:"uid"`
	Email        string `mapstructure:"email"`
	Name         string `mapstructure:"name"`
	Picture      string `mapstructure:"picture"`
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "blogctl", "session.json")
}

func sessionViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetConfigPermissions(0o600)
	return v
}

// loadSession reads the session at path. A missing file is an empty session.
func loadSession(path string) (*Session, error) {
	s := &Session{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	v := sessionViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read session %s", path)
	}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrapf(err, "decode session %s", path)
	}
	return s, nil
}

// save writes the session to path, creating its directory.
func (s *Session) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create session directory")
	}

	v := sessionViper(path)
	v.Set("mode", s.Mode)
	v.Set("refresh_token", s.RefreshToken)
	v.Set("uid", s.UID)
	v.Set("email", s.Email)
	v.Set("name", s.Name)
	v.Set("picture", s.Picture)
	return errors.Wrapf(v.WriteConfigAs(path), "write session %s", path)
}

func removeSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}
