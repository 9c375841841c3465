// Package settings persists the last used server and login between runs.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"olap_report/internal/config"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const fileType = "json"

var ErrNotFound = errors.New("settings file not found")

// Saved is the content of the settings file. The password is never stored.
type Saved struct {
	Server string `mapstructure:"server"`
	Login  string `mapstructure:"login"`
}

type Store struct {
	path   string
	logger *zap.Logger
}

func NewStore(cfg config.Config, logger *zap.Logger) *Store {
	return &Store{
		path:   cfg.SettingsFile,
		logger: logger.Named("settings"),
	}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (Saved, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return Saved{}, ErrNotFound
	}

	v := s.viper()
	if err := v.ReadInConfig(); err != nil {
		return Saved{}, fmt.Errorf("reading settings: %w", err)
	}

	var saved Saved
	if err := v.Unmarshal(&saved); err != nil {
		return Saved{}, fmt.Errorf("decoding settings: %w", err)
	}

	s.logger.Debug("settings loaded", zap.String("path", s.path), zap.String("server", saved.Server))
	return saved, nil
}

func (s *Store) Save(saved Saved) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings dir: %w", err)
		}
	}

	v := s.viper()
	v.Set("server", strings.TrimSpace(saved.Server))
	v.Set("login", strings.TrimSpace(saved.Login))
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	s.logger.Info("settings saved", zap.String("path", s.path))
	return nil
}

func (s *Store) viper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType(fileType)
	return v
}
