package authflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loginus-id/api/internal/domain"
)

// FileStore persists the auth-flow configuration as a single JSON file.
// Candidate paths are tried in order; when none exist the file is created
// at the last candidate with empty defaults. The file is always written
// wholesale — there is no partial patch at this layer.
type FileStore struct {
	paths []string
}

func NewFileStore(paths []string) *FileStore {
	return &FileStore{paths: paths}
}

// Load reads the configuration. A missing file auto-creates defaults. A
// corrupt file returns (defaults, err): the caller gets usable data AND
// the reason, and decides whether to degrade or propagate.
func (f *FileStore) Load() (*domain.AuthFlowConfig, error) {
	path, ok := f.resolve()
	if !ok {
		cfg := domain.DefaultAuthFlowConfig()
		if err := f.Save(cfg); err != nil {
			return cfg, fmt.Errorf("create default auth-flow config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultAuthFlowConfig(), fmt.Errorf("read auth-flow config: %w", err)
	}
	var cfg domain.AuthFlowConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.DefaultAuthFlowConfig(), fmt.Errorf("parse auth-flow config %s: %w", path, err)
	}
	if cfg.Login == nil {
		cfg.Login = []domain.MethodDescriptor{}
	}
	if cfg.Registration == nil {
		cfg.Registration = []domain.MethodDescriptor{}
	}
	if cfg.Factors == nil {
		cfg.Factors = []domain.MethodDescriptor{}
	}
	return &cfg, nil
}

// Save overwrites the configuration file at the resolved path.
func (f *FileStore) Save(cfg *domain.AuthFlowConfig) error {
	path, ok := f.resolve()
	if !ok {
		path = f.paths[len(f.paths)-1]
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create auth-flow config dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal auth-flow config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write auth-flow config: %w", err)
	}
	return nil
}

// resolve returns the first existing candidate path.
func (f *FileStore) resolve() (string, bool) {
	for _, p := range f.paths {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}
