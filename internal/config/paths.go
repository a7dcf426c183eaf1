package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths.
type Paths struct {
	Data    string
	Draft   string
	Outbox  string
	LogFile string
}

// NewPaths resolves every directory from cfg. Empty entries fall back to
// conventional locations under the data directory; relative ones are taken
// relative to it.
func NewPaths(cfg *Config) *Paths {
	data := cfg.DataDir
	if data == "" {
		data = DefaultDataDir()
	}
	return &Paths{
		Data:    data,
		Draft:   under(data, cfg.Draft.Dir, "draft"),
		Outbox:  under(data, cfg.Submission.OutboxDir, "outbox"),
		LogFile: under(data, cfg.Log.File, "talenthub.log"),
	}
}

func under(root, configured, fallback string) string {
	switch {
	case configured == "":
		return filepath.Join(root, fallback)
	case filepath.IsAbs(configured):
		return configured
	default:
		return filepath.Join(root, configured)
	}
}

// EnsureDirectories creates the data, draft and outbox directories if they
// do not already exist.
func EnsureDirectories(p *Paths) error {
	for _, d := range []string{p.Data, p.Draft, p.Outbox, filepath.Dir(p.LogFile)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}
	return nil
}
