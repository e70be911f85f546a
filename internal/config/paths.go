package config

import (
	"os"
	"path/filepath"
)

// Paths contains the output locations used by a run. All paths are
// resolved once at startup so the rest of the application never joins
// path segments itself.
type Paths struct {
	OutputDir string
	LogsDir   string
}

// NewPaths resolves the output paths from configuration. Relative
// directories are kept relative to the working directory, matching how
// the tool is normally invoked.
func NewPaths(cfg *Config) *Paths {
	return &Paths{
		OutputDir: cfg.Output.Dir,
		LogsDir:   filepath.Dir(cfg.Logging.FilePath),
	}
}

// WorkbookPath returns the spreadsheet location for a ticker.
func (p *Paths) WorkbookPath(ticker string) string {
	return filepath.Join(p.OutputDir, ticker+".xlsx")
}

// GetLogPath returns the path for a log file name.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
