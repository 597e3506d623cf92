// internal/capture/capture.go
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// Capturer writes checkpoint screenshots to {dir}/{label}.png. It is safe for
// concurrent use as long as callers use distinct labels.
type Capturer struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithFs replaces the OS filesystem, mostly for tests.
func WithFs(fs afero.Fs) Option {
	return func(c *Capturer) { c.fs = fs }
}

// New returns a Capturer rooted at dir. A leading ~ is expanded to the user's
// home directory.
func New(dir string, logger *zap.Logger, opts ...Option) (*Capturer, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve screenshot directory '%s': %w", dir, err)
	}
	c := &Capturer{
		fs:     afero.NewOsFs(),
		dir:    filepath.Clean(expanded),
		logger: logger.Named("capture"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dir returns the resolved output directory.
func (c *Capturer) Dir() string { return c.dir }

// Path returns the file a checkpoint label is written to.
func (c *Capturer) Path(label string) string {
	return filepath.Join(c.dir, sanitize(label)+".png")
}

// Capture saves the current view of session under label and returns the path
// written. Sessions without the Screenshotter capability are skipped. Capture
// and write failures are logged and reported as an empty path; they never fail
// the caller.
func (c *Capturer) Capture(ctx context.Context, session schemas.SessionContext, label string) string {
	if c == nil {
		return ""
	}
	shooter, ok := session.(schemas.Screenshotter)
	if !ok {
		return ""
	}

	log := c.logger.With(zap.String("label", label), zap.String("session_id", session.ID()))

	buf, err := shooter.Screenshot(ctx)
	if err != nil {
		log.Warn("Failed to capture screenshot.", zap.Error(err))
		return ""
	}

	path := c.Path(label)
	if err := c.write(path, buf); err != nil {
		log.Warn("Failed to write screenshot.", zap.String("path", path), zap.Error(err))
		return ""
	}

	log.Debug("Screenshot saved.", zap.String("path", path), zap.Int("bytes", len(buf)))
	return path
}

func (c *Capturer) write(path string, data []byte) error {
	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// Overwrites a file left by a previous run.
	return afero.WriteFile(c.fs, path, data, 0o644)
}

// sanitize keeps labels inside the output directory.
func sanitize(label string) string {
	label = strings.TrimSpace(label)
	label = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, label)
	if label == "" || label == "." || label == ".." {
		return "unnamed"
	}
	return label
}
