package fsutil

import (
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Option configures Walk and Extract.
type Option func(*config)

type config struct {
	fs        afero.Fs
	logger    logrus.FieldLogger
	excludes  []string
	overwrite OverwritePolicy
	prompt    Prompter
}

// WithFs sets the filesystem to read from or extract into. The default is the OS filesystem.
// Extract resolves symlinks only on *afero.OsFs.
func WithFs(fs afero.Fs) Option {
	return func(c *config) {
		c.fs = fs
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithExcludes skips walked paths matching any of the doublestar patterns.
// Patterns match the slash-separated name relative to the walk root.
// A matching directory is skipped entirely.
func WithExcludes(patterns ...string) Option {
	return func(c *config) {
		c.excludes = append(c.excludes, patterns...)
	}
}

// WithOverwrite sets what Extract does with files that already exist.
func WithOverwrite(p OverwritePolicy) Option {
	return func(c *config) {
		c.overwrite = p
	}
}

// WithPrompter sets the callback consulted under OverwritePrompt.
func WithPrompter(p Prompter) Option {
	return func(c *config) {
		c.prompt = p
	}
}

func newConfig(opts []Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
	return c
}

// validateExcludes reports the first malformed exclude pattern.
func (c *config) validateExcludes() error {
	for _, p := range c.excludes {
		if !doublestar.ValidatePattern(p) {
			return &ErrPattern{Pattern: p}
		}
	}
	return nil
}

func (c *config) excluded(name string) bool {
	for _, p := range c.excludes {
		// Patterns were validated up front, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
