// Package install writes a generated renderer into ~/.claude and points
// Claude Code at it.
package install

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/himattm/claude-statusline/internal/artifact"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/logger"
	"github.com/himattm/claude-statusline/internal/settings"
)

// Paths are the locations an install touches
type Paths struct {
	Dir      string // ~/.claude/statusline
	Binary   string
	Source   string
	Config   string
	Settings string // ~/.claude/settings.json
}

// DefaultPaths returns the paths under the Claude config directory
func DefaultPaths() Paths {
	return PathsIn(config.ClaudeDir())
}

// PathsIn returns the install paths below claudeDir
func PathsIn(claudeDir string) Paths {
	dir := filepath.Join(claudeDir, "statusline")
	return Paths{
		Dir:      dir,
		Binary:   filepath.Join(dir, "statusline"),
		Source:   filepath.Join(dir, "main.go"),
		Config:   filepath.Join(dir, "config.yaml"),
		Settings: filepath.Join(claudeDir, "settings.json"),
	}
}

// Result summarizes a finished install
type Result struct {
	Paths
	BinarySize      string
	Command         string
	PreviousCommand string // statusLine command replaced, if any
	BackupPath      string
}

// Installer performs the install steps in order
type Installer struct {
	Paths   Paths
	Builder artifact.Builder
	Log     logger.Logger
}

// New returns an Installer using the default paths and the Go toolchain
func New(log logger.Logger) *Installer {
	return &Installer{
		Paths:   DefaultPaths(),
		Builder: artifact.GoBuilder{Log: log},
		Log:     log,
	}
}

// Install writes source, builds it, patches settings.json and saves cfg.
// A settings file that cannot be patched aborts before anything is written.
func (i *Installer) Install(ctx context.Context, cfg config.Config, source []byte) (Result, error) {
	log := i.Log
	if log == nil {
		log = logger.Noop()
	}
	p := i.Paths

	if err := settings.Check(p.Settings); err != nil {
		return Result{}, err
	}
	res := Result{Paths: p}
	if raw, err := os.ReadFile(p.Settings); err == nil {
		res.PreviousCommand, _ = settings.Current(raw)
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrGenerate,
			"Cannot create "+p.Dir,
			"Check directory permissions")
	}
	if err := os.WriteFile(p.Source, source, 0644); err != nil {
		return Result{}, errors.WrapWithCode(err, errors.ErrGenerate,
			"Cannot write "+p.Source,
			"Check file permissions")
	}
	log.Debug("install: wrote %s (%d bytes)", p.Source, len(source))

	if err := i.Builder.Build(ctx, source, p.Binary); err != nil {
		return Result{}, err
	}
	if info, err := os.Stat(p.Binary); err == nil {
		res.BinarySize = humanize.Bytes(uint64(info.Size()))
	}
	log.Debug("install: built %s (%s)", p.Binary, res.BinarySize)

	patched, err := settings.Patch(p.Settings, p.Binary)
	if err != nil {
		return Result{}, err
	}
	res.Command = patched.Command
	res.BackupPath = patched.BackupPath
	log.Debug("install: statusLine command is now %s", res.Command)

	if err := config.Save(p.Config, cfg); err != nil {
		return Result{}, err
	}
	return res, nil
}
