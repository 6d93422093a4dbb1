// Package artifact compiles generated renderer source and runs the result.
package artifact

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/logger"
)

const (
	// DefaultBuildTimeout bounds a single go build
	DefaultBuildTimeout = 2 * time.Minute
	// DefaultRunTimeout bounds a single renderer invocation
	DefaultRunTimeout = 5 * time.Second
	// pipeDrainDelay is how long Run waits for stray children holding the
	// renderer's stdout once it has exited or been killed
	pipeDrainDelay = 500 * time.Millisecond

	goMod = "module claude-statusline-renderer\n\ngo 1.21\n"
)

// Builder compiles renderer source into an executable at dst
type Builder interface {
	Build(ctx context.Context, source []byte, dst string) error
}

// GoBuilder builds with the local Go toolchain
type GoBuilder struct {
	// GoBin overrides the go binary looked up on PATH
	GoBin   string
	Timeout time.Duration
	Log     logger.Logger
}

// ToolchainAvailable reports whether a go binary is on PATH
func ToolchainAvailable() bool {
	_, err := exec.LookPath("go")
	return err == nil
}

func (b GoBuilder) log() logger.Logger {
	if b.Log == nil {
		return logger.Noop()
	}
	return b.Log
}

// Build compiles source in a throwaway module and moves the binary to dst.
// dst is replaced atomically; a failed build leaves it untouched.
func (b GoBuilder) Build(ctx context.Context, source []byte, dst string) error {
	goBin := b.GoBin
	if goBin == "" {
		goBin = "go"
	}
	goBin, err := exec.LookPath(goBin)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBuild,
			"Go toolchain not found",
			"Install Go from https://go.dev/dl/ and make sure 'go' is on your PATH")
	}

	dir, err := os.MkdirTemp("", "claude-statusline-build-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrBuild, "Cannot create build directory", "Check your temp directory is writable")
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrBuild, "Cannot write go.mod", "")
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), source, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrBuild, "Cannot write main.go", "")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrBuild,
			"Cannot create "+filepath.Dir(dst),
			"Check directory permissions")
	}

	timeout := b.Timeout
	if timeout == 0 {
		timeout = DefaultBuildTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tempPath := dst + ".new"
	cmd := exec.CommandContext(ctx, goBin, "build", "-trimpath", "-ldflags=-s -w", "-o", tempPath, ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "CGO_ENABLED=0", "GOFLAGS=")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	b.log().Debug("build: %s build -o %s (in %s)", goBin, tempPath, dir)
	if err := cmd.Run(); err != nil {
		os.Remove(tempPath)
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("go build timed out after %s", timeout)
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return errors.WrapWithCode(err, errors.ErrBuild,
			"Failed to compile the renderer",
			"Run with --debug for details, or check 'go version' works")
	}
	b.log().Debug("build: finished in %s", time.Since(start).Round(time.Millisecond))

	if err := os.Chmod(tempPath, 0755); err != nil {
		os.Remove(tempPath)
		return errors.WrapWithCode(err, errors.ErrBuild, "Cannot make the renderer executable", "")
	}
	if err := os.Rename(tempPath, dst); err != nil {
		os.Remove(tempPath)
		return errors.WrapWithCode(err, errors.ErrBuild,
			"Cannot install the renderer to "+dst,
			"Check file permissions")
	}
	return nil
}

// Runner executes a renderer binary with a snapshot on stdin
type Runner struct {
	Timeout time.Duration
}

// Run executes binary directly, with no shell, and returns its stdout
func (r Runner) Run(ctx context.Context, binary string, stdin []byte) (string, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary)
	cmd.WaitDelay = pipeDrainDelay
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr lockedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("renderer timed out after %s", timeout)
		}
		// The renderer itself exited cleanly; a leftover child kept the pipe open
		if stderrors.Is(err, exec.ErrWaitDelay) {
			return stdout.String(), nil
		}
		return "", fmt.Errorf("renderer error: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// lockedBuffer is written by exec's copy goroutines, which can still be
// running when Wait gives up after WaitDelay
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
