// Package preview renders a generated status line against sample data.
package preview

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/himattm/claude-statusline/internal/artifact"
	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/logger"
)

type sampleModel struct {
	DisplayName string `json:"display_name"`
}

type sampleContext struct {
	TotalInputTokens    int `json:"total_input_tokens"`
	TotalOutputTokens   int `json:"total_output_tokens"`
	ContextWindowSize   int `json:"context_window_size"`
	UsedPercentage      int `json:"used_percentage"`
	RemainingPercentage int `json:"remaining_percentage"`
}

type sampleCost struct {
	TotalLinesAdded   int `json:"total_lines_added"`
	TotalLinesRemoved int `json:"total_lines_removed"`
}

type sampleWindow struct {
	UsedPercentage int   `json:"used_percentage"`
	ResetsAt       int64 `json:"resets_at"`
}

type sampleRateLimits struct {
	FiveHour sampleWindow `json:"five_hour"`
	SevenDay sampleWindow `json:"seven_day"`
}

type sampleSnapshot struct {
	Model         sampleModel       `json:"model"`
	ContextWindow sampleContext     `json:"context_window"`
	Cost          sampleCost        `json:"cost"`
	RateLimits    *sampleRateLimits `json:"rate_limits,omitempty"`
	Version       string            `json:"version"`
}

// Sample returns the synthetic snapshot shown during setup. Rate limit
// windows are included only when cfg selects a rate-limited field, with
// reset times relative to now.
func Sample(cfg config.Config, now time.Time) []byte {
	snap := sampleSnapshot{
		Model: sampleModel{DisplayName: "Claude Sonnet 4.6 (1M context)"},
		ContextWindow: sampleContext{
			TotalInputTokens:    45000,
			TotalOutputTokens:   3200,
			ContextWindowSize:   1000000,
			UsedPercentage:      5,
			RemainingPercentage: 95,
		},
		Cost:    sampleCost{TotalLinesAdded: 47, TotalLinesRemoved: 12},
		Version: "1.0.0",
	}

	for _, id := range cfg.Fields {
		if f, ok := catalog.Lookup(id); ok && f.RateLimited {
			snap.RateLimits = &sampleRateLimits{
				FiveHour: sampleWindow{UsedPercentage: 30, ResetsAt: now.Add(113 * time.Minute).Unix()},
				SevenDay: sampleWindow{UsedPercentage: 12, ResetsAt: now.Add(76 * time.Hour).Unix()},
			}
			break
		}
	}

	data, _ := json.Marshal(snap)
	return data
}

// Executor runs a built renderer
type Executor interface {
	Run(ctx context.Context, binary string, stdin []byte) (string, error)
}

// Previewer builds renderer source into a scratch directory and runs it
type Previewer struct {
	Builder artifact.Builder
	Runner  Executor
	Log     logger.Logger
}

// New returns a Previewer backed by the local Go toolchain
func New(log logger.Logger) *Previewer {
	return &Previewer{
		Builder: artifact.GoBuilder{Log: log},
		Runner:  artifact.Runner{},
		Log:     log,
	}
}

// Preview builds source, feeds it snapshot and returns what it printed.
// The scratch directory is removed whether or not anything succeeded.
func (p *Previewer) Preview(ctx context.Context, source, snapshot []byte) (string, error) {
	log := p.Log
	if log == nil {
		log = logger.Noop()
	}

	dir, err := os.MkdirTemp("", "claude-statusline-preview-*")
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrPreview, "Cannot create preview directory", "Check your temp directory is writable")
	}
	defer os.RemoveAll(dir)

	binary := filepath.Join(dir, "statusline")
	if err := p.Builder.Build(ctx, source, binary); err != nil {
		return "", err
	}
	log.Debug("preview: running %s with %d byte snapshot", binary, len(snapshot))

	out, err := p.Runner.Run(ctx, binary, snapshot)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrPreview, "Preview failed", "The renderer can still be installed; run with --debug for details")
	}
	return out, nil
}
