package install

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuilder struct {
	calls int
	err   error
}

func (b *fakeBuilder) Build(_ context.Context, source []byte, dst string) error {
	b.calls++
	if b.err != nil {
		return b.err
	}
	return os.WriteFile(dst, append([]byte("built:"), source...), 0755)
}

func TestPathsIn(t *testing.T) {
	p := PathsIn("/home/me/.claude")
	assert.Equal(t, "/home/me/.claude/statusline", p.Dir)
	assert.Equal(t, "/home/me/.claude/statusline/statusline", p.Binary)
	assert.Equal(t, "/home/me/.claude/statusline/main.go", p.Source)
	assert.Equal(t, "/home/me/.claude/statusline/config.yaml", p.Config)
	assert.Equal(t, "/home/me/.claude/settings.json", p.Settings)
}

func TestInstallFresh(t *testing.T) {
	paths := PathsIn(t.TempDir())
	builder := &fakeBuilder{}
	inst := &Installer{Paths: paths, Builder: builder}

	cfg, err := config.New([]catalog.ID{catalog.Model, catalog.ContextBar}, config.LayoutSingle, config.ColorMonochrome, config.Thresholds{Yellow: 50, Red: 80})
	require.NoError(t, err)

	res, err := inst.Install(context.Background(), cfg, []byte("package main"))
	require.NoError(t, err)

	assert.Equal(t, 1, builder.calls)
	assert.Equal(t, paths.Binary, res.Command)
	assert.Empty(t, res.PreviousCommand)
	assert.Empty(t, res.BackupPath)
	assert.NotEmpty(t, res.BinarySize)

	src, err := os.ReadFile(paths.Source)
	require.NoError(t, err)
	assert.Equal(t, "package main", string(src))

	raw, err := os.ReadFile(paths.Settings)
	require.NoError(t, err)
	cmd, ok := settings.Current(raw)
	assert.True(t, ok)
	assert.Equal(t, paths.Binary, cmd)

	saved, err := config.Load(paths.Config)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)
}

func TestInstallReplacesPreviousCommand(t *testing.T) {
	claudeDir := t.TempDir()
	paths := PathsIn(claudeDir)
	require.NoError(t, os.WriteFile(paths.Settings,
		[]byte(`{"statusLine": {"type": "command", "command": "/bin/bash ~/.claude/statusline-command.sh"}, "theme": "dark"}`), 0644))

	res, err := (&Installer{Paths: paths, Builder: &fakeBuilder{}}).Install(context.Background(), config.Default(), []byte("src"))
	require.NoError(t, err)

	assert.Equal(t, "/bin/bash ~/.claude/statusline-command.sh", res.PreviousCommand)
	assert.Equal(t, paths.Settings+".backup", res.BackupPath)
	_, err = os.Stat(res.BackupPath)
	assert.NoError(t, err)
}

func TestInstallMalformedSettingsWritesNothing(t *testing.T) {
	claudeDir := t.TempDir()
	paths := PathsIn(claudeDir)
	require.NoError(t, os.WriteFile(paths.Settings, []byte("{broken"), 0644))
	builder := &fakeBuilder{}

	_, err := (&Installer{Paths: paths, Builder: builder}).Install(context.Background(), config.Default(), []byte("src"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, settings.ErrMalformed))

	assert.Zero(t, builder.calls)
	_, statErr := os.Stat(paths.Dir)
	assert.True(t, os.IsNotExist(statErr))
	raw, _ := os.ReadFile(paths.Settings)
	assert.Equal(t, "{broken", string(raw))
}

func TestInstallBuildFailureLeavesSettings(t *testing.T) {
	paths := PathsIn(t.TempDir())
	orig := []byte(`{"theme": "dark"}`)
	require.NoError(t, os.WriteFile(paths.Settings, orig, 0644))
	builder := &fakeBuilder{err: errors.New(errors.ErrBuild, "Failed to compile the renderer", "")}

	_, err := (&Installer{Paths: paths, Builder: builder}).Install(context.Background(), config.Default(), []byte("src"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrBuild))

	raw, _ := os.ReadFile(paths.Settings)
	assert.Equal(t, orig, raw)
	_, statErr := os.Stat(filepath.Join(paths.Dir, "config.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}
