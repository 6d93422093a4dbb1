// Package cli implements the claude-statusline commands.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/himattm/claude-statusline/internal/artifact"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/credentials"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/generator"
	"github.com/himattm/claude-statusline/internal/install"
	"github.com/himattm/claude-statusline/internal/logger"
	"github.com/himattm/claude-statusline/internal/preview"
	"github.com/himattm/claude-statusline/internal/ui"
	"github.com/himattm/claude-statusline/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app carries the collaborators commands use, so tests can swap them
type app struct {
	opts        options
	log         logger.Logger
	logFile     *logger.FileLogger
	interactive func() bool
	probe       credentials.Probe
	builder     artifact.Builder
	runner      preview.Executor
	now         func() time.Time
	ask         func(ctx context.Context, start config.Config, rateLimits bool) (config.Config, error)
	confirm     func(ctx context.Context, title string) (bool, error)
}

func defaultApp() *app {
	return &app{
		log:         logger.Noop(),
		interactive: stdioIsTerminal,
		runner:      artifact.Runner{},
		now:         time.Now,
		ask:         wizard.Ask,
		confirm:     wizard.Confirm,
	}
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Execute runs the root command
func Execute() error {
	return newRootCmd(defaultApp()).Execute()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "claude-statusline",
		Short: "Build a custom status line for Claude Code",
		Long: `claude-statusline asks which fields you want, generates a small standalone
renderer for exactly those fields, previews it and installs it into
~/.claude/statusline, pointing Claude Code's settings.json at it.

Run without arguments for the interactive setup.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
		RunE:              a.runSetup,
		Args:              cobra.NoArgs,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "answers file (default ~/.claude/statusline/config.yaml)")
	flags.BoolVar(&a.opts.debug, "debug", false, "print debug logs to stderr")
	flags.StringVar(&a.opts.logFile, "log-file", "", "also write debug logs to this file (rotated)")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newPreviewCmd(a),
		newInstallCmd(a),
		newFieldsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.log = logger.NewEnvLogger("claude-statusline", a.opts.debug)
	if a.opts.logFile != "" {
		a.logFile = logger.NewFileLogger(a.opts.logFile)
		a.log = logger.Tee(a.log, a.logFile)
	}

	if a.builder == nil {
		a.builder = artifact.GoBuilder{Log: a.log}
	}
	if a.probe == nil {
		a.probe = credentials.SystemProbe{Log: a.log}
	}
	a.log.Debug("command: %s", cmd.CommandPath())
	return nil
}

func (a *app) teardown() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) previewer() *preview.Previewer {
	return &preview.Previewer{Builder: a.builder, Runner: a.runner, Log: a.log}
}

func (a *app) installer() *install.Installer {
	paths := install.DefaultPaths()
	if a.opts.configPath != "" {
		paths.Config = a.opts.configPath
	}
	return &install.Installer{Paths: paths, Builder: a.builder, Log: a.log}
}

// runSetup is the interactive flow: ask, generate, preview, confirm, install
func (a *app) runSetup(cmd *cobra.Command, _ []string) error {
	if !a.interactive() {
		return errors.New(errors.ErrInput,
			"Interactive setup needs a terminal",
			"Use 'claude-statusline install --yes --fields model,contextBar' instead")
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, ui.Title("claude-statusline setup"))

	start, err := config.Load(a.opts.configFile())
	if err != nil {
		ui.Warn(out, "Ignoring saved answers: %s", firstLine(err))
		start = config.Default()
	}

	rateLimits := a.probe.HasOAuthCredentials(ctx)
	if !rateLimits {
		ui.Step(out, "No OAuth credentials found, rate limit fields hidden (Enterprise/API plan)")
	}

	cfg, err := a.ask(ctx, start, rateLimits)
	if err != nil {
		return cancelled(out, err)
	}

	source, err := generator.Generate(cfg)
	if err != nil {
		return err
	}
	a.showPreview(ctx, out, source, preview.Sample(cfg, a.now()))

	paths := install.DefaultPaths()
	ok, err := a.confirm(ctx, fmt.Sprintf("Write to %s and patch settings.json?", paths.Dir))
	if err != nil {
		return cancelled(out, err)
	}
	if !ok {
		fmt.Fprintln(out, "Nothing written.")
		return nil
	}
	return a.install(ctx, out, cfg, source)
}

// cancelled turns a user abort into a clean exit
func cancelled(out io.Writer, err error) error {
	if !stderrors.Is(err, wizard.ErrCancelled) {
		return err
	}
	fmt.Fprintln(out, "Cancelled. Nothing written.")
	return nil
}

// showPreview prints the renderer output, or a warning when it cannot run
func (a *app) showPreview(ctx context.Context, out io.Writer, source, snapshot []byte) {
	ui.Step(out, "Preview (sample data):")
	rendered, err := a.previewer().Preview(ctx, source, snapshot)
	if err != nil {
		a.log.Debug("preview failed: %v", err)
		ui.Warn(out, "Preview failed: %s", firstLine(err))
		return
	}
	fmt.Fprintln(out, ui.Frame(rendered))
}

func (a *app) install(ctx context.Context, out io.Writer, cfg config.Config, source []byte) error {
	res, err := a.installer().Install(ctx, cfg, source)
	if err != nil {
		return err
	}

	ui.Success(out, "Installed status line (%s)", res.BinarySize)
	ui.Detail(out, "renderer", res.Binary)
	ui.Detail(out, "source", res.Source)
	ui.Detail(out, "answers", res.Config)
	if res.PreviousCommand != "" && res.PreviousCommand != res.Command {
		ui.Detail(out, "replaced", res.PreviousCommand)
	}
	if res.BackupPath != "" {
		ui.Detail(out, "backup", res.BackupPath)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Restart Claude Code to see your new status line.")
	fmt.Fprintln(out, ui.Muted("Re-run claude-statusline any time to reconfigure."))
	return nil
}
