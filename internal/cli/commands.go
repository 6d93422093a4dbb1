package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/himattm/claude-statusline/internal/generator"
	"github.com/himattm/claude-statusline/internal/install"
	"github.com/himattm/claude-statusline/internal/preview"
	"github.com/himattm/claude-statusline/internal/ui"
	"github.com/himattm/claude-statusline/internal/util"
	"github.com/himattm/claude-statusline/internal/version"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the renderer source for the current answers",
		Example: `  claude-statusline generate --fields model,contextBar --layout single
  claude-statusline generate -o main.go`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.opts.resolve(cmd)
			if err != nil {
				return err
			}
			source, err := generator.Generate(cfg)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(source)
				return err
			}
			if err := util.WriteFileAtomic(output, source, 0644); err != nil {
				return errors.WrapWithCode(err, errors.ErrGenerate,
					"Cannot write "+output,
					"Check the directory exists and is writable")
			}
			a.log.Debug("generate: wrote %d bytes to %s", len(source), output)
			ui.Success(cmd.OutOrStdout(), "Wrote %s", output)
			return nil
		},
	}
	addConfigFlags(cmd, &a.opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the source to a file instead of stdout")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var snapshotPath string
	var raw bool
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Build the renderer and run it against sample data",
		Example: `  claude-statusline preview --layout single
  claude-statusline preview --snapshot session.json
  echo '{}' | claude-statusline preview --snapshot -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.opts.resolve(cmd)
			if err != nil {
				return err
			}
			source, err := generator.Generate(cfg)
			if err != nil {
				return err
			}

			snapshot := preview.Sample(cfg, a.now())
			if snapshotPath != "" {
				if snapshot, err = readSnapshot(cmd.InOrStdin(), snapshotPath); err != nil {
					return err
				}
			}

			out, err := a.previewer().Preview(cmd.Context(), source, snapshot)
			if err != nil {
				return err
			}
			if raw {
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Frame(out))
			return nil
		},
	}
	addConfigFlags(cmd, &a.opts)
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "session JSON to render instead of the sample (- for stdin)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the renderer output exactly, without a frame")
	return cmd
}

func readSnapshot(stdin io.Reader, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrPreview,
			"Cannot read snapshot "+path,
			"Pass a file containing Claude Code session JSON, or - for stdin")
	}
	return data, nil
}

func newInstallCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Build the renderer and point Claude Code at it",
		Long: `Generates the renderer for the current answers (plus any flags), builds it
into ~/.claude/statusline and sets statusLine in ~/.claude/settings.json.
The previous settings.json is kept as settings.json.backup.`,
		Example: `  claude-statusline install --yes
  claude-statusline install --yes --fields model,usedPct,contextBar --color monochrome`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.opts.resolve(cmd)
			if err != nil {
				return err
			}
			source, err := generator.Generate(cfg)
			if err != nil {
				return err
			}

			if !yes {
				if !a.interactive() {
					return errors.New(errors.ErrInput,
						"Refusing to install without confirmation",
						"Pass --yes to install non-interactively")
				}
				paths := install.DefaultPaths()
				ok, err := a.confirm(cmd.Context(), fmt.Sprintf("Write to %s and patch settings.json?", paths.Dir))
				if err != nil {
					return cancelled(cmd.OutOrStdout(), err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing written.")
					return nil
				}
			}
			return a.install(cmd.Context(), cmd.OutOrStdout(), cfg, source)
		},
	}
	addConfigFlags(cmd, &a.opts)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newFieldsCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields a status line can show",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			rateLimits := all || a.probe.HasOAuthCredentials(cmd.Context())

			width := 0
			for _, f := range catalog.All() {
				width = max(width, len(f.ID))
			}
			for _, f := range catalog.Available(rateLimits) {
				var notes []string
				if f.Default {
					notes = append(notes, "default")
				}
				if f.RateLimited {
					notes = append(notes, "needs OAuth")
				}
				line := fmt.Sprintf("%-*s  %s", width, f.ID, f.Label)
				if len(notes) > 0 {
					line += "  " + ui.Muted("("+strings.Join(notes, ", ")+")")
				}
				fmt.Fprintln(out, line)
			}
			if !rateLimits {
				fmt.Fprintln(out, ui.Muted("Rate limit fields hidden: no OAuth credentials found (use --all to list them)"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include fields that need OAuth credentials")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "claude-statusline %s\n", version.Version)
			return err
		},
	}
}
