package cli

import (
	"strings"

	"github.com/himattm/claude-statusline/internal/config"
	"github.com/spf13/cobra"
)

// options holds global flags and the config overrides shared by
// generate, preview and install
type options struct {
	configPath string
	debug      bool
	logFile    string

	fields []string
	layout string
	color  string
	yellow int
	red    int
}

func (o *options) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

// addConfigFlags registers the flags that override the saved answers
func addConfigFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringSliceVar(&o.fields, "fields", nil, "fields to show, comma separated (see 'claude-statusline fields')")
	cmd.Flags().StringVar(&o.layout, "layout", "", "single or multi")
	cmd.Flags().StringVar(&o.color, "color", "", "traffic-light, monochrome or custom")
	cmd.Flags().IntVar(&o.yellow, "yellow", config.DefaultYellow, "yellow threshold % (implies --color custom)")
	cmd.Flags().IntVar(&o.red, "red", config.DefaultRed, "red threshold % (implies --color custom)")
}

// resolve loads the saved answers and applies any flags the user set.
// Threshold flags switch the style to custom unless --color was given;
// the traffic-light style always uses the default thresholds.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	saved, err := config.Load(o.configFile())
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	fields := saved.Fields
	if flags.Changed("fields") {
		fields = config.ParseFields(o.fields)
	}
	layout := saved.Layout
	if flags.Changed("layout") {
		layout = config.Layout(strings.TrimSpace(o.layout))
	}
	style := saved.ColorStyle
	thresholds := saved.Thresholds
	if flags.Changed("yellow") || flags.Changed("red") {
		style = config.ColorCustom
		if flags.Changed("yellow") {
			thresholds.Yellow = o.yellow
		}
		if flags.Changed("red") {
			thresholds.Red = o.red
		}
	}
	if flags.Changed("color") {
		style = config.ColorStyle(strings.TrimSpace(o.color))
	}
	if style == config.ColorTrafficLight {
		thresholds = config.Thresholds{Yellow: config.DefaultYellow, Red: config.DefaultRed}
	}

	return config.New(fields, layout, style, thresholds)
}

// firstLine returns the headline of a structured error
func firstLine(err error) string {
	msg := strings.TrimPrefix(err.Error(), "✗ ")
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
