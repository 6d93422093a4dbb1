// Package wizard asks the setup questions interactively.
package wizard

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = stderrors.New("cancelled")

// answers holds raw form values until they are validated into a Config
type answers struct {
	fields []string
	layout string
	color  string
	yellow string
	red    string
}

func answersFrom(cfg config.Config, rateLimits bool) answers {
	a := answers{
		layout: string(cfg.Layout),
		color:  string(cfg.ColorStyle),
		yellow: strconv.Itoa(cfg.Thresholds.Yellow),
		red:    strconv.Itoa(cfg.Thresholds.Red),
	}
	for _, id := range cfg.Fields {
		if f, ok := catalog.Lookup(id); ok && (rateLimits || !f.RateLimited) {
			a.fields = append(a.fields, string(id))
		}
	}
	return a
}

func (a answers) config() (config.Config, error) {
	thresholds := config.Thresholds{Yellow: config.DefaultYellow, Red: config.DefaultRed}
	if config.ColorStyle(a.color) == config.ColorCustom {
		yellow, err := strconv.Atoi(strings.TrimSpace(a.yellow))
		if err != nil {
			return config.Config{}, errors.WrapWithCode(err, errors.ErrInput, "Invalid yellow threshold", "Enter a whole number from 1 to 99")
		}
		red, err := strconv.Atoi(strings.TrimSpace(a.red))
		if err != nil {
			return config.Config{}, errors.WrapWithCode(err, errors.ErrInput, "Invalid red threshold", "Enter a whole number up to 100")
		}
		thresholds = config.Thresholds{Yellow: yellow, Red: red}
	}

	ids := make([]catalog.ID, len(a.fields))
	for i, f := range a.fields {
		ids[i] = catalog.ID(f)
	}
	return config.New(ids, config.Layout(a.layout), config.ColorStyle(a.color), thresholds)
}

// ValidateYellow accepts 1-99
func ValidateYellow(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 99 {
		return fmt.Errorf("enter 1-99")
	}
	return nil
}

// ValidateRed accepts yellow+1 up to 100
func ValidateRed(yellow, s string) error {
	y, err := strconv.Atoi(strings.TrimSpace(yellow))
	if err != nil {
		y = 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= y || n > 100 {
		return fmt.Errorf("enter %d-100", y+1)
	}
	return nil
}

func validateFields(selected []string) error {
	if len(selected) == 0 {
		return fmt.Errorf("select at least one field")
	}
	return nil
}

// Ask runs the setup form starting from start and returns the validated
// choices. Rate limit fields are only offered when rateLimits is set.
func Ask(ctx context.Context, start config.Config, rateLimits bool) (config.Config, error) {
	a := answersFrom(start, rateLimits)
	if err := form(&a, rateLimits).RunWithContext(ctx); err != nil {
		return config.Config{}, inputError(err)
	}
	return a.config()
}

func form(a *answers, rateLimits bool) *huh.Form {
	var fieldOptions []huh.Option[string]
	for _, f := range catalog.Available(rateLimits) {
		fieldOptions = append(fieldOptions, huh.NewOption(f.Label, string(f.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which data fields do you want?").
				Description("space to toggle, enter to confirm").
				Options(fieldOptions...).
				Value(&a.fields).
				Validate(validateFields),
			huh.NewSelect[string]().
				Title("Layout?").
				Options(
					huh.NewOption("Multi-line  (model/tokens on line 1, bars on line 2)", string(config.LayoutMulti)),
					huh.NewOption("Single line (everything on one line)", string(config.LayoutSingle)),
				).
				Value(&a.layout),
			huh.NewSelect[string]().
				Title("Color style?").
				Options(
					huh.NewOption("Traffic-light  (green <50%, yellow 50-79%, red >=80%)", string(config.ColorTrafficLight)),
					huh.NewOption("Monochrome  (no colors)", string(config.ColorMonochrome)),
					huh.NewOption("Custom thresholds", string(config.ColorCustom)),
				).
				Value(&a.color),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Yellow threshold %").
				Description("usage at/above this shows yellow").
				Placeholder(strconv.Itoa(config.DefaultYellow)).
				Value(&a.yellow).
				Validate(ValidateYellow),
			huh.NewInput().
				Title("Red threshold %").
				Description("usage at/above this shows red").
				Placeholder(strconv.Itoa(config.DefaultRed)).
				Value(&a.red).
				Validate(func(s string) error { return ValidateRed(a.yellow, s) }),
		).WithHideFunc(func() bool {
			return config.ColorStyle(a.color) != config.ColorCustom
		}),
	)
}

// Confirm asks a yes/no question, defaulting to yes
func Confirm(ctx context.Context, title string) (bool, error) {
	ok := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return false, inputError(err)
	}
	return ok, nil
}

func inputError(err error) error {
	if stderrors.Is(err, huh.ErrUserAborted) {
		err = stderrors.Join(ErrCancelled, err)
		return errors.WrapWithCode(err, errors.ErrInput, "Cancelled", "Nothing was written")
	}
	return errors.WrapWithCode(err, errors.ErrInput,
		"Failed to get user input",
		"Check terminal compatibility or use 'claude-statusline install' with flags")
}
