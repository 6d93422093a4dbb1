package wizard

import (
	stderrors "errors"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/config"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYellow(t *testing.T) {
	for _, ok := range []string{"1", "50", "99", " 42 "} {
		assert.NoError(t, ValidateYellow(ok), ok)
	}
	for _, bad := range []string{"0", "100", "", "abc", "-5", "50.5"} {
		assert.Error(t, ValidateYellow(bad), bad)
	}
}

func TestValidateRed(t *testing.T) {
	tests := []struct {
		yellow string
		red    string
		ok     bool
	}{
		{"50", "80", true},
		{"50", "51", true},
		{"50", "100", true},
		{"50", "50", false},
		{"50", "49", false},
		{"50", "101", false},
		{"99", "100", true},
		{"50", "x", false},
	}

	for _, tt := range tests {
		err := ValidateRed(tt.yellow, tt.red)
		if tt.ok {
			assert.NoError(t, err, "%s/%s", tt.yellow, tt.red)
		} else {
			assert.Error(t, err, "%s/%s", tt.yellow, tt.red)
		}
	}

	assert.EqualError(t, ValidateRed("60", "10"), "enter 61-100")
}

func TestAnswersFromHidesRateLimitFields(t *testing.T) {
	cfg, err := config.New([]catalog.ID{catalog.Model, catalog.RateLimitBars}, config.LayoutMulti, config.ColorTrafficLight, config.Thresholds{Yellow: 50, Red: 80})
	require.NoError(t, err)

	assert.Equal(t, []string{"model"}, answersFrom(cfg, false).fields)
	assert.Equal(t, []string{"model", "rateLimitBars"}, answersFrom(cfg, true).fields)
}

func TestAnswersConfig(t *testing.T) {
	a := answers{fields: []string{"contextBar", "model"}, layout: "single", color: "custom", yellow: "33", red: "67"}

	cfg, err := a.config()
	require.NoError(t, err)
	assert.Equal(t, []catalog.ID{catalog.Model, catalog.ContextBar}, cfg.Fields)
	assert.Equal(t, config.Thresholds{Yellow: 33, Red: 67}, cfg.Thresholds)
}

func TestAnswersConfigIgnoresThresholdsUnlessCustom(t *testing.T) {
	a := answers{fields: []string{"model"}, layout: "multi", color: "traffic-light", yellow: "garbage", red: ""}

	cfg, err := a.config()
	require.NoError(t, err)
	assert.Equal(t, config.Thresholds{Yellow: 50, Red: 80}, cfg.Thresholds)
}

func TestAnswersConfigErrors(t *testing.T) {
	_, err := answers{layout: "multi", color: "monochrome"}.config()
	assert.True(t, stderrors.Is(err, config.ErrNoFields))

	_, err = answers{fields: []string{"model"}, layout: "multi", color: "custom", yellow: "x", red: "80"}.config()
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestFormOffersAvailableFields(t *testing.T) {
	a := answersFrom(config.Default(), false)
	assert.NotNil(t, form(&a, false))
	assert.NotNil(t, form(&a, true))

	assert.Error(t, validateFields(nil))
	assert.NoError(t, validateFields([]string{"model"}))
}

func TestInputError(t *testing.T) {
	err := inputError(huh.ErrUserAborted)
	assert.True(t, stderrors.Is(err, ErrCancelled))
	assert.True(t, errors.IsCode(err, errors.ErrInput))

	err = inputError(stderrors.New("tty gone"))
	assert.False(t, stderrors.Is(err, ErrCancelled))
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}
