package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/rxtech-lab/argo-crossover/pkg/utils"
	"gopkg.in/yaml.v2"
)

// IndicatorConfig selects one moving average.
type IndicatorConfig struct {
	Type   types.IndicatorType `yaml:"type" json:"type" jsonschema:"title=Type,description=Moving average kind,required" validate:"required,oneof=sma ema"`
	Period int                 `yaml:"period" json:"period" jsonschema:"title=Period,description=SMA window or EMA span in bars,minimum=1,required" validate:"gt=0"`
}

func (c IndicatorConfig) String() string {
	return types.SeriesName(c.Type, c.Period)
}

// CrossoverConfig is one parameter set of the crossover strategy. Every config file holds one.
type CrossoverConfig struct {
	Fast     IndicatorConfig `yaml:"fast" json:"fast" jsonschema:"title=Fast,description=The fast moving average,required"`
	Slow     IndicatorConfig `yaml:"slow" json:"slow" jsonschema:"title=Slow,description=The slow moving average,required"`
	Lookback int             `yaml:"lookback" json:"lookback" jsonschema:"title=Lookback,description=Consecutive bars the ordering must hold before a signal fires. 1 disables confirmation,minimum=1,default=1" validate:"gte=1"`
}

// UnmarshalYAML defaults an omitted lookback to 1.
func (c *CrossoverConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		Fast     IndicatorConfig `yaml:"fast"`
		Slow     IndicatorConfig `yaml:"slow"`
		Lookback *int            `yaml:"lookback"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Fast = config.Fast
	c.Slow = config.Slow
	c.Lookback = 1

	if config.Lookback != nil {
		c.Lookback = *config.Lookback
	}

	return nil
}

// Validate validates the CrossoverConfig struct.
func (c *CrossoverConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid crossover config", err)
	}

	return nil
}

// Describe returns a label such as "sma(20)_x_sma(50)".
func (c CrossoverConfig) Describe() string {
	label := fmt.Sprintf("%s_x_%s", c.Fast, c.Slow)
	if c.Lookback > 1 {
		label = fmt.Sprintf("%s_k%d", label, c.Lookback)
	}

	return label
}

// ParseCrossoverConfig parses and validates a YAML crossover config.
func ParseCrossoverConfig(content string) (CrossoverConfig, error) {
	var config CrossoverConfig
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return CrossoverConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse crossover config", err)
	}

	if err := config.Validate(); err != nil {
		return CrossoverConfig{}, err
	}

	return config, nil
}

// GenerateSchemaJSON generates a JSON schema string for CrossoverConfig.
func (c *CrossoverConfig) GenerateSchemaJSON() (string, error) {
	return utils.GetSchemaFromConfig(c, utils.SchemaOptions{
		Title:       "crossover-strategy-config",
		Description: "Parameters of one moving-average crossover backtest",
		Mapper:      schemaMapper,
	})
}

func indicatorTypes() []any {
	return types.AllIndicatorTypes
}
