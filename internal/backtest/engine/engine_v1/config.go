package engine

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/rxtech-lab/argo-crossover/pkg/utils"
)

type BacktestEngineV1Config struct {
	InitialInvestment float64                    `yaml:"initial_investment" json:"initial_investment" jsonschema:"title=Initial Investment,description=Starting cash for every run,minimum=0" validate:"gt=0"`
	Sizing            simulator.SizingPolicy     `yaml:"sizing" json:"sizing" jsonschema:"title=Sizing,description=How much cash a buy signal spends" validate:"required,oneof=all_in fractional"`
	SizingPercentage  float64                    `yaml:"sizing_percentage" json:"sizing_percentage" jsonschema:"title=Sizing Percentage,description=Percentage of current cash spent per buy when sizing is fractional,minimum=0,maximum=100" validate:"gte=0,lte=100"`
	Symbol            optional.Option[string]    `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Only replay bars for this symbol. Required when a data file holds several symbols"`
	StartTime         optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime           optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	EngineVersion     string                     `yaml:"engine_version" json:"engine_version" jsonschema:"title=Engine Version,description=Version or semver constraint the running engine must satisfy"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialInvestment float64                `yaml:"initial_investment"`
		Sizing            simulator.SizingPolicy `yaml:"sizing"`
		SizingPercentage  float64                `yaml:"sizing_percentage"`
		Symbol            *string                `yaml:"symbol"`
		StartTime         *time.Time             `yaml:"start_time"`
		EndTime           *time.Time             `yaml:"end_time"`
		EngineVersion     string                 `yaml:"engine_version"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialInvestment = config.InitialInvestment
	c.Sizing = config.Sizing
	c.SizingPercentage = config.SizingPercentage
	c.EngineVersion = config.EngineVersion
	c.Symbol = optional.None[string]()
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.Symbol != nil && *config.Symbol != "" {
		c.Symbol = optional.Some(*config.Symbol)
	}

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// Validate checks field ranges and the cross-field rules the struct tags cannot express.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest engine config", err)
	}

	if c.Sizing == simulator.SizingPolicyFractional && c.SizingPercentage <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "sizing_percentage must be in (0, 100] when sizing is fractional")
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time is before start_time")
	}

	return nil
}

// SimulatorConfig builds the replay parameters shared by every run.
func (c *BacktestEngineV1Config) SimulatorConfig() (simulator.Config, error) {
	sizing, err := simulator.GetSizingHandler(c.Sizing, c.SizingPercentage)
	if err != nil {
		return simulator.Config{}, err
	}

	return simulator.Config{
		InitialInvestment: c.InitialInvestment,
		Sizing:            sizing,
	}, nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	return utils.ReflectSchema(c, engineSchemaOptions), nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	return utils.GetSchemaFromConfig(c, engineSchemaOptions)
}

var engineSchemaOptions = utils.SchemaOptions{
	Title:       "backtest-engine-v1-config",
	Description: "Configuration schema for BacktestEngineV1",
	Mapper:      schemaMapper,
}

func schemaMapper(t reflect.Type) *jsonschema.Schema {
	switch {
	case t.String() == "optional.Option[time.Time]":
		return &jsonschema.Schema{
			Type:   "string",
			Format: "date-time",
		}
	case t.String() == "optional.Option[string]":
		return &jsonschema.Schema{
			Type: "string",
		}
	case strings.Contains(t.String(), "simulator.SizingPolicy"):
		return &jsonschema.Schema{
			Type: "string",
			Enum: simulator.AllSizingPolicies,
		}
	case strings.Contains(t.String(), "types.IndicatorType"):
		return &jsonschema.Schema{
			Type: "string",
			Enum: indicatorTypes(),
		}
	}

	return nil
}

func TestConfig(startTime time.Time, endTime time.Time, sizing simulator.SizingPolicy) BacktestEngineV1Config {
	percentage := 0.0
	if sizing == simulator.SizingPolicyFractional {
		percentage = 50
	}

	return BacktestEngineV1Config{
		InitialInvestment: 10000,
		Sizing:            sizing,
		SizingPercentage:  percentage,
		Symbol:            optional.None[string](),
		StartTime:         optional.Some(startTime),
		EndTime:           optional.Some(endTime),
		EngineVersion:     "",
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		InitialInvestment: 0,
		Sizing:            simulator.SizingPolicyAllIn,
		SizingPercentage:  0,
		Symbol:            optional.None[string](),
		StartTime:         optional.None[time.Time](),
		EndTime:           optional.None[time.Time](),
		EngineVersion:     "",
	}
}
