package main

import (
	"log"
	"os"
	"path/filepath"

	engine "github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"gopkg.in/yaml.v2"
)

const (
	engineSchemaName   = "backtest-engine-v1-config.json"
	engineSampleName   = "backtest-engine-v1-config.yaml"
	strategySchemaName = "crossover-strategy-config.json"
	strategySampleName = "crossover-strategy-config.yaml"
)

// sampleEngineConfig mirrors the YAML keys of engine.BacktestEngineV1Config with optional fields left out.
type sampleEngineConfig struct {
	InitialInvestment float64                `yaml:"initial_investment"`
	Sizing            simulator.SizingPolicy `yaml:"sizing"`
	SizingPercentage  float64                `yaml:"sizing_percentage,omitempty"`
	EngineVersion     string                 `yaml:"engine_version,omitempty"`
}

func sampleStrategyConfig() engine.CrossoverConfig {
	return engine.CrossoverConfig{
		Fast:     engine.IndicatorConfig{Type: types.IndicatorTypeSMA, Period: 20},
		Slow:     engine.IndicatorConfig{Type: types.IndicatorTypeSMA, Period: 50},
		Lookback: 1,
	}
}

// generate writes both JSON schemas to dir and a sample of each config unless one already exists.
func generate(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	engineConfig := engine.EmptyConfig()

	engineSchema, err := engineConfig.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	strategyConfig := sampleStrategyConfig()

	strategySchema, err := strategyConfig.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, engineSchemaName), []byte(engineSchema), 0644); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, strategySchemaName), []byte(strategySchema), 0644); err != nil {
		return err
	}

	samples := []struct {
		name   string
		schema string
		value  any
	}{
		{
			name:   engineSampleName,
			schema: engineSchemaName,
			value: sampleEngineConfig{
				InitialInvestment: 10000,
				Sizing:            simulator.SizingPolicyAllIn,
				EngineVersion:     version.GetVersion(),
			},
		},
		{
			name:   strategySampleName,
			schema: strategySchemaName,
			value:  strategyConfig,
		},
	}

	for _, sample := range samples {
		path := filepath.Join(dir, sample.name)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}

		yamlBytes, err := yaml.Marshal(sample.value)
		if err != nil {
			return err
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+sample.schema+"\n"), yamlBytes...)

		if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
			return err
		}

		log.Printf("Sample config successfully generated at %s", path)
	}

	return nil
}

func main() {
	if err := generate("./config"); err != nil {
		log.Fatalf("Failed to generate config files: %v", err)
	}

	log.Printf("Schemas successfully generated in %s", "./config")
}
