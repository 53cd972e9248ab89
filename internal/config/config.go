// Package config loads a simulation request: the person, salary
// profile, economic factors and run options a calculator needs,
// mirroring the teacher's viper-based YAML configuration loader
// (internal/config/config.go's LoadConfiguration).
package config

import (
	"fmt"

	"github.com/finledger/pension-sim/internal/domain"
	"github.com/spf13/viper"
)

// LoggingConfig controls the zap logger the CLI builds (§A).
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`      // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig controls how results are rendered (§6).
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, json
}

// SimulationRequest is the full YAML configuration for one simulation
// run: the profile to evaluate, the country codes to run it against,
// and the ambient logging/output options (§3, §6, §A).
type SimulationRequest struct {
	Person          domain.Person          `yaml:"person"`
	Salary          domain.SalaryProfile   `yaml:"salary"`
	Economics       domain.EconomicFactors `yaml:"economics"`
	CountryCodes    []string               `yaml:"countryCodes"`
	DisplayCurrency string                 `yaml:"displayCurrency,omitempty"`
	Logging         LoggingConfig          `yaml:"logging,omitempty"`
	Output          OutputConfig           `yaml:"output,omitempty"`
}

// LoadSimulationRequest reads a YAML-formatted SimulationRequest from
// configPath (teacher's LoadConfiguration shape).
func LoadSimulationRequest(configPath string) (*SimulationRequest, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var request SimulationRequest
	if err := v.Unmarshal(&request); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &request, nil
}
