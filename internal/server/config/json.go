package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/learninfinity/learninfinity/internal/flagx"
	"github.com/learninfinity/learninfinity/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON config files. Interval fields
// use timex.Duration so both "1h" strings and integer nanoseconds parse.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	AccrualInterval             timex.Duration `json:"accrual_interval"`
	InitialCredits              int64          `json:"initial_credits"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent flags mean no file is
// loaded; an unreadable or invalid file panics, matching flag parse errors.
// Zero values in the file keep the current (default) setting.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	}
	if c.AccrualInterval.Duration != 0 {
		config.AccrualInterval = time.Duration(c.AccrualInterval.Duration)
	}
	if c.InitialCredits != 0 {
		config.InitialCredits = c.InitialCredits
	}
}
