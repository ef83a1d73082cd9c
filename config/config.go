// ABOUTME: Configuration loader for restoration runs
// ABOUTME: Loads settings from environment variables, an optional .env file and a YAML run file

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/services"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is read when no --env-file is given. It is optional.
const DefaultEnvFile = ".env"

type Config struct {
	// Strategy
	Budget        float64 // dollars per day
	Delay         int     // days before repair starts
	SortType      models.SortType
	SortOrder     models.SortOrder
	SortUpdate    bool
	RestoreMethod models.RestoreMethod

	// Model switches
	AllOrNothing      bool // ceiling on initial damage (default: true)
	PartialCredit     bool // failure fractions from raw damaged quantities (default: false)
	TransSinglePath   bool // any transmission damage takes the location's path down (default: true)
	TransRegionalPath bool // any transmission damage takes the region's paths down (default: false)
	UnitCosts         models.UnitCosts

	// Loop guards
	MaxDays        int
	StagnationDays int

	// Runtime
	Debug     bool
	Workers   int    // sweep concurrency, default GOMAXPROCS
	StoreDSN  string // optional SQL DSN for run persistence
	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	opts := services.DefaultSimulationOptions()
	return &Config{
		Budget:            opts.Budget,
		Delay:             opts.Delay,
		SortType:          opts.SortType,
		SortOrder:         opts.SortOrder,
		SortUpdate:        opts.SortUpdate,
		RestoreMethod:     opts.RestoreMethod,
		AllOrNothing:      opts.AllOrNothing,
		PartialCredit:     opts.PartialCredit,
		TransSinglePath:   opts.SinglePath,
		TransRegionalPath: opts.RegionalPath,
		UnitCosts:         opts.UnitCosts,
		MaxDays:           opts.MaxDays,
		StagnationDays:    opts.StagnationDays,
		Workers:           runtime.GOMAXPROCS(0),
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadEnvFile loads KEY=value pairs into the environment without overriding
// variables that are already set. An empty path reads DefaultEnvFile if it exists.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	def := Default()
	cfg := &Config{
		Budget:        getEnvFloat("RESTORE_BUDGET", def.Budget),
		Delay:         getEnvInt("RESTORE_DELAY", def.Delay),
		SortUpdate:    getEnvBool("RESTORE_SORT_UPDATE", def.SortUpdate),
		SortType:      def.SortType,
		SortOrder:     def.SortOrder,
		RestoreMethod: def.RestoreMethod,

		AllOrNothing:      getEnvBool("RESTORE_ALL_OR_NOTHING", def.AllOrNothing),
		PartialCredit:     getEnvBool("RESTORE_PARTIAL_CREDIT", def.PartialCredit),
		TransSinglePath:   getEnvBool("RESTORE_TRANS_SINGLE_PATH", def.TransSinglePath),
		TransRegionalPath: getEnvBool("RESTORE_TRANS_REGIONAL_PATH", def.TransRegionalPath),

		MaxDays:        getEnvInt("RESTORE_MAX_DAYS", def.MaxDays),
		StagnationDays: getEnvInt("RESTORE_STAGNATION_DAYS", def.StagnationDays),

		Debug:     getEnvBool("RESTORE_DEBUG", false),
		Workers:   getEnvInt("RESTORE_WORKERS", def.Workers),
		StoreDSN:  os.Getenv("RESTORE_STORE_DSN"),
		LogLevel:  getEnv("LOG_LEVEL", def.LogLevel),
		LogFormat: getEnv("LOG_FORMAT", def.LogFormat),
	}
	for _, class := range models.RepairOrder {
		key := "RESTORE_COST_" + strings.ToUpper(class.String())
		cfg.UnitCosts[class] = getEnvFloat(key, def.UnitCosts[class])
	}

	var errs []error
	if v := os.Getenv("RESTORE_SORT_TYPE"); v != "" {
		st, err := models.ParseSortType(v)
		errs = append(errs, err)
		cfg.SortType = st
	}
	if v := os.Getenv("RESTORE_SORT_ORDER"); v != "" {
		so, err := models.ParseSortOrder(v)
		errs = append(errs, err)
		cfg.SortOrder = so
	}
	if v := os.Getenv("RESTORE_METHOD"); v != "" {
		m, err := models.ParseRestoreMethod(v)
		errs = append(errs, err)
		cfg.RestoreMethod = m
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fileConfig is the YAML run file. Pointers distinguish unset keys from zero values.
type fileConfig struct {
	Budget            *float64           `yaml:"budget"`
	Delay             *int               `yaml:"delay"`
	SortType          *string            `yaml:"sort_type"`
	SortOrder         *string            `yaml:"sort_order"`
	SortUpdate        *bool              `yaml:"sort_update"`
	RestoreMethod     *string            `yaml:"restore_method"`
	Debug             *bool              `yaml:"debug"`
	AllOrNothing      *bool              `yaml:"all_or_nothing"`
	PartialCredit     *bool              `yaml:"partial_credit"`
	TransSinglePath   *bool              `yaml:"transmission_single_path"`
	TransRegionalPath *bool              `yaml:"transmission_regional_path"`
	MaxDays           *int               `yaml:"max_days"`
	StagnationDays    *int               `yaml:"stagnation_days"`
	UnitCosts         map[string]float64 `yaml:"unit_costs"`
	Workers           *int               `yaml:"workers"`
	StoreDSN          *string            `yaml:"store_dsn"`
}

// LoadFile overlays the keys set in a YAML run file onto the configuration
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return c.apply(fc)
}

func (c *Config) apply(fc fileConfig) error {
	setFloat(&c.Budget, fc.Budget)
	setInt(&c.Delay, fc.Delay)
	setBool(&c.SortUpdate, fc.SortUpdate)
	setBool(&c.Debug, fc.Debug)
	setBool(&c.AllOrNothing, fc.AllOrNothing)
	setBool(&c.PartialCredit, fc.PartialCredit)
	setBool(&c.TransSinglePath, fc.TransSinglePath)
	setBool(&c.TransRegionalPath, fc.TransRegionalPath)
	setInt(&c.MaxDays, fc.MaxDays)
	setInt(&c.StagnationDays, fc.StagnationDays)
	setInt(&c.Workers, fc.Workers)
	if fc.StoreDSN != nil {
		c.StoreDSN = *fc.StoreDSN
	}

	var errs []error
	if fc.SortType != nil {
		st, err := models.ParseSortType(*fc.SortType)
		errs = append(errs, err)
		c.SortType = st
	}
	if fc.SortOrder != nil {
		so, err := models.ParseSortOrder(*fc.SortOrder)
		errs = append(errs, err)
		c.SortOrder = so
	}
	if fc.RestoreMethod != nil {
		m, err := models.ParseRestoreMethod(*fc.RestoreMethod)
		errs = append(errs, err)
		c.RestoreMethod = m
	}
	for name, cost := range fc.UnitCosts {
		class, ok := parseClass(name)
		if !ok {
			errs = append(errs, &models.ValidationError{Field: "unit_costs", Reason: fmt.Sprintf("unknown asset class %q", name)})
			continue
		}
		c.UnitCosts[class] = cost
	}
	return errors.Join(errs...)
}

// Validate checks every numeric setting and returns all problems joined
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.SimulationOptions().Validate())
	if c.Workers < 1 {
		errs = append(errs, &models.ValidationError{Field: "workers", Reason: fmt.Sprintf("must be at least 1, got %d", c.Workers)})
	}
	return errors.Join(errs...)
}

// SimulationOptions converts the configuration into simulator options
func (c *Config) SimulationOptions() services.SimulationOptions {
	return services.SimulationOptions{
		Budget:         c.Budget,
		Delay:          c.Delay,
		SortType:       c.SortType,
		SortOrder:      c.SortOrder,
		SortUpdate:     c.SortUpdate,
		RestoreMethod:  c.RestoreMethod,
		UnitCosts:      c.UnitCosts,
		AllOrNothing:   c.AllOrNothing,
		PartialCredit:  c.PartialCredit,
		SinglePath:     c.TransSinglePath,
		RegionalPath:   c.TransRegionalPath,
		MaxDays:        c.MaxDays,
		StagnationDays: c.StagnationDays,
		Workers:        c.Workers,
	}
}

// EffectiveLogLevel returns debug when the debug switch is on
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

func parseClass(name string) (models.AssetClass, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, class := range models.RepairOrder {
		if class.String() == name {
			return class, true
		}
	}
	return 0, false
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
