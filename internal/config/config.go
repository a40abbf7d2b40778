// Package config defines the application configuration and includes functions
// for loading and parsing it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"github.com/rakhadi/utangku/internal/simulator"
	"github.com/rakhadi/utangku/pkg/constants"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Configuration holds all configuration for utangku.
type Configuration struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	Database   DatabaseConfig   `yaml:"database,omitempty"`
	Cache      CacheConfig      `yaml:"cache,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Simulator  SimulatorConfig  `yaml:"simulator,omitempty"`
	Projection ProjectionConfig `yaml:"projection,omitempty"`
	Debts      []DebtConfig     `yaml:"debts,omitempty"`
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address,omitempty"`
}

// DatabaseConfig holds postgres connection options. An empty host selects the
// in-memory store.
type DatabaseConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     string `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// CacheConfig holds Redis options. An empty address disables caching.
type CacheConfig struct {
	Address string `yaml:"address,omitempty"`
	TTLSec  int    `yaml:"ttlSec,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// FeeConfig holds the upfront fee parameters for one loan category.
type FeeConfig struct {
	ProvisionRate float64 `yaml:"provisionRate,omitempty"`
	AdminFee      float64 `yaml:"adminFee,omitempty"`
	InsuranceRate float64 `yaml:"insuranceRate,omitempty"`
	NotaryRate    float64 `yaml:"notaryRate,omitempty"`
}

// SimulatorConfig holds fee rates per loan category and the DSR threshold.
type SimulatorConfig struct {
	DSRThreshold float64   `yaml:"dsrThreshold,omitempty"`
	Mortgage     FeeConfig `yaml:"mortgage,omitempty"`
	Default      FeeConfig `yaml:"default,omitempty"`
}

// ProjectionConfig holds projector defaults.
type ProjectionConfig struct {
	Strategy             string  `yaml:"strategy,omitempty"`
	Mode                 string  `yaml:"mode,omitempty"`
	InvestmentReturnRate float64 `yaml:"investmentReturnRate,omitempty"`
}

// DebtConfig describes one debt in the configuration file, for CLI runs that
// operate without a database. Dates are YYYY-MM-DD strings.
type DebtConfig struct {
	Name               string               `yaml:"name,omitempty"`
	Category           string               `yaml:"category,omitempty"`
	OriginalPrincipal  float64              `yaml:"originalPrincipal,omitempty"`
	RemainingPrincipal float64              `yaml:"remainingPrincipal,omitempty"`
	InterestRate       float64              `yaml:"interestRate,omitempty"`
	StartDate          string               `yaml:"startDate,omitempty"`
	EndDate            string               `yaml:"endDate,omitempty"`
	DueDay             int                  `yaml:"dueDay,omitempty"`
	MonthlyPayment     float64              `yaml:"monthlyPayment,omitempty"`
	InterestStrategy   string               `yaml:"interestStrategy,omitempty"`
	StepUpSchedule     []domain.StepUpRange `yaml:"stepUpSchedule,omitempty"`
}

// DebtItems parses the configured debts into domain items. Dates that fail to
// parse abort the run; a configured debt is authored by hand and a typo there
// should be fixed, not silently skipped.
func (c *Configuration) DebtItems() ([]domain.DebtItem, error) {
	debts := make([]domain.DebtItem, 0, len(c.Debts))
	for i, dc := range c.Debts {
		startDate, err := time.Parse(constants.DateLayout, dc.StartDate)
		if err != nil {
			return nil, fmt.Errorf("debt %q: invalid startDate %q: %v", dc.Name, dc.StartDate, err)
		}
		endDate, err := time.Parse(constants.DateLayout, dc.EndDate)
		if err != nil {
			return nil, fmt.Errorf("debt %q: invalid endDate %q: %v", dc.Name, dc.EndDate, err)
		}
		remaining := dc.RemainingPrincipal
		if remaining <= 0 {
			remaining = dc.OriginalPrincipal
		}
		debts = append(debts, domain.DebtItem{
			ID:                 fmt.Sprintf("config-%d", i+1),
			Name:               dc.Name,
			Category:           domain.LoanCategory(dc.Category),
			OriginalPrincipal:  dc.OriginalPrincipal,
			RemainingPrincipal: remaining,
			InterestRate:       dc.InterestRate,
			StartDate:          startDate,
			EndDate:            endDate,
			DueDay:             dc.DueDay,
			MonthlyPayment:     dc.MonthlyPayment,
			InterestStrategy:   dc.InterestStrategy,
			StepUpSchedule:     dc.StepUpSchedule,
		})
	}
	return debts, nil
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Simulator.DSRThreshold == 0 {
		c.Simulator.DSRThreshold = constants.DefaultDSRThreshold
	}
	if c.Projection.Strategy == "" {
		c.Projection.Strategy = constants.StrategyAvalanche
	}
	if c.Projection.Mode == "" {
		c.Projection.Mode = constants.ModeLumpSum
	}
}

// FeesFor selects the fee parameters for a loan category; mortgages carry
// their own rates, everything else shares the default set.
func (c *Configuration) FeesFor(category domain.LoanCategory) simulator.FeeParams {
	fees := c.Simulator.Default
	if category == domain.CategoryMortgage {
		fees = c.Simulator.Mortgage
	}
	return simulator.FeeParams{
		ProvisionRate: fees.ProvisionRate,
		AdminFee:      fees.AdminFee,
		InsuranceRate: fees.InsuranceRate,
		NotaryRate:    fees.NotaryRate,
	}
}

// BuildLogger creates a zap logger based on configuration and a CLI override.
func BuildLogger(loggingConfig LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}
