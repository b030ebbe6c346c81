package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/san-kum/sixdof/internal/joint"
)

// AppConfig holds settings for the command line tool.
type AppConfig struct {
	Logger  LoggerConfig `mapstructure:"logger" yaml:"logger"`
	DataDir string       `mapstructure:"data_dir" yaml:"data_dir"`
	Solver  SolverConfig `mapstructure:"solver" yaml:"solver"`
}

type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names a terminal color per log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SolverConfig carries the global solver defaults used by the scenarios.
type SolverConfig struct {
	FPS        float64 `mapstructure:"fps" yaml:"fps"`
	ERP        float64 `mapstructure:"erp" yaml:"erp"`
	CFM        float64 `mapstructure:"cfm" yaml:"cfm"`
	Iterations int     `mapstructure:"iterations" yaml:"iterations"`
	Workers    int     `mapstructure:"workers" yaml:"workers"`
}

func (s SolverConfig) Params() joint.SolverParams {
	return joint.SolverParams{FPS: s.FPS, ERP: s.ERP, CFM: s.CFM}
}

// Dt is the timestep implied by FPS.
func (s SolverConfig) Dt() float64 {
	return 1 / s.FPS
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "sixdof")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("data_dir", "data/runs")

	v.SetDefault("solver.fps", 60.0)
	v.SetDefault("solver.erp", DefaultStopERP)
	v.SetDefault("solver.cfm", 0.0)
	v.SetDefault("solver.iterations", 20)
	v.SetDefault("solver.workers", 0)
}

// NewViper returns a viper instance with defaults and SIXDOF_ environment
// overrides, e.g. SIXDOF_SOLVER_FPS.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("SIXDOF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadApp reads an optional config file. An empty path searches for
// sixdof.yaml in the working directory and tolerates its absence.
func LoadApp(v *viper.Viper, path string) (*AppConfig, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sixdof")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewAppConfigFromViper(v)
}

func NewAppConfigFromViper(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func DefaultAppConfig() *AppConfig {
	v := viper.New()
	SetDefaults(v)
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

func (c *AppConfig) Validate() error {
	if c.Solver.FPS <= 0 {
		return fmt.Errorf("solver.fps must be positive, got %v", c.Solver.FPS)
	}
	if c.Solver.ERP < 0 || c.Solver.ERP > 1 {
		return fmt.Errorf("solver.erp must be within [0, 1], got %v", c.Solver.ERP)
	}
	if c.Solver.Iterations <= 0 {
		return fmt.Errorf("solver.iterations must be positive, got %d", c.Solver.Iterations)
	}
	return nil
}
