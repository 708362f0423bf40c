// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/macrokey/internal/humanoid"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Host() HostConfig
	Modes() []ModeConfig
	Validate() error

	// Engine wiring
	HumanoidConfig() humanoid.Config
	PolicyTable() (*humanoid.PolicyTable, error)

	// Host Setters
	SetHostEffector(string)
	SetHostWait(string)
	SetHostTickInterval(d time.Duration)
	SetHostStartMode(string)

	// Engine Setters
	SetEngineSeed(uint32)
}

// Config holds the entire application configuration.
// Sections are exported so viper can decode into them; callers read them
// through the Interface getters.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	HostCfg   HostConfig   `mapstructure:"host" yaml:"host"`
	ModesCfg  []ModeConfig `mapstructure:"modes" yaml:"modes"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Host() HostConfig     { return c.HostCfg }
func (c *Config) Modes() []ModeConfig  { return c.ModesCfg }

// --- Interface Method Implementations (Setters) ---

// Host Setters
func (c *Config) SetHostEffector(e string)            { c.HostCfg.Effector = e }
func (c *Config) SetHostWait(w string)                { c.HostCfg.Wait = w }
func (c *Config) SetHostTickInterval(d time.Duration) { c.HostCfg.TickInterval = d }
func (c *Config) SetHostStartMode(m string)           { c.HostCfg.StartMode = m }

// Engine Setters
func (c *Config) SetEngineSeed(s uint32) { c.EngineCfg.Seed = s }

// LoggerConfig holds all the configuration for the logger.
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

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Supported host effectors.
const (
	EffectorLog    = "log"
	EffectorUinput = "uinput"
)

// Supported wait strategies.
const (
	WaitSpin  = "spin"
	WaitSleep = "sleep"
)

// HostConfig configures the process that owns the engine: scan cadence,
// how keys reach the OS, and how bounded waits are performed.
type HostConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
	Effector     string        `mapstructure:"effector" yaml:"effector"`
	Wait         string        `mapstructure:"wait" yaml:"wait"`
	StartMode    string        `mapstructure:"start_mode" yaml:"start_mode"`
	Uinput       UinputConfig  `mapstructure:"uinput" yaml:"uinput"`
	// ErrorLogRate limits effector failure logs, events per second.
	ErrorLogRate  float64 `mapstructure:"error_log_rate" yaml:"error_log_rate"`
	ErrorLogBurst int     `mapstructure:"error_log_burst" yaml:"error_log_burst"`
}

// UinputConfig describes the Linux virtual keyboard.
type UinputConfig struct {
	Device    string `mapstructure:"device" yaml:"device"`
	Name      string `mapstructure:"name" yaml:"name"`
	VendorID  uint16 `mapstructure:"vendor_id" yaml:"vendor_id"`
	ProductID uint16 `mapstructure:"product_id" yaml:"product_id"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "macrokey")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Engine and modes --
	setHumanoidDefaults(v)

	// -- Host --
	v.SetDefault("host.tick_interval", "1ms")
	v.SetDefault("host.effector", EffectorLog)
	v.SetDefault("host.wait", WaitSpin)
	v.SetDefault("host.start_mode", "")
	v.SetDefault("host.uinput.device", "/dev/uinput")
	v.SetDefault("host.uinput.name", "macrokey virtual keyboard")
	v.SetDefault("host.uinput.vendor_id", 0x1209)
	v.SetDefault("host.uinput.product_id", 0x0001)
	v.SetDefault("host.error_log_rate", 1.0)
	v.SetDefault("host.error_log_burst", 5)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The device node differs between distributions and containers.
	v.BindEnv("host.uinput.device", "MACROKEY_UINPUT_DEVICE")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.LoggerCfg.Validate(); err != nil {
		return fmt.Errorf("logger configuration invalid: %w", err)
	}
	if err := c.EngineCfg.Validate(); err != nil {
		return fmt.Errorf("engine configuration invalid: %w", err)
	}
	if err := c.HostCfg.Validate(); err != nil {
		return fmt.Errorf("host configuration invalid: %w", err)
	}
	table, err := c.PolicyTable()
	if err != nil {
		return fmt.Errorf("modes configuration invalid: %w", err)
	}
	if c.HostCfg.StartMode != "" {
		if _, err := table.Mode(c.HostCfg.StartMode); err != nil {
			return fmt.Errorf("host.start_mode: %w", err)
		}
	}
	return nil
}

// Validate checks the logger settings.
func (l *LoggerConfig) Validate() error {
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level '%s' is not a valid log level", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("format must be 'console' or 'json', got '%s'", l.Format)
	}
	return nil
}

// Validate checks the host settings.
func (h *HostConfig) Validate() error {
	if h.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be a positive duration")
	}
	switch h.Effector {
	case EffectorLog, EffectorUinput:
	default:
		return fmt.Errorf("effector must be '%s' or '%s', got '%s'", EffectorLog, EffectorUinput, h.Effector)
	}
	switch h.Wait {
	case WaitSpin, WaitSleep:
	default:
		return fmt.Errorf("wait must be '%s' or '%s', got '%s'", WaitSpin, WaitSleep, h.Wait)
	}
	if h.Effector == EffectorUinput && h.Uinput.Device == "" {
		return fmt.Errorf("uinput.device is required when effector is '%s'", EffectorUinput)
	}
	if h.ErrorLogRate <= 0 || h.ErrorLogBurst <= 0 {
		return fmt.Errorf("error_log_rate and error_log_burst must be positive")
	}
	return nil
}
