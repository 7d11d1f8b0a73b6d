package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName names the config, data and env namespaces
const AppName = "savedplaces"

// Report formats
const (
	FormatCSV      = "csv"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
)

// Config holds the full application configuration
type Config struct {
	Maps    MapsConfig    `yaml:"maps" mapstructure:"maps"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Harvest HarvestConfig `yaml:"harvest" mapstructure:"harvest"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Summary SummaryConfig `yaml:"summary" mapstructure:"summary"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MapsConfig holds Place Details API settings
type MapsConfig struct {
	APIKey      string   `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string   `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Fields      []string `yaml:"fields" mapstructure:"fields"`
	Language    string   `yaml:"language" mapstructure:"language"`
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// ResolveConfig configures the resolve stage
type ResolveConfig struct {
	Input        string        `yaml:"input" mapstructure:"input"`
	Delay        time.Duration `yaml:"delay" mapstructure:"delay"`
	SkipFirstRow bool          `yaml:"skip_first_row" mapstructure:"skip_first_row"`
}

// HarvestConfig configures the website fetches of the harvest stage
type HarvestConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ExportConfig configures the contact report
type ExportConfig struct {
	Format   string   `yaml:"format" mapstructure:"format"`
	Output   string   `yaml:"output" mapstructure:"output"`
	Echo     bool     `yaml:"echo" mapstructure:"echo"`
	Sort     string   `yaml:"sort" mapstructure:"sort"`
	Filter   bool     `yaml:"filter" mapstructure:"filter"`
	Denylist []string `yaml:"denylist" mapstructure:"denylist"`
}

// SummaryConfig configures how run summaries are printed
type SummaryConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultDenylist holds placeholder and platform-internal email domains
var DefaultDenylist = []string{
	"example.com",
	"domain.com",
	"yourdomain.com",
	"email.com",
	"sentry.io",
	"wixpress.com",
	"sentry-next.wixpress.com",
}

// Binding ties a config key to a command-line flag
type Binding struct {
	Key  string
	Flag *pflag.Flag
}

// Load reads configuration from file, environment and the bound flags.
// configFile may be empty, in which case config.yaml is looked up but optional
func Load(configFile string, bindings ...Binding) (*Config, error) {
	v := viper.New()

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
	}

	// Environment
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("maps.api_key", "SAVEDPLACES_MAPS_API_KEY", "GOOGLE_MAPS_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	setDefaults(v)

	for _, b := range bindings {
		if b.Flag == nil {
			continue
		}
		if err := v.BindPFlag(b.Key, b.Flag); err != nil {
			return nil, eris.Wrapf(err, "config: bind flag %s", b.Flag.Name)
		}
	}

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("maps.base_url", "https://maps.googleapis.com")
	v.SetDefault("maps.timeout_secs", 30)
	v.SetDefault("maps.fields", []string{})
	v.SetDefault("maps.language", "")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "")
	v.SetDefault("resolve.input", filepath.Join("Takeout", "Saved", "Want to go.csv"))
	v.SetDefault("resolve.delay", time.Second)
	v.SetDefault("resolve.skip_first_row", true)
	v.SetDefault("harvest.timeout_secs", 60)
	v.SetDefault("harvest.user_agent", "")
	v.SetDefault("harvest.max_body_bytes", 5<<20)
	v.SetDefault("export.format", FormatCSV)
	v.SetDefault("export.output", "")
	v.SetDefault("export.echo", false)
	v.SetDefault("export.sort", "key")
	v.SetDefault("export.filter", true)
	v.SetDefault("export.denylist", DefaultDenylist)
	v.SetDefault("summary.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks enumerated settings so bad values fail before any work starts
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store.Driver) {
	case "file", "sqlite":
	default:
		return eris.Errorf("config: invalid store.driver %q (must be 'file' or 'sqlite')", c.Store.Driver)
	}

	switch strings.ToLower(c.Export.Format) {
	case FormatCSV, FormatTable, FormatMarkdown:
	default:
		return eris.Errorf("config: invalid export.format %q (must be 'csv', 'table' or 'markdown')", c.Export.Format)
	}

	switch strings.ToLower(c.Export.Sort) {
	case "key", "name", "emails":
	default:
		return eris.Errorf("config: invalid export.sort %q (must be 'key', 'name' or 'emails')", c.Export.Sort)
	}

	switch strings.ToLower(c.Summary.Format) {
	case "text", "json", "yaml":
	default:
		return eris.Errorf("config: invalid summary.format %q (must be 'text', 'json' or 'yaml')", c.Summary.Format)
	}

	if c.Resolve.Delay < 0 {
		return eris.Errorf("config: resolve.delay must not be negative, got %s", c.Resolve.Delay)
	}

	return nil
}

// StorePath returns the configured store path, or the XDG data default for the driver.
// On Linux the defaults are ~/.local/share/savedplaces/places and
// ~/.local/share/savedplaces/places.db
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if strings.EqualFold(c.Store.Driver, "sqlite") {
		return filepath.Join(xdg.DataHome, AppName, "places.db")
	}
	return filepath.Join(xdg.DataHome, AppName, "places")
}

// OutputPath returns the configured report path, or contacts.<ext> for the format
func (c *Config) OutputPath() string {
	if c.Export.Output != "" {
		return c.Export.Output
	}
	switch strings.ToLower(c.Export.Format) {
	case FormatTable:
		return "contacts.txt"
	case FormatMarkdown:
		return "contacts.md"
	default:
		return "contacts.csv"
	}
}

// MapsTimeout returns the API request timeout
func (c *Config) MapsTimeout() time.Duration {
	return time.Duration(c.Maps.TimeoutSecs) * time.Second
}

// HarvestTimeout returns the website fetch timeout
func (c *Config) HarvestTimeout() time.Duration {
	return time.Duration(c.Harvest.TimeoutSecs) * time.Second
}
