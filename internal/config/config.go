package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DateLayout is the layout used for every configured calendar date.
const DateLayout = "2006-01-02"

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Filters  FiltersConfig  `yaml:"filters" mapstructure:"filters"`
	FirstJob FirstJobConfig `yaml:"first_job" mapstructure:"first_job"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig selects where the tables are loaded from.
type SourceConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // file | sqlite | postgres
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// DataConfig locates the input files.
type DataConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	Encoding     string `yaml:"encoding" mapstructure:"encoding"`
	Delimiter    string `yaml:"delimiter" mapstructure:"delimiter"`
	GeoJSON      string `yaml:"geojson" mapstructure:"geojson"`
	ExcludedYear string `yaml:"excluded_year" mapstructure:"excluded_year"`
}

// FiltersConfig configures the filter cascade defaults.
type FiltersConfig struct {
	PreferredUniversity string `yaml:"preferred_university" mapstructure:"preferred_university"`
}

// FirstJobConfig fixes the reference dates of the time-to-first-job page.
type FirstJobConfig struct {
	CohortYear     string `yaml:"cohort_year" mapstructure:"cohort_year"`
	GraduationDate string `yaml:"graduation_date" mapstructure:"graduation_date"`
	SnapshotDate   string `yaml:"snapshot_date" mapstructure:"snapshot_date"`
	MaxMonths      int    `yaml:"max_months" mapstructure:"max_months"`
}

// Dates parses the graduation and snapshot dates.
func (c FirstJobConfig) Dates() (graduation, snapshot time.Time, err error) {
	graduation, err = time.Parse(DateLayout, c.GraduationDate)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrap(err, "config: parse first_job.graduation_date")
	}
	snapshot, err = time.Parse(DateLayout, c.SnapshotDate)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrap(err, "config: parse first_job.snapshot_date")
	}
	return graduation, snapshot, nil
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RefreshIntervalSecs int      `yaml:"refresh_interval_secs" mapstructure:"refresh_interval_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EMPLEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.driver", "file")
	v.SetDefault("data.dir", "db")
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("data.geojson", "db/cr_provincias.geojson")
	v.SetDefault("data.excluded_year", "2025")
	v.SetDefault("filters.preferred_university", "Universidad Latina")
	v.SetDefault("first_job.cohort_year", "2024")
	v.SetDefault("first_job.graduation_date", "2024-03-01")
	v.SetDefault("first_job.snapshot_date", "2025-04-01")
	v.SetDefault("first_job.max_months", 24)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.refresh_interval_secs", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes are
// "serve", "page" and "import".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve", "page":
	case "import":
		if c.Source.Driver == "file" {
			errs = append(errs, "source.driver must be sqlite or postgres to import")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Source.Driver {
	case "file":
		if c.Data.Dir == "" {
			errs = append(errs, "data.dir is required for the file driver")
		}
	case "sqlite", "postgres":
		if c.Source.DatabaseURL == "" {
			errs = append(errs, "source.database_url is required for the "+c.Source.Driver+" driver")
		}
	default:
		errs = append(errs, "source.driver must be one of file, sqlite, postgres")
	}

	if mode == "serve" && c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}
	if c.Server.RefreshIntervalSecs < 0 {
		errs = append(errs, "server.refresh_interval_secs must be >= 0")
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		errs = append(errs, "data.delimiter must be a single character")
	}
	if c.FirstJob.MaxMonths <= 0 {
		errs = append(errs, "first_job.max_months must be > 0")
	}
	if _, _, err := c.FirstJob.Dates(); err != nil {
		errs = append(errs, "first_job dates must use the YYYY-MM-DD layout")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
