package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Segments SegmentsConfig `yaml:"segments" mapstructure:"segments"`
	ARPU     ARPUConfig     `yaml:"arpu" mapstructure:"arpu"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the snapshot workbook and controls row filtering.
type InputConfig struct {
	SnapshotPath  string `yaml:"snapshot_path" mapstructure:"snapshot_path"`
	SheetName     string `yaml:"sheet_name" mapstructure:"sheet_name"`
	SheetIndex    int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	SkipRows      int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	ActiveOnly    bool   `yaml:"active_only" mapstructure:"active_only"`
	AllowListPath string `yaml:"allow_list_path" mapstructure:"allow_list_path"`
}

// CatalogConfig locates the product catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SegmentsConfig holds the bandwidth cluster breakpoints in Mbps.
type SegmentsConfig struct {
	ATMIoTMaxMbps     float64 `yaml:"atm_iot_max_mbps" mapstructure:"atm_iot_max_mbps"`
	UMKMMaxMbps       float64 `yaml:"umkm_max_mbps" mapstructure:"umkm_max_mbps"`
	CorporateMaxMbps  float64 `yaml:"corporate_max_mbps" mapstructure:"corporate_max_mbps"`
	EnterpriseCeiling float64 `yaml:"enterprise_ceiling_mbps" mapstructure:"enterprise_ceiling_mbps"`
}

// ARPUConfig holds the revenue category boundaries in rupiah.
type ARPUConfig struct {
	EntryMax int64 `yaml:"entry_max" mapstructure:"entry_max"`
	MidMax   int64 `yaml:"mid_max" mapstructure:"mid_max"`
	HighMax  int64 `yaml:"high_max" mapstructure:"high_max"`
}

// ScoringConfig holds the NBO factor weights. Weights must sum to 100.
type ScoringConfig struct {
	TierGap       float64 `yaml:"tier_gap" mapstructure:"tier_gap"`
	CategoryMatch float64 `yaml:"category_match" mapstructure:"category_match"`
	Bandwidth     float64 `yaml:"bandwidth" mapstructure:"bandwidth"`
	Industry      float64 `yaml:"industry" mapstructure:"industry"`
	CoOccurrence  float64 `yaml:"co_occurrence" mapstructure:"co_occurrence"`
	Regional      float64 `yaml:"regional" mapstructure:"regional"`
	Affordability float64 `yaml:"affordability" mapstructure:"affordability"`
	Complexity    float64 `yaml:"complexity" mapstructure:"complexity"`

	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

// PipelineConfig configures batch execution and tenure normalization.
type PipelineConfig struct {
	MaxConcurrency int     `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	TenureCapYears float64 `yaml:"tenure_cap_years" mapstructure:"tenure_cap_years"`
	TenureDefault  float64 `yaml:"tenure_default" mapstructure:"tenure_default"`
}

// OutputConfig configures export destinations.
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	MasterXLSX    string `yaml:"master_xlsx" mapstructure:"master_xlsx"`
	DashboardJSON string `yaml:"dashboard_json" mapstructure:"dashboard_json"`
	SummaryPath   string `yaml:"summary_path" mapstructure:"summary_path"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the read-only query server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("CVO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.sheet_index", 0)
	v.SetDefault("input.skip_rows", 0)
	v.SetDefault("input.active_only", true)
	v.SetDefault("catalog.path", "catalog.yaml")

	v.SetDefault("segments.atm_iot_max_mbps", 1.0)
	v.SetDefault("segments.umkm_max_mbps", 20.0)
	v.SetDefault("segments.corporate_max_mbps", 500.0)
	v.SetDefault("segments.enterprise_ceiling_mbps", 10000.0)

	v.SetDefault("arpu.entry_max", 1_000_000)
	v.SetDefault("arpu.mid_max", 3_500_000)
	v.SetDefault("arpu.high_max", 15_000_000)

	v.SetDefault("scoring.tier_gap", 15.0)
	v.SetDefault("scoring.category_match", 15.0)
	v.SetDefault("scoring.bandwidth", 15.0)
	v.SetDefault("scoring.industry", 15.0)
	v.SetDefault("scoring.co_occurrence", 10.0)
	v.SetDefault("scoring.regional", 5.0)
	v.SetDefault("scoring.affordability", 15.0)
	v.SetDefault("scoring.complexity", 10.0)
	v.SetDefault("scoring.top_k", 3)

	v.SetDefault("pipeline.max_concurrency", 8)
	v.SetDefault("pipeline.tenure_cap_years", 26.0)
	v.SetDefault("pipeline.tenure_default", 3.0)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.master_xlsx", "cvo_master.xlsx")
	v.SetDefault("output.dashboard_json", "dashboard.json")
	v.SetDefault("output.summary_path", "summary.txt")

	v.SetDefault("store.path", "cvo_runs.db")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks cross-field consistency before a run starts.
func (c *Config) Validate() error {
	var errs []string

	sum := c.Scoring.TierGap + c.Scoring.CategoryMatch + c.Scoring.Bandwidth +
		c.Scoring.Industry + c.Scoring.CoOccurrence + c.Scoring.Regional +
		c.Scoring.Affordability + c.Scoring.Complexity
	if sum < 99.99 || sum > 100.01 {
		errs = append(errs, "scoring weights must sum to 100")
	}
	if c.Scoring.TopK < 1 {
		errs = append(errs, "scoring.top_k must be at least 1")
	}
	if c.Segments.ATMIoTMaxMbps <= 0 ||
		c.Segments.UMKMMaxMbps <= c.Segments.ATMIoTMaxMbps ||
		c.Segments.CorporateMaxMbps <= c.Segments.UMKMMaxMbps {
		errs = append(errs, "segment breakpoints must be strictly increasing")
	}
	if c.Segments.EnterpriseCeiling <= c.Segments.CorporateMaxMbps {
		errs = append(errs, "enterprise ceiling must exceed the corporate breakpoint")
	}
	if c.ARPU.EntryMax <= 0 || c.ARPU.MidMax <= c.ARPU.EntryMax || c.ARPU.HighMax <= c.ARPU.MidMax {
		errs = append(errs, "arpu boundaries must be strictly increasing")
	}
	if c.Pipeline.MaxConcurrency < 1 {
		errs = append(errs, "pipeline.max_concurrency must be at least 1")
	}
	if c.Pipeline.TenureCapYears <= 0 {
		errs = append(errs, "pipeline.tenure_cap_years must be positive")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Hash returns a hex digest of the effective configuration, stable across
// runs with identical settings. Used to tag runs so results can be traced
// back to the configuration that produced them.
func (c *Config) Hash() string {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
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
