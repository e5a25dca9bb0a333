package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	DB         Database       `mapstructure:"database"`
	API        API            `mapstructure:"api"`
	OpenAI     OpenAI         `mapstructure:"openai"`
	Catalog    Catalog        `mapstructure:"catalog"`
	Retention  Retention      `mapstructure:"retention"`
	Scheduler  Scheduler      `mapstructure:"scheduler"`
	Cache      Cache          `mapstructure:"cache"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
	ChartCheck ChartCheck     `mapstructure:"chart_check"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// Configured reports whether enough connection settings are present to open a database.
func (d Database) Configured() bool {
	return d.URL != "" || d.Host != ""
}

// DSN returns a postgres URL usable by both gorm and golang-migrate.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	if d.TimeZone != "" {
		q.Set("TimeZone", d.TimeZone)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

type API struct {
	Port                  int           `mapstructure:"port"`
	CORSOrigins           []string      `mapstructure:"cors_origins"`
	StaticDir             string        `mapstructure:"static_dir"`
	RateLimitPerSecond    float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst        int           `mapstructure:"rate_limit_burst"`
	AnalyzePerDomainEvery time.Duration `mapstructure:"analyze_per_domain_every"`
	AnalyzeTimeout        time.Duration `mapstructure:"analyze_timeout"`
}

type OpenAI struct {
	APIKey              string        `mapstructure:"api_key"`
	AssistantID         string        `mapstructure:"assistant_id"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	MaxPollAttempts     int           `mapstructure:"max_poll_attempts"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Configured reports whether the assistant can be called at all.
func (o OpenAI) Configured() bool {
	return o.APIKey != "" && o.AssistantID != ""
}

type Catalog struct {
	LongTermBaseURL  string `mapstructure:"long_term_base_url"`
	ShortTermBaseURL string `mapstructure:"short_term_base_url"`
}

type Retention struct {
	Days int `mapstructure:"days"`
}

type Scheduler struct {
	Enabled     bool          `mapstructure:"enabled"`
	TimeZone    string        `mapstructure:"time_zone"`
	BatchCron   string        `mapstructure:"batch_cron"`
	CleanupCron string        `mapstructure:"cleanup_cron"`
	JobTimeout  time.Duration `mapstructure:"job_timeout"`
}

// Location resolves the scheduler time zone, falling back to UTC.
func (s Scheduler) Location() *time.Location {
	if s.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken    string        `mapstructure:"bot_token"`
	ChatID      int64         `mapstructure:"chat_id"`
	NotifyBatch bool          `mapstructure:"notify_batch"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a bot token and a destination chat are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type ChartCheck struct {
	Enabled        bool          `mapstructure:"enabled"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.time_zone", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.log_level", "Warn")

	v.SetDefault("api.port", 3001)
	v.SetDefault("api.cors_origins", []string{
		"https://cyclescope-portal-production.up.railway.app",
		"http://localhost:3000",
		"http://localhost:5173",
	})
	v.SetDefault("api.static_dir", "public/domains")
	v.SetDefault("api.rate_limit_per_second", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("api.analyze_per_domain_every", time.Minute)
	v.SetDefault("api.analyze_timeout", 10*time.Minute)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1/")
	v.SetDefault("openai.timeout", time.Minute)
	v.SetDefault("openai.max_retries", 2)
	v.SetDefault("openai.poll_interval", 5*time.Second)
	v.SetDefault("openai.max_poll_attempts", 60)
	v.SetDefault("openai.max_request_per_minute", 120)

	v.SetDefault("catalog.long_term_base_url", "https://cyclescope-dashboard-production.up.railway.app/charts")
	v.SetDefault("catalog.short_term_base_url", "https://cyclescope-delta-dashboard-production.up.railway.app/charts")

	v.SetDefault("retention.days", 5)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.time_zone", "America/New_York")
	v.SetDefault("scheduler.batch_cron", "30 17 * * 1-5")
	v.SetDefault("scheduler.cleanup_cron", "0 3 * * *")
	v.SetDefault("scheduler.job_timeout", 45*time.Minute)

	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.notify_batch", true)
	v.SetDefault("telegram.timeout", 10*time.Second)

	v.SetDefault("chart_check.enabled", true)
	v.SetDefault("chart_check.timeout", 10*time.Second)
	v.SetDefault("chart_check.max_concurrency", 4)
}

// bindLegacyEnv maps the flat variable names used by existing deployments.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.assistant_id", "OPENAI_ASSISTANT_ID")
	_ = v.BindEnv("api.port", "PORT", "API_PORT")
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Retention.Days <= 0 {
		return nil, fmt.Errorf("retention.days must be positive, got %d", cfg.Retention.Days)
	}
	if cfg.OpenAI.MaxPollAttempts <= 0 {
		return nil, fmt.Errorf("openai.max_poll_attempts must be positive, got %d", cfg.OpenAI.MaxPollAttempts)
	}

	return &cfg, nil
}
