package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger — logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server — HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// LLM — hosted language model used for classification and extraction
	LLM LLMConfig `mapstructure:"llm"`
	// Ratings — professor ratings site
	Ratings RatingsConfig `mapstructure:"ratings"`
	// Social — social media search for professor mentions
	Social SocialConfig `mapstructure:"social"`
	// Classifier — course type classification
	Classifier ClassifierConfig `mapstructure:"classifier"`
	// Scoring — scoring parameters
	Scoring ScoringConfig `mapstructure:"scoring"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level — log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
	// Format — "json" for structured output, "text" for colored console output.
	Format string `mapstructure:"format"`
	// File — optional path of a rotating JSON log file written in addition to stdout.
	File string `mapstructure:"file"`
	// MaxSizeMB — log file size that triggers rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups — number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address — address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// Static — path to directory with static files served by the server.
	// Can be empty if static serving is not required.
	Static string `mapstructure:"static"`
	// MaxUploadMB — maximum size of an uploaded schedule document.
	MaxUploadMB int `mapstructure:"max_upload_mb"`
	// ReadTimeout — time allowed to read a request, upload included.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout — time allowed to produce a response; must cover model calls.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LLMConfig configures the hosted language model.
type LLMConfig struct {
	// APIKey — API key. Usually provided as COOKED_LLM_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// BaseURL — API base URL of an OpenAI-compatible endpoint; empty for the default.
	BaseURL string `mapstructure:"base_url"`
	// Model — chat model name.
	Model string `mapstructure:"model"`
	// Timeout — timeout of a single model request.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxTextLength — characters of document text sent to the model.
	MaxTextLength int `mapstructure:"max_text_length"`
}

// RatingsConfig configures the professor ratings lookup.
type RatingsConfig struct {
	// Enabled — when false every class is scored without professor data.
	Enabled bool `mapstructure:"enabled"`
	// URL — GraphQL endpoint.
	URL string `mapstructure:"url"`
	// SchoolID — school scope of searches.
	SchoolID string `mapstructure:"school_id"`
	// Authorization — Authorization header value.
	Authorization string `mapstructure:"authorization"`
	// Timeout — timeout of a single lookup.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SocialConfig configures the professor mentions search.
// The search is disabled when ClientID is empty.
type SocialConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	TokenURL     string        `mapstructure:"token_url"`
	APIURL       string        `mapstructure:"api_url"`
	Subreddit    string        `mapstructure:"subreddit"`
	Limit        int           `mapstructure:"limit"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ClassifierConfig configures course type classification.
type ClassifierConfig struct {
	// Rules — optional path to a YAML file with CEL classification rules.
	Rules string `mapstructure:"rules"`
	// UseLLM — ask the model about courses no rule matched.
	UseLLM bool `mapstructure:"use_llm"`
	// Fallback — type used when no classifier has an answer.
	Fallback string `mapstructure:"fallback"`
}

// ScoringConfig defines scoring parameters.
type ScoringConfig struct {
	// TypicalHardSemester — raw score sum that maps to 100. 0 selects the built-in 1620.
	TypicalHardSemester float64 `mapstructure:"typical_hard_semester"`
	// Concurrency — maximum concurrent per-course lookups within one request.
	Concurrency int `mapstructure:"concurrency"`
}

// Enabled reports whether the social search is configured.
func (s *SocialConfig) Enabled() bool {
	return s.ClientID != ""
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
// Returns nil if the configuration is valid.
func (c *AppConfig) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	if err := c.LLM.Validate(); err != nil {
		return err
	}

	if err := c.Ratings.Validate(); err != nil {
		return err
	}

	if err := c.Social.Validate(); err != nil {
		return err
	}

	if err := c.Classifier.Validate(); err != nil {
		return err
	}

	return c.Scoring.Validate()
}

// Validate checks the correctness of the logger configuration.
// Verifies that the log level is set and is one of the supported values.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	switch strings.ToLower(l.Format) {
	case "":
		l.Format = LogFormatJSON
	case LogFormatJSON, LogFormatText:
		l.Format = strings.ToLower(l.Format)
	default:
		return fmt.Errorf("logger.format: unsupported format '%s'", l.Format)
	}

	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = 100
	}

	if l.MaxBackups <= 0 {
		l.MaxBackups = 5
	}

	return nil
}

// Validate checks the correctness of the server configuration.
// Verifies that the server address is set.
func (n *ServerConfig) Validate() error {
	if n.Address == "" {
		return errors.New("server.address: must be specified")
	}

	if n.MaxUploadMB <= 0 {
		n.MaxUploadMB = 10
	}

	if n.ReadTimeout <= 0 {
		n.ReadTimeout = 15 * time.Second
	}

	if n.WriteTimeout <= 0 {
		n.WriteTimeout = 2 * time.Minute
	}

	return nil
}

// Validate checks the model configuration.
func (l *LLMConfig) Validate() error {
	if l.APIKey == "" {
		return errors.New("llm.api_key: must be specified")
	}

	if l.Model == "" {
		return errors.New("llm.model: must be specified")
	}

	if l.BaseURL != "" {
		if _, err := url.ParseRequestURI(l.BaseURL); err != nil {
			return errors.New("llm.base_url: URL is incorrect")
		}
	}

	if l.Timeout <= 0 {
		l.Timeout = 60 * time.Second
	}

	return nil
}

// Validate checks the ratings configuration when the lookup is enabled.
func (r *RatingsConfig) Validate() error {
	if !r.Enabled {
		return nil
	}

	if _, err := url.ParseRequestURI(r.URL); err != nil {
		return errors.New("ratings.url: URL is incorrect")
	}

	if r.SchoolID == "" {
		return errors.New("ratings.school_id: must be specified")
	}

	if r.Timeout <= 0 {
		r.Timeout = 10 * time.Second
	}

	return nil
}

// Validate checks the social search configuration when it is enabled.
func (s *SocialConfig) Validate() error {
	if !s.Enabled() {
		return nil
	}

	if s.ClientSecret == "" {
		return errors.New("social.client_secret: must be specified")
	}

	if s.Subreddit == "" {
		return errors.New("social.subreddit: must be specified")
	}

	if s.Limit <= 0 {
		s.Limit = 5
	}

	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}

	return nil
}

// Validate checks the classifier configuration.
func (c *ClassifierConfig) Validate() error {
	switch strings.ToUpper(c.Fallback) {
	case "":
		c.Fallback = "HUMANITIES"
	case "STEM", "HUMANITIES":
		c.Fallback = strings.ToUpper(c.Fallback)
	default:
		return fmt.Errorf("classifier.fallback: unsupported type '%s'", c.Fallback)
	}

	return nil
}

// Validate checks scoring parameters.
func (s *ScoringConfig) Validate() error {
	if s.TypicalHardSemester < 0 {
		return errors.New("scoring.typical_hard_semester: must not be negative")
	}

	if s.Concurrency <= 0 {
		s.Concurrency = 4
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", LogFormatJSON)
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 5)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.static", "")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "2m")

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.max_text_length", 20000)

	v.SetDefault("ratings.enabled", true)
	v.SetDefault("ratings.url", "https://www.ratemyprofessors.com/graphql")
	v.SetDefault("ratings.school_id", "")
	v.SetDefault("ratings.authorization", "Basic dGVzdDp0ZXN0")
	v.SetDefault("ratings.timeout", "10s")

	v.SetDefault("social.client_id", "")
	v.SetDefault("social.client_secret", "")
	v.SetDefault("social.token_url", "https://www.reddit.com/api/v1/access_token")
	v.SetDefault("social.api_url", "https://oauth.reddit.com")
	v.SetDefault("social.subreddit", "")
	v.SetDefault("social.limit", 5)
	v.SetDefault("social.timeout", "10s")

	v.SetDefault("classifier.rules", "")
	v.SetDefault("classifier.use_llm", true)
	v.SetDefault("classifier.fallback", "HUMANITIES")

	v.SetDefault("scoring.typical_hard_semester", 0)
	v.SetDefault("scoring.concurrency", 4)
}

// LoadConfig loads configuration from the specified file using Viper.
// Supports YAML format. Environment variables prefixed with COOKED_ override
// values from the file, e.g. COOKED_LLM_API_KEY overrides llm.api_key.
//
// Parameter configPath — path to the configuration file.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("COOKED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
