package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultSessionTTL = 2 * time.Hour

var (
	ErrInvalidPort            = errors.New("port must be a number between 1 and 65535")
	ErrInvalidSessionTTL      = errors.New("session ttl must not be negative")
	ErrInvalidJanitorInterval = errors.New("janitor interval must be positive when session ttl is set")
	ErrRedisKeyRequired       = errors.New("redis submission key is required when redis url is set")
)

type Config struct {
	Debug              bool          `yaml:"debug"`
	Host               string        `yaml:"host"`
	Port               string        `yaml:"port"`
	OtelCollectorUrl   string        `yaml:"otel_collector_url"`
	AllowOrigins       []string      `yaml:"allow_origins"`
	QuestionnairePath  string        `yaml:"questionnaire_path"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	JanitorInterval    time.Duration `yaml:"janitor_interval"`
	RedisURL           string        `yaml:"redis_url"`
	RedisSubmissionKey string        `yaml:"redis_submission_key"`
}

type LogBuffer struct {
	buffer []logEntry
}

type logEntry struct {
	msg  string
	err  error
	meta map[string]string
}

func NewConfigLogger() *LogBuffer {
	return &LogBuffer{}
}

func (cl *LogBuffer) Warn(msg string, err error, meta map[string]string) {
	cl.buffer = append(cl.buffer, logEntry{msg: msg, err: err, meta: meta})
}

// FlushToZap writes the buffered messages once the real logger exists
func (cl *LogBuffer) FlushToZap(logger *zap.Logger) {
	for _, e := range cl.buffer {
		var fields []zap.Field
		if e.err != nil {
			fields = append(fields, zap.Error(e.err))
		}
		for k, v := range e.meta {
			fields = append(fields, zap.String(k, v))
		}
		logger.Warn(e.msg, fields...)
	}
	cl.buffer = nil
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return ErrInvalidPort
	}

	if c.SessionTTL < 0 {
		return ErrInvalidSessionTTL
	}

	if c.SessionTTL > 0 && c.JanitorInterval <= 0 {
		return ErrInvalidJanitorInterval
	}

	if c.RedisURL != "" && c.RedisSubmissionKey == "" {
		return ErrRedisKeyRequired
	}

	return nil
}

func Default() Config {
	return Config{
		Debug:              false,
		Host:               "localhost",
		Port:               "8080",
		AllowOrigins:       []string{"http://localhost:5173"},
		SessionTTL:         DefaultSessionTTL,
		JanitorInterval:    time.Minute,
		RedisSubmissionKey: "checkin:submissions",
	}
}

// Load layers configuration sources: defaults, config.yaml, .env and environment variables, then flags
func Load() (Config, *LogBuffer) {
	logger := NewConfigLogger()

	config := Default()

	var err error
	config, err = FromFile("config.yaml", config, logger)
	if err != nil {
		logger.Warn("Failed to load config from file", err, map[string]string{"path": "config.yaml"})
	}

	config, err = FromEnv(config, logger)
	if err != nil {
		logger.Warn("Failed to load config from env", err, map[string]string{"path": ".env"})
	}

	config, err = FromFlags(config, os.Args[1:])
	if err != nil {
		logger.Warn("Failed to load config from flags", err, map[string]string{"args": strings.Join(os.Args[1:], " ")})
	}

	return config, logger
}

func FromFile(filePath string, config Config, logger *LogBuffer) (Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		logger.Warn("Config file not found", err, map[string]string{"path": filePath})
		return config, nil
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return config, err
	}

	fileConfig := config
	err = yaml.Unmarshal(bytes, &fileConfig)
	if err != nil {
		return config, err
	}

	return fileConfig, nil
}

func FromEnv(config Config, logger *LogBuffer) (Config, error) {
	if err := godotenv.Overload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("No .env file found", err, map[string]string{"path": ".env"})
		} else {
			return config, err
		}
	}

	envConfig := Config{
		Debug:              os.Getenv("DEBUG") == "true",
		Host:               os.Getenv("HOST"),
		Port:               os.Getenv("PORT"),
		OtelCollectorUrl:   os.Getenv("OTEL_COLLECTOR_URL"),
		QuestionnairePath:  os.Getenv("QUESTIONNAIRE_PATH"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisSubmissionKey: os.Getenv("REDIS_SUBMISSION_KEY"),
	}

	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		envConfig.AllowOrigins = splitList(origins)
	}

	set := explicitFields{debug: os.Getenv("DEBUG") != ""}
	envConfig.SessionTTL, set.sessionTTL = lookupDuration("SESSION_TTL", logger)
	envConfig.JanitorInterval, set.janitorInterval = lookupDuration("JANITOR_INTERVAL", logger)

	return merge(config, envConfig, set), nil
}

func FromFlags(config Config, args []string) (Config, error) {
	flagSet := flag.NewFlagSet("checkin-backend", flag.ContinueOnError)

	var flagConfig Config
	var allowOrigins string

	flagSet.BoolVar(&flagConfig.Debug, "debug", false, "debug mode")
	flagSet.StringVar(&flagConfig.Host, "host", "", "host")
	flagSet.StringVar(&flagConfig.Port, "port", "", "port")
	flagSet.StringVar(&flagConfig.OtelCollectorUrl, "otel_collector_url", "", "OpenTelemetry collector URL")
	flagSet.StringVar(&allowOrigins, "allow_origins", "", "comma separated list of allowed CORS origins")
	flagSet.StringVar(&flagConfig.QuestionnairePath, "questionnaire_path", "", "questionnaire YAML file, the embedded default when empty")
	flagSet.DurationVar(&flagConfig.SessionTTL, "session_ttl", 0, "idle session lifetime")
	flagSet.DurationVar(&flagConfig.JanitorInterval, "janitor_interval", 0, "idle session sweep interval")
	flagSet.StringVar(&flagConfig.RedisURL, "redis_url", "", "Redis URL for the submission sink")
	flagSet.StringVar(&flagConfig.RedisSubmissionKey, "redis_submission_key", "", "Redis list receiving submissions")

	err := flagSet.Parse(args)
	if err != nil {
		return config, err
	}

	if allowOrigins != "" {
		flagConfig.AllowOrigins = splitList(allowOrigins)
	}

	var set explicitFields
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			set.debug = true
		case "session_ttl":
			set.sessionTTL = true
		case "janitor_interval":
			set.janitorInterval = true
		}
	})

	return merge(config, flagConfig, set), nil
}

// explicitFields marks override fields whose zero value was set on purpose
type explicitFields struct {
	debug           bool
	sessionTTL      bool
	janitorInterval bool
}

// merge copies every non-zero field of override onto base, and the explicitly set ones even when zero
func merge(base, override Config, set explicitFields) Config {
	if set.debug {
		base.Debug = override.Debug
	}
	if override.Host != "" {
		base.Host = override.Host
	}
	if override.Port != "" {
		base.Port = override.Port
	}
	if override.OtelCollectorUrl != "" {
		base.OtelCollectorUrl = override.OtelCollectorUrl
	}
	if len(override.AllowOrigins) > 0 {
		base.AllowOrigins = override.AllowOrigins
	}
	if override.QuestionnairePath != "" {
		base.QuestionnairePath = override.QuestionnairePath
	}
	if set.sessionTTL || override.SessionTTL != 0 {
		base.SessionTTL = override.SessionTTL
	}
	if set.janitorInterval || override.JanitorInterval != 0 {
		base.JanitorInterval = override.JanitorInterval
	}
	if override.RedisURL != "" {
		base.RedisURL = override.RedisURL
	}
	if override.RedisSubmissionKey != "" {
		base.RedisSubmissionKey = override.RedisSubmissionKey
	}
	return base
}

// lookupDuration reads a duration variable; ok is false when it is unset, empty or invalid
func lookupDuration(key string, logger *LogBuffer) (time.Duration, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("Invalid "+key+", keeping previous value", err, map[string]string{"value": value})
		return 0, false
	}
	return duration, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
