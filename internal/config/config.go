package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	NATSSubject         string
	JWTSecret           string
	TokenTTL            time.Duration
	DashboardCacheTTL   time.Duration
	CatalogPath         string
	RankingPolicy       string
	EligibilitySubjects [2]string
	ExcellentBand       bool
	AdminUsername       string
	AdminPassword       string
	AdminFullName       string
	OpenAIAPIKey        string
	OpenAIModel         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADEBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Gradebook API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.url", "gradebook.db")
	v.SetDefault("nats.subject", "gradebook.activity")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("ranking.policy", "strict")
	v.SetDefault("eligibility.subjects", "math,literature")
	v.SetDefault("excellent.band", true)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.full_name", "Administrator")
	v.SetDefault("openai.model", "gpt-4o-mini")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	subjects, err := parseSubjectPair(v.GetString("eligibility.subjects"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		JWTSecret:           v.GetString("jwt.secret"),
		TokenTTL:            tokenTTL,
		DashboardCacheTTL:   cacheTTL,
		CatalogPath:         v.GetString("catalog.path"),
		RankingPolicy:       strings.ToLower(v.GetString("ranking.policy")),
		EligibilitySubjects: subjects,
		ExcellentBand:       v.GetBool("excellent.band"),
		AdminUsername:       v.GetString("admin.username"),
		AdminPassword:       v.GetString("admin.password"),
		AdminFullName:       v.GetString("admin.full_name"),
		OpenAIAPIKey:        v.GetString("openai.api_key"),
		OpenAIModel:         v.GetString("openai.model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RankingPolicy != "strict" && cfg.RankingPolicy != "lenient" {
		return Config{}, fmt.Errorf("invalid ranking policy %q", cfg.RankingPolicy)
	}

	return cfg, nil
}

func parseSubjectPair(raw string) ([2]string, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return [2]string{}, fmt.Errorf("eligibility subjects must be a pair, got %q", raw)
	}

	var pair [2]string
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return [2]string{}, fmt.Errorf("eligibility subjects must be a pair, got %q", raw)
		}
		pair[i] = p
	}

	return pair, nil
}
