package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/llm"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Receipt providers.
const (
	ReceiptProviderLLM       = "llm"
	ReceiptProviderTesseract = "tesseract"
)

// Budget periods.
const (
	BudgetPeriodAll   = "all"
	BudgetPeriodMonth = "month"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/parayon/parayon.db"

// Config is the typed application configuration.
type Config struct {
	DatabasePath    string
	ReceiptProvider string
	OCRLanguages    []string
	BudgetPeriod    string
	LogLevel        string
	LogFormat       string
	LLM             llm.Config
	OpeningBalance  decimal.Decimal
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.cache_ttl", time.Hour)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.timeout", 45*time.Second)
	v.SetDefault("insight.receipt_provider", ReceiptProviderLLM)
	v.SetDefault("insight.language", "tur+eng")
	v.SetDefault("ledger.opening_balance", "0")
	v.SetDefault("ledger.budget_period", BudgetPeriodAll)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath:    ExpandPath(v.GetString("database.path")),
		ReceiptProvider: strings.ToLower(v.GetString("insight.receipt_provider")),
		BudgetPeriod:    strings.ToLower(v.GetString("ledger.budget_period")),
		LogLevel:        v.GetString("logging.level"),
		LogFormat:       v.GetString("logging.format"),
		LLM: llm.Config{
			Provider:   strings.ToLower(v.GetString("llm.provider")),
			APIKey:     v.GetString("llm.api_key"),
			Model:      v.GetString("llm.model"),
			BaseURL:    v.GetString("llm.base_url"),
			MaxRetries: v.GetInt("llm.max_retries"),
			RetryDelay: v.GetDuration("llm.retry_delay"),
			CacheTTL:   v.GetDuration("llm.cache_ttl"),
			RateLimit:  v.GetInt("llm.rate_limit"),
			Timeout:    v.GetDuration("llm.timeout"),
		},
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDatabasePath)
	}

	for _, lang := range strings.FieldsFunc(v.GetString("insight.language"), func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	}) {
		cfg.OCRLanguages = append(cfg.OCRLanguages, lang)
	}

	opening := strings.TrimSpace(v.GetString("ledger.opening_balance"))
	if opening == "" {
		opening = "0"
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(opening, ",", "."))
	if err != nil {
		return Config{}, fmt.Errorf("%w: ledger.opening_balance %q", common.ErrInvalidConfig, opening)
	}
	cfg.OpeningBalance = d

	switch cfg.ReceiptProvider {
	case ReceiptProviderLLM, ReceiptProviderTesseract:
	default:
		return Config{}, fmt.Errorf("%w: insight.receipt_provider %q", common.ErrInvalidConfig, cfg.ReceiptProvider)
	}

	switch cfg.BudgetPeriod {
	case BudgetPeriodAll, BudgetPeriodMonth:
	default:
		return Config{}, fmt.Errorf("%w: ledger.budget_period %q", common.ErrInvalidConfig, cfg.BudgetPeriod)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKeyFromEnv(cfg.LLM.Provider)
	}

	return cfg, nil
}

// providerKeyFromEnv falls back to the provider's conventional variable.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "gemini":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("API_KEY")
	default:
		return ""
	}
}

// HasLLM reports whether an LLM provider is usable.
func (c Config) HasLLM() bool {
	return c.LLM.Provider != "" && c.LLM.APIKey != ""
}
