package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	DBConnectionString string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`

	// Completion gateway settings. Creativity and reply length are fixed
	// here rather than caller-supplied to keep behavior and cost predictable.
	OpenAIAPIKey          string  `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL         string  `envconfig:"OPENAI_BASE_URL"`
	CompletionModel       string  `envconfig:"COMPLETION_MODEL" default:"gpt-4o"`
	CompletionTemperature float32 `envconfig:"COMPLETION_TEMPERATURE" default:"0.7"`
	CompletionMaxTokens   int     `envconfig:"COMPLETION_MAX_TOKENS" default:"1000"`
	CompletionTimeoutSec  int     `envconfig:"COMPLETION_TIMEOUT_SEC" default:"30"`

	// Only the most recent N turns are forwarded upstream; full history
	// stays in the conversation store for display.
	ChatHistoryLimit int `envconfig:"CHAT_HISTORY_LIMIT" default:"10"`

	// When set, unauthenticated chat requests are served in stateless mode
	// instead of being rejected. Off by default for paid deployments.
	AllowAnonymousChat bool `envconfig:"ALLOW_ANONYMOUS_CHAT" default:"false"`

	// Stripe settings
	StripeSecretKey       string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripeWebhookSecret   string `envconfig:"STRIPE_WEBHOOK_SECRET" required:"true"`
	StripePriceStarter    string `envconfig:"STRIPE_PRICE_STARTER" required:"true"`
	StripePricePro        string `envconfig:"STRIPE_PRICE_PRO" required:"true"`
	StripePortalReturnURL string `envconfig:"STRIPE_PORTAL_RETURN_URL" required:"true"`

	// Monthly token ceilings per tier, applied when the billing webhook
	// upserts a usage record.
	StarterTokenLimit int64 `envconfig:"STARTER_TOKEN_LIMIT" default:"100000"`
	ProTokenLimit     int64 `envconfig:"PRO_TOKEN_LIMIT" default:"1000000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
