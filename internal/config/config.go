package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultAPIURL s'applique seulement si VOTEPARTY_API_URL est absente : une
// valeur vide donne des chemins relatifs.
const DefaultAPIURL = "http://localhost:8080"

type Config struct {
	APIURL             string        `env:"VOTEPARTY_API_URL"`
	Locale             string        `env:"VOTEPARTY_LOCALE" envDefault:"en"`
	SessionStore       string        `env:"VOTEPARTY_SESSION_STORE" envDefault:"sqlite://data/sessions.db"`
	GuestPollInterval  time.Duration `env:"VOTEPARTY_GUEST_POLL_INTERVAL" envDefault:"3s"`
	RejectionExitDelay time.Duration `env:"VOTEPARTY_REJECTION_EXIT_DELAY" envDefault:"3s"`
	PartySyncInterval  time.Duration `env:"VOTEPARTY_PARTY_SYNC_INTERVAL" envDefault:"10s"`
	HTTPTimeout        time.Duration `env:"VOTEPARTY_HTTP_TIMEOUT" envDefault:"0s"`

	Credential Credential
	Notify     Notify

	LogLevel     string `env:"VOTEPARTY_LOG_LEVEL" envDefault:"info"`
	LogFormat    string `env:"VOTEPARTY_LOG_FORMAT" envDefault:"console"`
	OTelEndpoint string `env:"VOTEPARTY_OTEL_ENDPOINT"`
	MockPort     int    `env:"VOTEPARTY_MOCK_PORT" envDefault:"8080"`
}

// Credential configure l'identité du modérateur. Secret et Token sont
// mutuellement exclusifs.
type Credential struct {
	Subject string        `env:"VOTEPARTY_CREDENTIAL_SUBJECT"`
	Secret  string        `env:"VOTEPARTY_CREDENTIAL_SECRET"`
	TTL     time.Duration `env:"VOTEPARTY_CREDENTIAL_TTL" envDefault:"5m"`
	Token   string        `env:"VOTEPARTY_CREDENTIAL_TOKEN"`
}

type Notify struct {
	DiscordWebhookURL string `env:"VOTEPARTY_DISCORD_WEBHOOK_URL"`
	AMQPURL           string `env:"VOTEPARTY_AMQP_URL"`
	AMQPQueue         string `env:"VOTEPARTY_AMQP_QUEUE" envDefault:"voteparty.guest.lifecycle"`
}

// Load charge la configuration depuis les variables d'environnement et la valide.
func Load() (*Config, error) {
	// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	return FromEnv()
}

// FromEnv lit uniquement l'environnement courant.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if _, ok := os.LookupEnv("VOTEPARTY_API_URL"); !ok {
		cfg.APIURL = DefaultAPIURL
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL != "" {
		parsed, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("config: VOTEPARTY_API_URL invalide (%q): %w", c.APIURL, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("config: VOTEPARTY_API_URL invalide (%q): http ou https attendu", c.APIURL)
		}
	}

	if err := validateStoreURL(c.SessionStore); err != nil {
		return err
	}

	for name, d := range map[string]time.Duration{
		"VOTEPARTY_GUEST_POLL_INTERVAL":  c.GuestPollInterval,
		"VOTEPARTY_REJECTION_EXIT_DELAY": c.RejectionExitDelay,
		"VOTEPARTY_PARTY_SYNC_INTERVAL":  c.PartySyncInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s doit être positif (%s)", name, d)
		}
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: VOTEPARTY_HTTP_TIMEOUT ne peut pas être négatif")
	}

	if c.Credential.Secret != "" && c.Credential.Token != "" {
		return fmt.Errorf("config: VOTEPARTY_CREDENTIAL_SECRET et VOTEPARTY_CREDENTIAL_TOKEN sont exclusifs")
	}
	if c.Credential.Secret != "" && strings.TrimSpace(c.Credential.Subject) == "" {
		return fmt.Errorf("config: VOTEPARTY_CREDENTIAL_SUBJECT est requis avec VOTEPARTY_CREDENTIAL_SECRET")
	}

	if c.Notify.DiscordWebhookURL != "" {
		if _, _, err := ParseWebhookURL(c.Notify.DiscordWebhookURL); err != nil {
			return err
		}
	}
	if c.Notify.AMQPURL != "" && strings.TrimSpace(c.Notify.AMQPQueue) == "" {
		return fmt.Errorf("config: VOTEPARTY_AMQP_QUEUE est requis avec VOTEPARTY_AMQP_URL")
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("config: VOTEPARTY_LOG_FORMAT doit valoir console ou json (%q)", c.LogFormat)
	}

	if c.MockPort < 1 || c.MockPort > 65535 {
		return fmt.Errorf("config: VOTEPARTY_MOCK_PORT hors limites (%d)", c.MockPort)
	}
	return nil
}

func validateStoreURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("config: VOTEPARTY_SESSION_STORE invalide (%q): %w", raw, err)
	}
	switch parsed.Scheme {
	case "memory", "redis", "rediss":
	case "sqlite":
		if strings.TrimPrefix(raw, "sqlite://") == "" {
			return fmt.Errorf("config: VOTEPARTY_SESSION_STORE invalide (%q): chemin manquant", raw)
		}
	case "postgres", "postgresql":
		if parsed.Host == "" {
			return fmt.Errorf("config: VOTEPARTY_SESSION_STORE invalide (%q): host manquant", raw)
		}
	default:
		return fmt.Errorf("config: VOTEPARTY_SESSION_STORE invalide (%q): schéma inconnu", raw)
	}
	return nil
}

// ParseWebhookURL extrait l'ID et le token d'une URL de webhook Discord
// (https://discord.com/api/webhooks/<id>/<token>).
func ParseWebhookURL(raw string) (id, token string, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("config: VOTEPARTY_DISCORD_WEBHOOK_URL invalide: %w", err)
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 4 || parts[len(parts)-3] != "webhooks" {
		return "", "", fmt.Errorf("config: VOTEPARTY_DISCORD_WEBHOOK_URL invalide (%q)", raw)
	}
	id, token = parts[len(parts)-2], parts[len(parts)-1]
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("config: l'ID du webhook doit être numérique (%q)", id)
		}
	}
	if id == "" || token == "" {
		return "", "", fmt.Errorf("config: VOTEPARTY_DISCORD_WEBHOOK_URL invalide (%q)", raw)
	}
	return id, token, nil
}
