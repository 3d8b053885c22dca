package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"voteparty/internal/config"
	"voteparty/internal/ports/output"
)

var _ output.LifecycleNotifier = (*WebhookNotifier)(nil)

// WebhookNotifier posts lifecycle outcomes to a Discord channel webhook.
type WebhookNotifier struct {
	session *discordgo.Session
	id      string
	token   string
	tr      output.T
	locale  string
	log     zerolog.Logger
}

func NewWebhookNotifier(webhookURL string, tr output.T, locale string, log zerolog.Logger) (*WebhookNotifier, error) {
	id, token, err := config.ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// Webhook execution is authenticated by the token in the URL.
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &WebhookNotifier{
		session: s,
		id:      id,
		token:   token,
		tr:      tr,
		locale:  locale,
		log:     log.With().Str("component", "discord").Logger(),
	}, nil
}

// WithHTTPClient replaces the client used for webhook calls.
func (n *WebhookNotifier) WithHTTPClient(c *http.Client) *WebhookNotifier {
	n.session.Client = c
	return n
}

func (n *WebhookNotifier) Notify(ctx context.Context, event output.LifecycleEvent) error {
	params := &discordgo.WebhookParams{
		Embeds:          []*discordgo.MessageEmbed{BuildLifecycleEmbed(n.tr, n.locale, event)},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if _, err := n.session.WebhookExecute(n.id, n.token, false, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	n.log.Debug().Str("code", event.Code).Str("state", event.State).Msg("lifecycle posted")
	return nil
}
