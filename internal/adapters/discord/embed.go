package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"voteparty/internal/ports/output"
)

const (
	colorApproved = 0x57F287
	colorRejected = 0xED4245
	colorNeutral  = 0x5865F2
)

func embedColor(state string) int {
	switch state {
	case "approved":
		return colorApproved
	case "rejected":
		return colorRejected
	default:
		return colorNeutral
	}
}

func displayParty(event output.LifecycleEvent) string {
	if event.PartyName != "" {
		return event.PartyName
	}
	return event.Code
}

func displayGuest(event output.LifecycleEvent) string {
	if event.Username != "" {
		return event.Username
	}
	return event.GuestID
}

// BuildLifecycleEmbed renders one approval outcome. Text comes from the
// "notify.*" catalog entries.
func BuildLifecycleEmbed(tr output.T, locale string, event output.LifecycleEvent) *discordgo.MessageEmbed {
	data := map[string]any{"Guest": displayGuest(event), "Party": displayParty(event)}
	ts := event.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &discordgo.MessageEmbed{
		Title: tr.T(locale, "notify."+event.State, data),
		Color: embedColor(event.State),
		Fields: []*discordgo.MessageEmbedField{
			{Name: tr.T(locale, "notify.field.party", nil), Value: displayParty(event), Inline: true},
			{Name: tr.T(locale, "notify.field.code", nil), Value: fmt.Sprintf("`%s`", event.Code), Inline: true},
			{Name: tr.T(locale, "notify.field.guest", nil), Value: displayGuest(event), Inline: true},
		},
		Timestamp: ts.UTC().Format(time.RFC3339),
	}
}
