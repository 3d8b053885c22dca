package i18n

import (
	"embed"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"voteparty/internal/ports/output"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogs = []string{"active.en.toml", "active.fr.toml", "active.de.toml"}

var _ output.T = (*Translator)(nil)

// Translator renders guest-facing messages from the embedded catalogs. One
// localizer is kept per requested locale.
type Translator struct {
	bundle     *i18n.Bundle
	fallback   string
	localizers sync.Map
	log        zerolog.Logger
}

// NewTranslator loads every catalog. defaultLocale is the fallback language
// and is replaced by English when it does not parse.
func NewTranslator(defaultLocale string, log zerolog.Logger) *Translator {
	log = log.With().Str("component", "i18n").Logger()
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		log.Warn().Err(err).Str("locale", defaultLocale).Msg("unknown default locale, using en")
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range catalogs {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("load catalog")
		}
	}
	return &Translator{bundle: bundle, fallback: tag.String(), log: log}
}

// T renders key for locale, then for the fallback language. A key missing
// from both is returned as is.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.log.Debug().Err(err).Str("key", key).Str("locale", locale).Msg("localize failed")
		return key
	}
	return msg
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	if l, ok := t.localizers.Load(locale); ok {
		return l.(*i18n.Localizer)
	}
	l, _ := t.localizers.LoadOrStore(locale, i18n.NewLocalizer(t.bundle, locale, t.fallback))
	return l.(*i18n.Localizer)
}

// Languages lists the tags that have a catalog.
func (t *Translator) Languages() []language.Tag {
	return t.bundle.LanguageTags()
}
