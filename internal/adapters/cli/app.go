// Package cli is the terminal front end of the guest client. It wires the
// configured adapters into the application services and exposes them as
// subcommands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"voteparty/internal/adapters/discord"
	"voteparty/internal/adapters/gateway"
	"voteparty/internal/adapters/queue"
	"voteparty/internal/application"
	"voteparty/internal/config"
	"voteparty/internal/domain"
	"voteparty/internal/infrastructure/credential"
	"voteparty/internal/infrastructure/i18n"
	"voteparty/internal/infrastructure/session"
	"voteparty/internal/ports/output"
)

// ErrUsage is returned when arguments do not name a known command.
var ErrUsage = errors.New("usage")

type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	out      io.Writer
	tr       *i18n.Translator
	store    session.Store
	guests   *gateway.Client
	mods     *gateway.Client
	notifier output.LifecycleNotifier
}

// Open builds every adapter named by cfg. Close releases the session store.
func Open(ctx context.Context, cfg *config.Config, out io.Writer, log zerolog.Logger) (*App, error) {
	store, err := session.Open(ctx, cfg.SessionStore, log)
	if err != nil {
		return nil, err
	}
	creds, err := Credentials(cfg.Credential)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	tr := i18n.NewTranslator(cfg.Locale, log)
	notifier, err := notifiers(cfg.Notify, tr, cfg.Locale, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	opts := []gateway.Option{gateway.WithHTTPClient(httpClient), gateway.WithLogger(log)}
	return &App{
		cfg:      cfg,
		log:      log,
		out:      out,
		tr:       tr,
		store:    store,
		guests:   gateway.New(cfg.APIURL, credential.Anonymous{}, opts...),
		mods:     gateway.New(cfg.APIURL, creds, opts...),
		notifier: notifier,
	}, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// Credentials picks the moderator credential: a pasted token, a shared
// secret, or none.
func Credentials(c config.Credential) (output.CredentialSource, error) {
	switch {
	case c.Token != "":
		return credential.NewStatic(c.Token)
	case c.Secret != "":
		return credential.NewHMACSigner(c.Subject, c.Secret, c.TTL)
	default:
		return credential.Anonymous{}, nil
	}
}

func notifiers(n config.Notify, tr output.T, locale string, log zerolog.Logger) (output.LifecycleNotifier, error) {
	var out application.MultiNotifier
	if n.DiscordWebhookURL != "" {
		d, err := discord.NewWebhookNotifier(n.DiscordWebhookURL, tr, locale, log)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if n.AMQPURL != "" {
		out = append(out, queue.NewPublisher(n.AMQPURL, n.AMQPQueue, log))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// Explain renders err for the user in the configured locale.
func (a *App) Explain(err error) string {
	if errors.Is(err, ErrUsage) {
		return err.Error() + "\n\n" + usage
	}
	return a.tr.T(a.cfg.Locale, domain.MessageKey(err), nil)
}

const usage = `usage: voteparty <command> [flags]

guest commands:
  join     -code CODE -name NAME   ask to join a party and wait for the host
  resume   -code CODE              keep waiting on a stored join request
  cancel   -code CODE              forget the join request
  watch    -code CODE [-once]      follow the party
  vote     -code CODE -points 12=ACT,10=ACT,...
  results  -code CODE

moderator commands (need credentials):
  admin create -name NAME -event semifinal1|semifinal2|grandfinal
  admin list
  admin show|requests|guests|end|delete -party ID
  admin approve|reject|remove -party ID -guest ID
  admin profile [-username NAME]
`

// Run executes one command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "join":
		return a.join(ctx, rest)
	case "resume":
		return a.resume(ctx, rest)
	case "cancel":
		return a.cancel(ctx, rest)
	case "watch":
		return a.watch(ctx, rest)
	case "vote":
		return a.vote(ctx, rest)
	case "results":
		return a.results(ctx, rest)
	case "admin":
		return a.admin(ctx, rest)
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	for _, name := range required {
		if f := fs.Lookup(name); f == nil || f.Value.String() == "" {
			return fmt.Errorf("%w: -%s is required", ErrUsage, name)
		}
	}
	return nil
}
