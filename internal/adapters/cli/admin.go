package cli

import (
	"context"
	"fmt"

	"voteparty/internal/application"
	"voteparty/internal/domain"
	"voteparty/internal/domain/entities"
)

func (a *App) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: admin needs a subcommand", ErrUsage)
	}
	svc := application.NewModeratorService(a.mods)
	sub, rest := args[0], args[1:]
	fs := a.flags("admin " + sub)
	partyID := fs.String("party", "", "party id")
	guestID := fs.String("guest", "", "guest id")

	switch sub {
	case "create":
		name := fs.String("name", "", "party name")
		event := fs.String("event", string(domain.EventGrandFinal), "semifinal1, semifinal2 or grandfinal")
		if err := parse(fs, rest, "name"); err != nil {
			return err
		}
		p, err := svc.CreateParty(ctx, *name, domain.EventType(*event))
		if err != nil {
			return err
		}
		a.printParties(*p)
		return nil

	case "list":
		if err := parse(fs, rest); err != nil {
			return err
		}
		parties, err := svc.ListParties(ctx)
		if err != nil {
			return err
		}
		a.printParties(parties...)
		return nil

	case "show":
		if err := parse(fs, rest, "party"); err != nil {
			return err
		}
		p, err := svc.GetParty(ctx, *partyID)
		if err != nil {
			return err
		}
		a.printParties(*p)
		return nil

	case "requests", "guests":
		if err := parse(fs, rest, "party"); err != nil {
			return err
		}
		list := svc.ListGuests
		if sub == "requests" {
			list = svc.ListJoinRequests
		}
		guests, err := list(ctx, *partyID)
		if err != nil {
			return err
		}
		a.printGuests(guests)
		return nil

	case "approve", "reject", "remove":
		if err := parse(fs, rest, "party", "guest"); err != nil {
			return err
		}
		act := map[string]func(context.Context, string, string) error{
			"approve": svc.ApproveGuest,
			"reject":  svc.RejectGuest,
			"remove":  svc.RemoveGuest,
		}[sub]
		if err := act(ctx, *partyID, *guestID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "%s: %s\n", sub, *guestID)
		return nil

	case "end":
		if err := parse(fs, rest, "party"); err != nil {
			return err
		}
		status, err := svc.EndVoting(ctx, *partyID)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "party %s is %s\n", *partyID, status)
		return nil

	case "delete":
		if err := parse(fs, rest, "party"); err != nil {
			return err
		}
		if err := svc.DeleteParty(ctx, *partyID); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "party %s deleted\n", *partyID)
		return nil

	case "profile":
		username := fs.String("username", "", "new display name")
		if err := parse(fs, rest); err != nil {
			return err
		}
		var (
			u   *entities.User
			err error
		)
		if *username != "" {
			u, err = svc.UpdateProfile(ctx, *username)
		} else {
			u, err = svc.Profile(ctx)
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.out, "%s\t%s\t%s\n", u.ID, u.Username, u.Email)
		return nil

	default:
		return fmt.Errorf("%w: unknown admin command %q", ErrUsage, sub)
	}
}
