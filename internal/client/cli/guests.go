package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/eventz/pkg/api"
)

// clearValue ввод, очищающий необязательное поле
const clearValue = "-"

func (c *Cli) runGuests(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: eventz guests <list|add|update|delete>", ErrUsage)
	}
	if err := c.requireLogin(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch {
	case sub == "list" && len(rest) == 1:
		return c.runGuestsList(ctx, rest[0])
	case sub == "add" && len(rest) == 1:
		return c.runGuestsAdd(ctx, rest[0])
	case sub == "update" && len(rest) == 2:
		return c.runGuestsUpdate(ctx, rest[0], rest[1])
	case sub == "delete" && len(rest) == 1:
		return c.runGuestsDelete(ctx, rest[0])
	default:
		return fmt.Errorf("%w: run 'eventz help' for guests commands", ErrUsage)
	}
}

func (c *Cli) runGuestsList(ctx context.Context, eventID string) error {
	guests, err := c.client.ListGuests(ctx, eventID)
	if err != nil {
		return err
	}

	if len(guests) == 0 {
		c.io.Println("No guests found.")
		c.io.Println()
		c.io.Printf("Use 'eventz guests add %s' to invite someone.\n", eventID)
		return nil
	}

	c.io.Printf("Found %d guest(s):\n\n", len(guests))
	for i := range guests {
		c.printGuest(&guests[i])
	}
	return nil
}

func (c *Cli) runGuestsAdd(ctx context.Context, eventID string) error {
	c.io.Println("=== New Guest ===")
	c.io.Println()

	name, err := c.prompt("Name", "")
	if err != nil {
		return err
	}
	email, err := c.prompt("Email (optional)", "")
	if err != nil {
		return err
	}

	guest, err := c.client.AddGuest(ctx, api.GuestRequest{EventID: eventID, Name: name, Email: email})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Guest added successfully!")
	if guest.Email != "" {
		c.io.Printf("An invitation was sent to %s.\n", guest.Email)
	}
	c.printGuest(guest)
	return nil
}

func (c *Cli) runGuestsUpdate(ctx context.Context, eventID, guestID string) error {
	guests, err := c.client.ListGuests(ctx, eventID)
	if err != nil {
		return err
	}

	var current *api.Guest
	for i := range guests {
		if guests[i].ID == guestID {
			current = &guests[i]
			break
		}
	}
	if current == nil {
		return errors.New("guest not found in this event")
	}

	c.io.Println("=== Edit Guest ===")
	c.io.Printf("Press Enter to keep the current value, %q clears the email.\n\n", clearValue)

	name, err := c.prompt("Name", current.Name)
	if err != nil {
		return err
	}
	email, err := c.prompt("Email", current.Email)
	if err != nil {
		return err
	}
	if email == clearValue {
		email = ""
	}
	rsvp, err := c.prompt("RSVP (pending|confirmed|declined)", current.RSVPStatus)
	if err != nil {
		return err
	}

	updated, err := c.client.UpdateGuest(ctx, guestID, api.GuestRequest{Name: name, Email: email, RSVPStatus: rsvp})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Guest updated successfully!")
	c.printGuest(updated)
	return nil
}

func (c *Cli) runGuestsDelete(ctx context.Context, guestID string) error {
	guest, err := c.client.DeleteGuest(ctx, guestID)
	if err != nil {
		return err
	}
	c.io.Printf("✓ Guest %s removed.\n", guest.Name)
	return nil
}
