package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/eventz/pkg/api"
)

func (c *Cli) runEvents(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: eventz events <list|create|show|update|delete>", ErrUsage)
	}
	if err := c.requireLogin(); err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	if sub == "list" || sub == "create" {
		if len(rest) != 0 {
			return fmt.Errorf("%w: eventz events %s", ErrUsage, sub)
		}
	} else if len(rest) != 1 {
		return fmt.Errorf("%w: eventz events %s <id>", ErrUsage, sub)
	}

	switch sub {
	case "list":
		return c.runEventsList(ctx)
	case "create":
		return c.runEventsCreate(ctx)
	case "show":
		return c.runEventsShow(ctx, rest[0])
	case "update":
		return c.runEventsUpdate(ctx, rest[0])
	case "delete":
		return c.runEventsDelete(ctx, rest[0])
	default:
		return fmt.Errorf("%w: unknown events command %q", ErrUsage, sub)
	}
}

func (c *Cli) runEventsList(ctx context.Context) error {
	events, err := c.client.ListEvents(ctx)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		c.io.Println("No events found.")
		c.io.Println()
		c.io.Println("Use 'eventz events create' to plan your first event.")
		return nil
	}

	c.io.Printf("Found %d event(s):\n\n", len(events))
	for _, e := range events {
		c.io.Printf("  %s  %s  %-10s %s\n", e.ID, formatDate(e.StartDate), e.Status, e.Title)
	}
	return nil
}

// readEvent запрашивает поля мероприятия; значения current используются по умолчанию
func (c *Cli) readEvent(current api.EventRequest, withStatus bool) (api.EventRequest, error) {
	var (
		req api.EventRequest
		err error
	)
	if req.Title, err = c.prompt("Title", current.Title); err != nil {
		return req, err
	}
	if req.Description, err = c.prompt("Description", current.Description); err != nil {
		return req, err
	}
	if req.Location, err = c.prompt("Location", current.Location); err != nil {
		return req, err
	}
	start, err := c.prompt("Start ("+displayLayout+")", current.StartDate)
	if err != nil {
		return req, err
	}
	req.StartDate = parseDate(start)
	end, err := c.prompt("End ("+displayLayout+")", current.EndDate)
	if err != nil {
		return req, err
	}
	req.EndDate = parseDate(end)

	if withStatus {
		if req.Status, err = c.prompt("Status (upcoming|ongoing|completed|cancelled)", current.Status); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (c *Cli) runEventsCreate(ctx context.Context) error {
	c.io.Println("=== New Event ===")
	c.io.Println()

	req, err := c.readEvent(api.EventRequest{}, false)
	if err != nil {
		return err
	}

	event, err := c.client.CreateEvent(ctx, req)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Event created successfully!")
	c.printEvent(event)
	return nil
}

func (c *Cli) runEventsShow(ctx context.Context, id string) error {
	event, err := c.client.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	c.printEvent(event)

	guests, err := c.client.ListGuests(ctx, id)
	if err != nil {
		return err
	}
	c.io.Println()
	if len(guests) == 0 {
		c.io.Println("No guests yet.")
		return nil
	}
	c.io.Printf("Guests (%d):\n", len(guests))
	for i := range guests {
		c.printGuest(&guests[i])
	}
	return nil
}

func (c *Cli) runEventsUpdate(ctx context.Context, id string) error {
	event, err := c.client.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	c.io.Println("=== Edit Event ===")
	c.io.Println("Press Enter to keep the current value.")
	c.io.Println()

	req, err := c.readEvent(api.EventRequest{
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartDate:   formatDate(event.StartDate),
		EndDate:     formatDate(event.EndDate),
		Status:      event.Status,
	}, true)
	if err != nil {
		return err
	}

	updated, err := c.client.UpdateEvent(ctx, id, req)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Event updated successfully!")
	c.printEvent(updated)
	return nil
}

func (c *Cli) runEventsDelete(ctx context.Context, id string) error {
	event, err := c.client.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	answer, err := c.io.ReadInput(fmt.Sprintf("Delete %q and all its guests? [y/N]: ", event.Title))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		c.io.Println("Cancelled.")
		return nil
	}

	if _, err := c.client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	c.io.Println("✓ Event deleted successfully!")
	return nil
}
