package cli

import (
	"strings"
	"time"

	"github.com/iudanet/eventz/pkg/api"
)

// displayLayout формат дат в выводе и при вводе
const displayLayout = "2006-01-02 15:04"

// parseDate принимает RFC 3339 или displayLayout в локальном времени.
// Нераспознанная строка уходит на сервер как есть, ошибку по полю вернет он.
func parseDate(value string) string {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(time.RFC3339, value); err == nil {
		return value
	}
	if t, err := time.ParseInLocation(displayLayout, value, time.Local); err == nil {
		return t.Format(time.RFC3339)
	}
	return value
}

func formatDate(t time.Time) string {
	return t.Local().Format(displayLayout)
}

func (c *Cli) printEvent(e *api.Event) {
	c.io.Printf("ID:          %s\n", e.ID)
	c.io.Printf("Title:       %s\n", e.Title)
	c.io.Printf("Status:      %s\n", e.Status)
	c.io.Printf("Location:    %s\n", e.Location)
	c.io.Printf("Starts:      %s\n", formatDate(e.StartDate))
	c.io.Printf("Ends:        %s\n", formatDate(e.EndDate))
	c.io.Printf("Description: %s\n", e.Description)
}

func (c *Cli) printGuest(g *api.Guest) {
	email := g.Email
	if email == "" {
		email = "-"
	}
	c.io.Printf("  %s  %-24s %-32s %s\n", g.ID, g.Name, email, g.RSVPStatus)
}
