package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/eventz/internal/client/iocli"
	"github.com/iudanet/eventz/internal/client/session"
	"github.com/iudanet/eventz/pkg/api"
)

// ErrUsage неизвестная команда или неверные аргументы
var ErrUsage = errors.New("invalid usage")

// API методы сервера, которые использует CLI
type API interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*api.MessageResponse, error)
	ResendVerification(ctx context.Context, email string) (*api.MessageResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)

	CreateEvent(ctx context.Context, req api.EventRequest) (*api.Event, error)
	ListEvents(ctx context.Context) ([]api.Event, error)
	GetEvent(ctx context.Context, id string) (*api.Event, error)
	UpdateEvent(ctx context.Context, id string, req api.EventRequest) (*api.Event, error)
	DeleteEvent(ctx context.Context, id string) (*api.Event, error)

	AddGuest(ctx context.Context, req api.GuestRequest) (*api.Guest, error)
	ListGuests(ctx context.Context, eventID string) ([]api.Guest, error)
	UpdateGuest(ctx context.Context, id string, req api.GuestRequest) (*api.Guest, error)
	DeleteGuest(ctx context.Context, id string) (*api.Guest, error)
}

// Session методы менеджера сессии, которые использует CLI
type Session interface {
	Start(ctx context.Context, user api.User, pair api.TokenResponse) error
	Clear(ctx context.Context, reason session.EndReason) error
	OnEnd(fn func(session.EndReason))
	User() (api.User, bool)
	IsAuthenticated() bool
}

type Cli struct {
	io      iocli.IO
	client  API
	session Session
}

// New создает CLI и подписывается на завершение сессии
func New(io iocli.IO, client API, sess Session) *Cli {
	c := &Cli{io: io, client: client, session: sess}
	sess.OnEnd(c.onSessionEnd)
	return c
}

// Run выполняет команду: args[0] имя команды, остальное ее аргументы
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "verify":
		return c.runVerify(ctx, rest)
	case "resend":
		return c.runResend(ctx, rest)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus()
	case "events":
		return c.runEvents(ctx, rest)
	case "guests":
		return c.runGuests(ctx, rest)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.io.Printf("Unknown command: %s\n\n", command)
		c.PrintUsage()
		return ErrUsage
	}
}

// onSessionEnd вызывается менеджером сессии: переход к логину
func (c *Cli) onSessionEnd(reason session.EndReason) {
	switch reason {
	case session.ReasonExpired:
		c.io.Println("Your session has expired. Please run 'eventz login' again.")
	case session.ReasonForbidden:
		c.io.Println("Access denied, your session has been closed. Please run 'eventz login' again.")
	}
}

// requireLogin возвращает ошибку, если сессии нет
func (c *Cli) requireLogin() error {
	if !c.session.IsAuthenticated() {
		return errors.New("not authenticated. Please run 'eventz login' first")
	}
	return nil
}

// prompt читает строку; пустой ввод возвращает current
func (c *Cli) prompt(label, current string) (string, error) {
	text := label + ": "
	if current != "" {
		text = fmt.Sprintf("%s [%s]: ", label, current)
	}
	value, err := c.io.ReadInput(text)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

// FormatError превращает ошибку команды в текст для пользователя.
// Ошибки валидации выводятся по полям.
func FormatError(err error) string {
	if errors.Is(err, api.ErrSessionExpired) {
		return "Error: " + api.ErrSessionExpired.Error()
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return "Error: " + err.Error()
	}

	var b strings.Builder
	msg := apiErr.Message
	if msg == "" {
		msg = string(apiErr.Kind)
	}
	b.WriteString("Error: " + msg)

	fields := make([]string, 0, len(apiErr.Fields))
	for field := range apiErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", field, apiErr.Fields[field])
	}
	return b.String()
}

func (c *Cli) PrintUsage() {
	c.io.Println("Eventz Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  eventz [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version          Show version information")
	c.io.Println("  --server URL       Server URL (default: http://localhost:5000)")
	c.io.Println("  --db PATH          Path to local session database (default: eventz-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                          Register new user")
	c.io.Println("  verify <token>                    Confirm email with the token from the verification link")
	c.io.Println("  resend [email]                    Send the verification email again")
	c.io.Println("  login                             Login to server")
	c.io.Println("  logout                            Delete local session")
	c.io.Println("  status                            Show authentication status")
	c.io.Println("  events list                       List your events")
	c.io.Println("  events create                     Create event")
	c.io.Println("  events show <id>                  Show event with guests")
	c.io.Println("  events update <id>                Edit event")
	c.io.Println("  events delete <id>                Delete event and its guests")
	c.io.Println("  guests list <event-id>            List guests of event")
	c.io.Println("  guests add <event-id>             Invite guest")
	c.io.Println("  guests update <event-id> <id>     Edit guest or RSVP status")
	c.io.Println("  guests delete <id>                Remove guest")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  eventz register")
	c.io.Println("  eventz --server https://eventz.example.com login")
	c.io.Println("  eventz events create")
}
