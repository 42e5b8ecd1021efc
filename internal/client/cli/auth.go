package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/eventz/internal/client/session"
	"github.com/iudanet/eventz/internal/validation"
	"github.com/iudanet/eventz/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	resp, err := c.client.Register(ctx, api.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ " + resp.Message)
	c.io.Printf("User ID: %s\n", resp.User.ID)
	c.io.Printf("We sent a verification link to %s.\n", resp.User.Email)
	c.io.Println("Run 'eventz verify <token>' or open the link, then 'eventz login'.")
	return nil
}

func (c *Cli) runVerify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: eventz verify <token>", ErrUsage)
	}

	resp, err := c.client.VerifyEmail(ctx, args[0])
	if err != nil {
		return err
	}
	c.io.Println("✓ " + resp.Message)
	return nil
}

func (c *Cli) runResend(ctx context.Context, args []string) error {
	var email string
	switch len(args) {
	case 0:
		var err error
		if email, err = c.io.ReadInput("Email: "); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	case 1:
		email = args[0]
	default:
		return fmt.Errorf("%w: eventz resend [email]", ErrUsage)
	}

	resp, err := c.client.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	c.io.Println(resp.Message)
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	resp, err := c.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		if api.IsKind(err, api.KindEmailNotVerified) {
			c.io.Println("Email is not verified yet. Run 'eventz resend' to get a new link.")
		}
		return err
	}

	pair := api.TokenResponse{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := c.session.Start(ctx, resp.User, pair); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Logged in as %s <%s>\n", resp.User.Username, resp.User.Email)
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if !c.session.IsAuthenticated() {
		c.io.Println("Not logged in.")
		return nil
	}
	if err := c.session.Clear(ctx, session.ReasonLogout); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}

func (c *Cli) runStatus() error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	user, ok := c.session.User()
	if !ok {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'eventz login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("User ID:  %s\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Printf("Email:    %s\n", user.Email)
	return nil
}
