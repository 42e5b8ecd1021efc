package validation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrDomainNotFound домен email не принимает почту
var ErrDomainNotFound = errors.New("email domain does not exist")

// Resolver подмножество net.Resolver, нужное для проверки домена
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// DomainChecker проверяет, что домен email может принимать почту:
// есть MX запись и домен резолвится в IPv4 или IPv6 адрес.
type DomainChecker struct {
	resolver Resolver
}

// NewDomainChecker создает проверку домена. nil означает net.DefaultResolver.
func NewDomainChecker(r Resolver) *DomainChecker {
	if r == nil {
		r = net.DefaultResolver
	}
	return &DomainChecker{resolver: r}
}

// Check возвращает ErrDomainNotFound, если домен не проходит проверку.
// Ошибки DNS (кроме "not found") тоже считаются отказом.
func (c *DomainChecker) Check(ctx context.Context, email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return fmt.Errorf("%w: malformed address", ErrDomainNotFound)
	}
	domain := strings.ToLower(email[at+1:])

	mx, err := c.resolver.LookupMX(ctx, domain)
	if err != nil || len(mx) == 0 {
		return fmt.Errorf("%w: no MX records for %s", ErrDomainNotFound, domain)
	}

	if ips, err := c.resolver.LookupIP(ctx, "ip4", domain); err == nil && len(ips) > 0 {
		return nil
	}
	if ips, err := c.resolver.LookupIP(ctx, "ip6", domain); err == nil && len(ips) > 0 {
		return nil
	}

	return fmt.Errorf("%w: %s does not resolve", ErrDomainNotFound, domain)
}
