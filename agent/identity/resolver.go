// Package identity classifies raw account identifiers and resolves them
// against the customer directory.
package identity

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
)

// Resolver maps a raw identifier (customer id, phone number, or email)
// to a customer id. Directory errors are never surfaced: a lookup that
// fails resolves to not-found and the caller re-prompts.
type Resolver struct {
	dir contractx.CustomerDirectory
}

func NewResolver(dir contractx.CustomerDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve classifies the identifier in a fixed, exclusive order:
// all-digits is a direct customer id, a leading "+" or a formatted digit
// string longer than 5 characters is a phone number, anything containing
// "@" is an email. The order matters: a purely numeric string must never
// be treated as a phone number, and phone is checked before email since a
// phone number cannot contain "@".
func (r *Resolver) Resolve(ctx context.Context, identifier string) (string, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", false
	}

	if isDigits(identifier) {
		found, err := r.dir.LookupByID(ctx, identifier)
		if err != nil {
			log.Error().Err(err).Str("identifier", identifier).Msg("customer id lookup failed")
			return "", false
		}
		if !found {
			return "", false
		}
		return identifier, true
	}

	if looksLikePhone(identifier) {
		id, err := r.dir.LookupByPhone(ctx, identifier)
		if err != nil {
			log.Error().Err(err).Str("identifier", identifier).Msg("phone lookup failed")
			return "", false
		}
		return id, id != ""
	}

	if strings.Contains(identifier, "@") {
		id, err := r.dir.LookupByEmail(ctx, identifier)
		if err != nil {
			log.Error().Err(err).Str("identifier", identifier).Msg("email lookup failed")
			return "", false
		}
		return id, id != ""
	}

	return "", false
}

func looksLikePhone(identifier string) bool {
	if strings.HasPrefix(identifier, "+") {
		return true
	}
	if len(identifier) <= 5 {
		return false
	}
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '+':
			return -1
		}
		return r
	}, identifier)
	return stripped != "" && isDigits(stripped)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
