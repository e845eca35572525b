package model

import (
	"slices"
	"taskpal/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "authorized_users"
	EntityName = "authorized user"

	FieldID           = "id"
	FieldClientID     = "client_id"
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRelationship = "relationship"
	FieldPermissions  = "permissions"
	FieldExpiresAt    = "expires_at"
	FieldActive       = "active"
)

// AuthorizedUser is a delegate allowed to act for a client within Permissions.
type AuthorizedUser struct {
	ID           string         `db:"id"`
	ClientID     string         `db:"client_id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Password     string         `db:"password"`
	Relationship string         `db:"relationship"`
	Permissions  pq.StringArray `db:"permissions"`
	ExpiresAt    time.Time      `db:"expires_at"`
	Active       bool           `db:"active"`
	model.Metadata
}

func (a AuthorizedUser) Expired(now time.Time) bool {
	return !a.ExpiresAt.After(now)
}

// Usable reports whether the delegate may still sign in or refresh a token.
func (a AuthorizedUser) Usable(now time.Time) bool {
	return a.Active && !a.Expired(now)
}

func (a AuthorizedUser) Can(scope string) bool {
	return slices.Contains(a.Permissions, scope)
}
