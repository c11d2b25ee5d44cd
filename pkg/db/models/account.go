package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is a registered user. Empty Email, PasswordHash, Provider and
// ProviderID are stored as NULL so the unique indexes only apply to set
// values.
type Account struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             string    `bun:"id,pk"`
	Email          string    `bun:"email,unique,nullzero"`
	PasswordHash   string    `bun:"password_hash,nullzero"`
	IsAdmin        bool      `bun:"is_admin,notnull,default:false"`
	EmailVerified  bool      `bun:"email_verified,notnull,default:false"`
	ProfileName    string    `bun:"profile_name,nullzero"`
	ProfilePicture string    `bun:"profile_picture,nullzero"`
	AvatarURL      string    `bun:"avatar_url,nullzero"`
	Provider       string    `bun:"provider,nullzero,unique:provider_identity"`
	ProviderID     string    `bun:"provider_id,nullzero,unique:provider_identity"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
}

// HasPassword reports whether the account can log in with a password.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}
