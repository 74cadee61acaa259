package models

import (
	"time"

	"modstore/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Username        string     `gorm:"uniqueIndex;size:64;not null;default:''" json:"username"`
	Email           string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255" json:"-"`
	Role            string     `gorm:"size:20;not null;index" json:"role"` // USER | ADMIN
	DiscordID       *string    `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL       string     `gorm:"size:512" json:"avatar_url"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	// Linked game platform. Informational only: download authorization is
	// decided solely by the purchases ledger, never by the Steam link.
	SteamID       *string    `gorm:"uniqueIndex;size:32" json:"steam_id,omitempty"`
	SteamUsername string     `gorm:"size:64" json:"steam_username,omitempty"`
	SteamAvatar   string     `gorm:"size:512" json:"-"`
	SteamLinkedAt *time.Time `json:"steam_linked_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// Providers lists the identity providers linked to this account.
func (u *User) Providers() []string {
	var out []string
	if u.PasswordHash != "" {
		out = append(out, domain.ProviderEmail)
	}
	if u.DiscordID != nil {
		out = append(out, domain.ProviderDiscord)
	}
	if u.SteamID != nil {
		out = append(out, domain.ProviderSteam)
	}
	return out
}
