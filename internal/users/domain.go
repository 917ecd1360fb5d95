package users

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/learnlingo/learnlingo/internal/roles"
)

// ErrDirectoryTooLarge is returned when the backend holds more profiles than
// the configured ceiling. Past that point the dashboard must aggregate
// server-side instead of over a full fetch.
var ErrDirectoryTooLarge = errors.New("users: directory exceeds record ceiling")

// unknownName replaces an empty display name in listings.
const unknownName = "Unknown User"

// ProfileRecord is one profiles row with every joined user_roles.role value,
// ordered by role row creation.
type ProfileRecord struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DisplayName   string
	AvatarURL     string
	Bio           string
	IsActive      bool
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Roles         []string
}

// User is the flat directory entry shown in the admin console.
type User struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	DisplayName   string
	AvatarURL     string
	Bio           string
	IsActive      bool
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Role          roles.Role
}

// Normalize flattens a profile record into a directory entry carrying a
// single role.
func Normalize(rec ProfileRecord) User {
	return User{
		ID:            rec.ID,
		UserID:        rec.UserID,
		DisplayName:   rec.DisplayName,
		AvatarURL:     rec.AvatarURL,
		Bio:           rec.Bio,
		IsActive:      rec.IsActive,
		EmailVerified: rec.EmailVerified,
		LastLoginAt:   rec.LastLoginAt,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		Role:          roles.FromRows(rec.Roles),
	}
}

// Name returns the display name, or a placeholder when none is set.
func (u User) Name() string {
	if u.DisplayName == "" {
		return unknownName
	}
	return u.DisplayName
}

// ProfileUpdate carries the editable profile fields from the edit form.
type ProfileUpdate struct {
	DisplayName string `validate:"max=80"`
	Bio         string `validate:"max=500"`
	IsActive    bool
	Role        string `validate:"required,oneof=user moderator admin"`
}

// ProfileFields is the column set written by a profile update.
type ProfileFields struct {
	DisplayName string
	Bio         string
	IsActive    bool
}
