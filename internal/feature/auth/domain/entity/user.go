// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role classifies a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// LearningType classifies how quickly a user works through material.
type LearningType string

const (
	LearningFast   LearningType = "fast"
	LearningMedium LearningType = "medium"
	LearningSlow   LearningType = "slow"
)

// Coin awards for the first login of a calendar day.
const (
	WeekdayCoinAward = 10
	WeekendCoinAward = 50
)

// DefaultPhotoURL is used when a user has not uploaded a profile image.
const DefaultPhotoURL = "/uploads/default.jpg"

// User represents a registered user in the system.
// It carries authentication credentials plus the gamification counters
// (coins, daily streak) that are advanced on the first login of each day.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Name is the user's display name.
	Name string `gorm:"size:100;not null" json:"name"`

	// Email is the user's email address used for authentication.
	// It is stored lowercase and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	// Password is the bcrypt hash for the user.
	// This never stores plaintext and is never serialized to clients.
	Password string `gorm:"size:255;not null" json:"-"`

	PhotoURL      string       `gorm:"size:255" json:"photo"`
	Bio           string       `gorm:"size:1000" json:"bio,omitempty"`
	Role          Role         `gorm:"size:20;not null;default:'user'" json:"role"`
	Qualification string       `gorm:"size:255" json:"qualification,omitempty"`
	LearningType  LearningType `gorm:"size:20;not null;default:'medium'" json:"learningType"`

	// Active marks the account as live. Deactivated accounts are retained
	// (soft delete) but excluded from standard reads.
	Active bool `gorm:"not null;default:true" json:"-"`

	// PasswordChangedAt invalidates session tokens issued before a
	// password change.
	PasswordChangedAt *time.Time `json:"-"`

	// PasswordResetToken holds only the sha256 hex of the reset token; the
	// plain token leaves the system exactly once, via email.
	PasswordResetToken   string     `gorm:"size:64;index" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	Coins       int `gorm:"not null;default:0" json:"coins"`
	DailyStreak int `gorm:"not null;default:0" json:"dailyStreak"`

	// LastLogin is the timestamp of the most recent first-login-of-day.
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	// LastStreakLogin is the timestamp the streak was last advanced.
	LastStreakLogin *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasRole reports whether the user's role is one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// StartOfDay normalizes t to UTC midnight. All calendar-day comparisons
// (streaks, first-login-of-day) use UTC days so behavior does not shift
// across DST transitions or deployment timezones.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CoinAward returns the coins granted for a first login at t:
// 50 on Saturday and Sunday, 10 otherwise.
func CoinAward(t time.Time) int {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return WeekendCoinAward
	default:
		return WeekdayCoinAward
	}
}

// LoggedInOn reports whether the user already had a first-login on the
// calendar day containing t.
func (u *User) LoggedInOn(t time.Time) bool {
	return u.LastLogin != nil && StartOfDay(*u.LastLogin).Equal(StartOfDay(t))
}

// ApplyDailyLogin advances the gamification counters for a login at now.
//
// On the first login of a calendar day it awards coins, continues or resets
// the streak, and sets LastLogin and LastStreakLogin to now, returning true.
// Any later login on the same day leaves the user untouched and returns
// false, so the transition is idempotent within a day. A brand-new user
// (no prior streak login) starts at streak 1.
func (u *User) ApplyDailyLogin(now time.Time) bool {
	if u.LoggedInOn(now) {
		return false
	}

	u.Coins += CoinAward(now)

	yesterday := StartOfDay(now).AddDate(0, 0, -1)
	if u.LastStreakLogin != nil && StartOfDay(*u.LastStreakLogin).Equal(yesterday) {
		u.DailyStreak++
	} else {
		u.DailyStreak = 1
	}

	t := now
	u.LastLogin = &t
	u.LastStreakLogin = &t
	return true
}
