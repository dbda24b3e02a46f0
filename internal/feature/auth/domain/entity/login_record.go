package entity

import "time"

// LoginActivity is one entry of the chronological login log.
// Exactly one row is appended per user per calendar day, by the same guarded
// update that advances the gamification counters.
type LoginActivity struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	UserID   uint      `gorm:"index;not null" json:"-"`
	LoggedAt time.Time `gorm:"not null" json:"loggedAt"`
}

// TableName returns the table name for GORM.
func (LoginActivity) TableName() string {
	return "login_activities"
}

// LoginRecord is the coarse per-day analytics counter: how many times a user
// logged in on a given calendar day. Unique on (user, day); repeat same-day
// logins increment Count.
type LoginRecord struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	UserID uint      `gorm:"uniqueIndex:idx_login_records_user_day;not null" json:"-"`
	Day    time.Time `gorm:"uniqueIndex:idx_login_records_user_day;not null" json:"day"`
	Count  int       `gorm:"not null;default:1" json:"count"`
}

// TableName returns the table name for GORM.
func (LoginRecord) TableName() string {
	return "login_records"
}
