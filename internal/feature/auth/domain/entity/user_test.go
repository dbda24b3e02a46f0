package entity

import (
	"testing"
	"time"
)

// 2026-08-29 is a Saturday, 2026-09-01 is a Tuesday.
var (
	saturday = time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	sunday   = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	tuesday  = time.Date(2026, 9, 1, 19, 45, 0, 0, time.UTC)
)

func ptr(t time.Time) *time.Time { return &t }

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(saturday)
	want := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay(%v) = %v, want %v", saturday, got, want)
	}

	// A non-UTC time normalizes to the UTC calendar day it falls on.
	jst := time.FixedZone("JST", 9*3600)
	late := time.Date(2026, 9, 1, 1, 0, 0, 0, jst) // 2026-08-31 16:00 UTC
	if got := StartOfDay(late); !got.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay across timezone = %v", got)
	}
}

func TestCoinAward(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"saturday pays weekend rate", saturday, 50},
		{"sunday pays weekend rate", sunday, 50},
		{"monday pays weekday rate", monday, 10},
		{"tuesday pays weekday rate", tuesday, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoinAward(tt.at); got != tt.want {
				t.Errorf("CoinAward(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestUser_ApplyDailyLogin(t *testing.T) {
	tests := []struct {
		name        string
		user        User
		now         time.Time
		wantApplied bool
		wantCoins   int
		wantStreak  int
	}{
		{
			name:        "brand-new user on a saturday",
			user:        User{},
			now:         saturday,
			wantApplied: true,
			wantCoins:   50,
			wantStreak:  1,
		},
		{
			name: "tuesday with streak login yesterday continues the streak",
			user: User{
				Coins:           120,
				DailyStreak:     4,
				LastLogin:       ptr(monday),
				LastStreakLogin: ptr(monday),
			},
			now:         tuesday,
			wantApplied: true,
			wantCoins:   130,
			wantStreak:  5,
		},
		{
			name: "gap of two days resets the streak",
			user: User{
				Coins:           60,
				DailyStreak:     7,
				LastLogin:       ptr(sunday),
				LastStreakLogin: ptr(sunday),
			},
			now:         tuesday,
			wantApplied: true,
			wantCoins:   70,
			wantStreak:  1,
		},
		{
			name: "second login the same day is a no-op",
			user: User{
				Coins:           50,
				DailyStreak:     1,
				LastLogin:       ptr(saturday),
				LastStreakLogin: ptr(saturday),
			},
			now:         saturday.Add(5 * time.Hour),
			wantApplied: false,
			wantCoins:   50,
			wantStreak:  1,
		},
		{
			name: "streak continues across a month boundary",
			user: User{
				Coins:           10,
				DailyStreak:     2,
				LastLogin:       ptr(time.Date(2026, 8, 31, 23, 50, 0, 0, time.UTC)),
				LastStreakLogin: ptr(time.Date(2026, 8, 31, 23, 50, 0, 0, time.UTC)),
			},
			now:         time.Date(2026, 9, 1, 0, 5, 0, 0, time.UTC),
			wantApplied: true,
			wantCoins:   20,
			wantStreak:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			applied := u.ApplyDailyLogin(tt.now)
			if applied != tt.wantApplied {
				t.Errorf("applied = %v, want %v", applied, tt.wantApplied)
			}
			if u.Coins != tt.wantCoins {
				t.Errorf("coins = %d, want %d", u.Coins, tt.wantCoins)
			}
			if u.DailyStreak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", u.DailyStreak, tt.wantStreak)
			}
			if tt.wantApplied {
				if u.LastLogin == nil || !u.LastLogin.Equal(tt.now) {
					t.Errorf("lastLogin = %v, want %v", u.LastLogin, tt.now)
				}
				if u.LastStreakLogin == nil || !u.LastStreakLogin.Equal(tt.now) {
					t.Errorf("lastStreakLogin = %v, want %v", u.LastStreakLogin, tt.now)
				}
			}
		})
	}
}

// Two logins within the same calendar day must leave identical state after
// the second, regardless of which fields the first one touched.
func TestUser_ApplyDailyLogin_Idempotent(t *testing.T) {
	u := User{}
	if !u.ApplyDailyLogin(monday) {
		t.Fatal("first login of the day should apply")
	}
	coins, streak := u.Coins, u.DailyStreak

	if u.ApplyDailyLogin(monday.Add(9 * time.Hour)) {
		t.Error("second login of the day should not apply")
	}
	if u.Coins != coins || u.DailyStreak != streak {
		t.Errorf("state changed on repeat login: coins %d->%d streak %d->%d",
			coins, u.Coins, streak, u.DailyStreak)
	}
}

func TestUser_HasRole(t *testing.T) {
	u := User{Role: RoleAdmin}
	if !u.IsAdmin() {
		t.Error("expected admin")
	}
	if !u.HasRole(RoleUser, RoleAdmin) {
		t.Error("expected role match")
	}
	if (&User{Role: RoleUser}).HasRole(RoleAdmin) {
		t.Error("unexpected role match")
	}
}
