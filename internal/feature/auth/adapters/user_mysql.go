// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub_backend/internal/feature/auth/domain/entity"
	"learnhub_backend/internal/feature/auth/usecase"
)

// userMySQL is a GORM implementation of the user repository consumed by the
// auth and user usecases.
type userMySQL struct {
	db *gorm.DB
}

// Compile-time check that userMySQL satisfies the auth usecase contract.
var _ usecase.UserRepository = (*userMySQL)(nil)

// NewUserMySQL creates a new instance of userMySQL for dependency injection.
func NewUserMySQL(db *gorm.DB) *userMySQL {
	return &userMySQL{db: db}
}

// isDuplicateKey detects unique-constraint violations for both the MySQL
// driver (errno 1062) and GORM's translated error (used by the SQLite tests).
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// scope returns a query optionally restricted to active (non soft-deleted)
// accounts. The predicate is explicit at every call site rather than a global
// hook, so flows that need inactive records say so.
func (r *userMySQL) scope(ctx context.Context, onlyActive bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	return q
}

// Create adds a user to the database.
// A duplicate email yields usecase.ErrEmailAlreadyExists.
func (r *userMySQL) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by email address.
func (r *userMySQL) FindByEmail(ctx context.Context, email string, onlyActive bool) (*entity.User, error) {
	var u entity.User
	if err := r.scope(ctx, onlyActive).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by ID.
func (r *userMySQL) FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error) {
	var u entity.User
	if err := r.scope(ctx, onlyActive).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByResetTokenHash retrieves the active user holding an unexpired reset
// token with the given hash.
func (r *userMySQL) FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*entity.User, error) {
	var u entity.User
	err := r.scope(ctx, true).
		Where("password_reset_token = ? AND password_reset_expires > ?", hash, now).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update persists all mutable fields of the user, including cleared ones
// (e.g. a consumed reset token writes back as NULL).
func (r *userMySQL) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Deactivate soft-deletes an account. The row is retained; standard reads
// exclude it via the active predicate.
func (r *userMySQL) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// ListActive returns all active users, newest first.
func (r *userMySQL) ListActive(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.scope(ctx, true).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ApplyDailyLogin advances the gamification counters for a login at now.
//
// The first-login-of-day transition is a read-modify-write; two concurrent
// first logins for the same user must not double-award. The write is guarded
// by a conditional UPDATE on the stored last_login, so only one request per
// user per day can win it. The loser reloads the winner's state and reports
// first=false. The per-day login counter is bumped unconditionally via an
// upsert.
func (r *userMySQL) ApplyDailyLogin(ctx context.Context, u *entity.User, now time.Time) (bool, error) {
	first := u.ApplyDailyLogin(now)
	if first {
		res := r.db.WithContext(ctx).
			Model(&entity.User{}).
			Where("id = ? AND (last_login IS NULL OR last_login < ?)", u.ID, entity.StartOfDay(now)).
			Updates(map[string]interface{}{
				"coins":             u.Coins,
				"daily_streak":      u.DailyStreak,
				"last_login":        now,
				"last_streak_login": now,
			})
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent login won the transition; adopt its state.
			fresh, err := r.FindByID(ctx, u.ID, true)
			if err != nil {
				return false, err
			}
			*u = *fresh
			first = false
		} else {
			activity := &entity.LoginActivity{UserID: u.ID, LoggedAt: now}
			if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
				return false, err
			}
		}
	}

	record := &entity.LoginRecord{UserID: u.ID, Day: entity.StartOfDay(now), Count: 1}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
		}).
		Create(record).Error
	if err != nil {
		return false, err
	}
	return first, nil
}

// LoginHistory returns the chronological login log for a user, oldest first.
func (r *userMySQL) LoginHistory(ctx context.Context, userID uint) ([]entity.LoginActivity, error) {
	var activities []entity.LoginActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
