// Package usecase implements the business logic for the user feature:
// profile reads and edits, soft deletion and the admin listing.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"learnhub_backend/internal/feature/auth/domain/entity"
)

// ErrInvalidLearningType is returned when a profile edit carries an unknown
// learning-type value.
var ErrInvalidLearningType = errors.New("learning type must be fast, medium or slow")

// UserRepository abstracts the persistence operations this feature needs.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type UserRepository interface {
	FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Deactivate(ctx context.Context, id uint) error
	LoginHistory(ctx context.Context, userID uint) ([]entity.LoginActivity, error)
}

// UserLister serves the admin listing. The production wiring decorates the
// repository with a Redis cache; Invalidate drops that cache after writes.
type UserLister interface {
	ListActive(ctx context.Context) ([]entity.User, error)
	Invalidate(ctx context.Context) error
}

// ProfileUpdate carries the optional profile fields of a PATCH; nil means
// "leave unchanged".
type ProfileUpdate struct {
	Name          *string
	Bio           *string
	Qualification *string
	LearningType  *string
	PhotoURL      *string
}

// UserUsecase implements profile and listing operations.
type UserUsecase struct {
	users  UserRepository
	lister UserLister
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(users UserRepository, lister UserLister) *UserUsecase {
	return &UserUsecase{users: users, lister: lister}
}

// Profile returns the user together with their chronological login log.
func (u *UserUsecase) Profile(ctx context.Context, user *entity.User) (*entity.User, []entity.LoginActivity, error) {
	history, err := u.users.LoginHistory(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load login history: %w", err)
	}
	return user, history, nil
}

// UpdateProfile applies the provided fields to the user and persists them.
func (u *UserUsecase) UpdateProfile(ctx context.Context, user *entity.User, upd ProfileUpdate) (*entity.User, error) {
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Qualification != nil {
		user.Qualification = *upd.Qualification
	}
	if upd.LearningType != nil {
		lt := entity.LearningType(*upd.LearningType)
		switch lt {
		case entity.LearningFast, entity.LearningMedium, entity.LearningSlow:
			user.LearningType = lt
		default:
			return nil, ErrInvalidLearningType
		}
	}
	if upd.PhotoURL != nil {
		user.PhotoURL = *upd.PhotoURL
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	// Listing cache is stale after any profile write.
	_ = u.lister.Invalidate(ctx)
	return user, nil
}

// Deactivate soft-deletes the account. The record remains for history but
// disappears from all standard reads.
func (u *UserUsecase) Deactivate(ctx context.Context, id uint) error {
	if err := u.users.Deactivate(ctx, id); err != nil {
		return err
	}
	_ = u.lister.Invalidate(ctx)
	return nil
}

// List returns all active users for the admin listing.
func (u *UserUsecase) List(ctx context.Context) ([]entity.User, error) {
	return u.lister.ListActive(ctx)
}
