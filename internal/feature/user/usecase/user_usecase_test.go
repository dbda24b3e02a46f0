package usecase

import (
	"context"
	"errors"
	"testing"

	"learnhub_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	FindByIDFunc     func(ctx context.Context, id uint, onlyActive bool) (*entity.User, error)
	UpdateFunc       func(ctx context.Context, user *entity.User) error
	DeactivateFunc   func(ctx context.Context, id uint) error
	LoginHistoryFunc func(ctx context.Context, userID uint) ([]entity.LoginActivity, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint, onlyActive bool) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id, onlyActive)
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Deactivate(ctx context.Context, id uint) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

func (m *mockUserRepository) LoginHistory(ctx context.Context, userID uint) ([]entity.LoginActivity, error) {
	if m.LoginHistoryFunc != nil {
		return m.LoginHistoryFunc(ctx, userID)
	}
	return nil, nil
}

// mockUserLister is a mock implementation of the UserLister interface.
type mockUserLister struct {
	ListActiveFunc func(ctx context.Context) ([]entity.User, error)
	invalidations  int
}

func (m *mockUserLister) ListActive(ctx context.Context) ([]entity.User, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserLister) Invalidate(ctx context.Context) error {
	m.invalidations++
	return nil
}

func strp(s string) *string { return &s }

func TestUserUsecase_UpdateProfile(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		var saved *entity.User
		repo := &mockUserRepository{
			UpdateFunc: func(ctx context.Context, user *entity.User) error {
				saved = user
				return nil
			},
		}
		lister := &mockUserLister{}
		uc := NewUserUsecase(repo, lister)

		user := &entity.User{ID: 1, Name: "Ada", Bio: "old bio", LearningType: entity.LearningMedium}
		got, err := uc.UpdateProfile(context.Background(), user, ProfileUpdate{
			Bio:          strp("new bio"),
			LearningType: strp("fast"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Ada" {
			t.Errorf("name changed unexpectedly: %q", got.Name)
		}
		if saved.Bio != "new bio" || saved.LearningType != entity.LearningFast {
			t.Errorf("update not applied: %+v", saved)
		}
		if lister.invalidations != 1 {
			t.Errorf("listing cache invalidations = %d, want 1", lister.invalidations)
		}
	})

	t.Run("rejects unknown learning type", func(t *testing.T) {
		uc := NewUserUsecase(&mockUserRepository{}, &mockUserLister{})
		user := &entity.User{ID: 1, LearningType: entity.LearningMedium}
		_, err := uc.UpdateProfile(context.Background(), user, ProfileUpdate{
			LearningType: strp("hyperspeed"),
		})
		if !errors.Is(err, ErrInvalidLearningType) {
			t.Errorf("err = %v, want ErrInvalidLearningType", err)
		}
	})
}

func TestUserUsecase_Deactivate(t *testing.T) {
	deactivated := uint(0)
	repo := &mockUserRepository{
		DeactivateFunc: func(ctx context.Context, id uint) error {
			deactivated = id
			return nil
		},
	}
	lister := &mockUserLister{}
	uc := NewUserUsecase(repo, lister)

	if err := uc.Deactivate(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deactivated != 7 {
		t.Errorf("deactivated id = %d, want 7", deactivated)
	}
	if lister.invalidations != 1 {
		t.Errorf("listing cache invalidations = %d, want 1", lister.invalidations)
	}
}

func TestUserUsecase_Profile(t *testing.T) {
	repo := &mockUserRepository{
		LoginHistoryFunc: func(ctx context.Context, userID uint) ([]entity.LoginActivity, error) {
			return []entity.LoginActivity{{UserID: userID}, {UserID: userID}}, nil
		},
	}
	uc := NewUserUsecase(repo, &mockUserLister{})

	user := &entity.User{ID: 3}
	got, history, err := uc.Profile(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 3 || len(history) != 2 {
		t.Errorf("profile = %+v history = %d entries", got, len(history))
	}
}
