package usecase

import (
	"context"
	"time"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

// Authenticator creates identities in the auth backend; the store never
// holds credentials.
type Authenticator interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
}

// UserUseCase owns the user projection. Registration is the only place a
// user record is born; the counters it seeds at zero are maintained
// imperatively by the coordinators from then on.
type UserUseCase struct {
	store repository.ProjectionStore
	auth  Authenticator
}

func NewUserUseCase(store repository.ProjectionStore, auth Authenticator) *UserUseCase {
	return &UserUseCase{
		store: store,
		auth:  auth,
	}
}

// Register creates the auth identity and seeds the user record under the
// returned uid.
func (uc *UserUseCase) Register(ctx context.Context, email, password, username string) (*entity.User, error) {
	if email == "" || password == "" || username == "" {
		return nil, errors.Validation("email, password and username are required", nil)
	}

	uid, err := uc.auth.CreateUser(ctx, email, password, username)
	if err != nil {
		return nil, errors.BadRequest("Failed to create user", err)
	}

	user := &entity.User{
		ID:       uid,
		Username: username,
		Email:    email,
		JoinDate: time.Now().UTC(),
	}

	if err := uc.store.Set(ctx, repository.UserPath(uid), user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) Profile(ctx context.Context, userID string) (*entity.User, error) {
	var user entity.User
	if err := uc.store.Get(ctx, repository.UserPath(userID), &user); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("User", nil)
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the caller-editable profile fields. Counters and
// thread lists are coordinator-owned and cannot be patched here.
type ProfileUpdate struct {
	Username string
	Avatar   string
	Address  string
	Phone    string
}

// UpdateProfile patches the editable fields field-by-field so a concurrent
// counter bump on the same record is never overwritten.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*entity.User, error) {
	user, err := uc.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Username != "" {
		updates[repository.UserFieldPath(userID, "username")] = update.Username
		user.Username = update.Username
	}
	if update.Avatar != "" {
		updates[repository.UserFieldPath(userID, "avatar")] = update.Avatar
		user.Avatar = update.Avatar
	}
	if update.Address != "" {
		updates[repository.UserFieldPath(userID, "address")] = update.Address
		user.Address = update.Address
	}
	if update.Phone != "" {
		updates[repository.UserFieldPath(userID, "phone")] = update.Phone
		user.Phone = update.Phone
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return nil, err
	}

	return user, nil
}
