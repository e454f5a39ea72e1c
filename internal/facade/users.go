package facade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"hbnb/internal/domain/places"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/storage"
	"hbnb/internal/domain/users"

	"github.com/google/uuid"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return invalid("first and last name are required")
	}
	if !strings.Contains(in.Email, "@") {
		return invalid("invalid email")
	}
	if len(in.Password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

// Register creates an active, non-admin user.
func (f *Facade) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	return f.createUser(ctx, in, false)
}

// CreateAdmin creates another administrator; only admins may call it.
func (f *Facade) CreateAdmin(ctx context.Context, actor Actor, in RegisterInput) (*users.User, error) {
	if !actor.Admin {
		return nil, forbidden("admin privileges required")
	}
	return f.createUser(ctx, in, true)
}

// BootstrapAdmin creates the first administrator unless that email already exists.
func (f *Facade) BootstrapAdmin(ctx context.Context, in RegisterInput) (*users.User, error) {
	existing, err := f.store.Users.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}
	return f.createUser(ctx, in, true)
}

func (f *Facade) createUser(ctx context.Context, in RegisterInput, admin bool) (*users.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	u := &users.User{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     users.NormalizeEmail(in.Email),
		IsAdmin:   admin,
		IsActive:  true,
	}
	if err := u.Password.Set(in.Password); err != nil {
		return nil, err
	}
	if err := f.store.Users.Create(ctx, u); err != nil {
		return nil, translate(err)
	}

	f.logger.Infow("user created", "user", u.ID, "admin", admin)
	return u, nil
}

// Authenticate checks credentials. Deactivated accounts are refused even
// with the right password.
func (f *Facade) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	u, err := f.store.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := u.Password.Compare(password); err != nil {
		return nil, ErrUnauthorized
	}
	if !u.IsActive {
		return nil, forbidden("account is deactivated")
	}
	return u, nil
}

func (f *Facade) GetUser(ctx context.Context, id string) (*users.User, error) {
	u, err := f.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (f *Facade) ListUsers(ctx context.Context, actor Actor, limit, offset int) ([]*users.User, int, error) {
	if !actor.Admin {
		return nil, 0, forbidden("admin privileges required")
	}
	list, total, err := f.store.Users.List(ctx, limit, offset)
	if list == nil && err == nil {
		list = []*users.User{}
	}
	return list, total, err
}

// UpdateUser applies patch to a user. Users edit themselves; only admins may
// change email or password.
func (f *Facade) UpdateUser(ctx context.Context, actor Actor, id string, patch users.Patch) (*users.User, error) {
	if !actor.Owns(id) {
		return nil, forbidden("you can only modify your own account")
	}
	if !actor.Admin && (patch.Email != nil || patch.Password != nil) {
		return nil, forbidden("you cannot modify email or password")
	}
	if patch.Email != nil && !strings.Contains(*patch.Email, "@") {
		return nil, invalid("invalid email")
	}
	if patch.Password != nil && len(*patch.Password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}
	if (patch.FirstName != nil && strings.TrimSpace(*patch.FirstName) == "") ||
		(patch.LastName != nil && strings.TrimSpace(*patch.LastName) == "") {
		return nil, invalid("names cannot be blank")
	}

	u, err := f.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if err := u.Apply(patch); err != nil {
		return nil, err
	}
	if err := f.store.Users.Update(ctx, u); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// DeleteUser removes an account with its places, bookings and reviews.
func (f *Facade) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if !actor.Owns(id) {
		return forbidden("you can only delete your own account")
	}

	err := f.store.WithTx(ctx, func(tx *storage.Container) error {
		authored, err := tx.Reviews.ListByUser(ctx, id)
		if err != nil {
			return fmt.Errorf("list reviews of user %s: %w", id, err)
		}
		if err := tx.Users.Delete(ctx, id); err != nil {
			return err
		}

		// the user's reviews are gone with the account
		for _, placeID := range reviewedPlaces(authored) {
			err := recomputeRating(ctx, tx, placeID)
			if errors.Is(err, places.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	f.logger.Infow("user deleted", "user", id, "actor", actor.ID)
	return nil
}

// reviewedPlaces returns the distinct place ids in a stable order so row
// locks are always taken in the same sequence.
func reviewedPlaces(list []*reviews.Review) []string {
	seen := make(map[string]bool, len(list))
	ids := make([]string, 0, len(list))
	for _, rev := range list {
		if !seen[rev.PlaceID] {
			seen[rev.PlaceID] = true
			ids = append(ids, rev.PlaceID)
		}
	}
	sort.Strings(ids)
	return ids
}

// ModerateUser activates or deactivates an account. Admin accounts cannot be
// deactivated.
func (f *Facade) ModerateUser(ctx context.Context, actor Actor, id string, active bool) (*users.User, error) {
	if !actor.Admin {
		return nil, forbidden("admin privileges required")
	}
	u, err := f.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	if u.IsAdmin && !active {
		return nil, forbidden("admins cannot be deactivated")
	}
	if u.IsActive == active {
		return u, nil
	}

	u.IsActive = active
	if err := f.store.Users.Update(ctx, u); err != nil {
		return nil, translate(err)
	}
	f.logger.Infow("user moderated", "user", u.ID, "active", active, "actor", actor.ID)
	return u, nil
}

func (f *Facade) RegisterPushToken(ctx context.Context, actor Actor, token string) error {
	if strings.TrimSpace(token) == "" {
		return invalid("push token is required")
	}
	return f.store.PushTokens.Add(ctx, actor.ID, token)
}

func (f *Facade) RemovePushToken(ctx context.Context, actor Actor, token string) error {
	return f.store.PushTokens.Remove(ctx, actor.ID, token)
}
