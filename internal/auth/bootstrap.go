package auth

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/weeklyblog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=bootstrap_mocks_test.go -package=auth_test

type usersStore interface {
	UserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
}

// EnsureDefaultAdmin creates the admin user when no user with username exists yet.
// It returns true when the user was created.
func EnsureDefaultAdmin(ctx context.Context, users usersStore, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("admin username and password must be set")
	}

	_, err := users.UserByUsername(ctx, username)
	if err == nil {
		log.Debugf("admin user [%s] already exists", username)
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("get admin user: %w", err)
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := users.CreateUser(ctx, username, passwordHash); err != nil {
		if errors.Is(err, ErrUserExists) {
			// created by another instance in the meantime
			return false, nil
		}
		return false, fmt.Errorf("create admin user: %w", err)
	}

	log.Warnf("created default admin user [%s], change the password if it is still the default one", username)
	return true, nil
}
