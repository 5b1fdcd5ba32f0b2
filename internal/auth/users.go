package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/pkg"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type User struct {
	ID           int
	Username     string
	PasswordHash string
	IsAdmin      bool
}

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) UserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.UserByUsername")
	defer tracing.EndSpanWithErrCheck(span, &err)

	u := &User{}
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, is_admin FROM users WHERE username = $1;`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UsersRepo) CreateUser(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.CreateUser")
	defer tracing.EndSpanWithErrCheck(span, &err)

	u := &User{
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      true,
	}
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id;`,
		u.Username, u.PasswordHash, u.IsAdmin,
	).Scan(&u.ID); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return u, nil
}
