package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:generate mockgen -source=$GOFILE -destination=login_checker_mocks_test.go -package=auth_test

// Checker answers whether an admin session token is still valid.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}

var _ Checker = (*LoginChecker)(nil)

// LoginChecker validates tokens written by Service.Login.
type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// IsLogged reports whether token belongs to a session younger than the TTL.
// An unknown token is not an error.
func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	createdAtUnixStr, err := lc.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse session created at [%s]: %w", createdAtUnixStr, err)
	}

	age := lc.now().Sub(time.Unix(createdAtUnix, 0))
	return age <= lc.ttl, nil
}
