package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestAuthService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		assert.Equal(t, tokenLength, s)
		return testToken, nil
	}

	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, now.Unix(), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, err := authService.Login(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Login_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(time.Hour, db)

	randErr := errors.New("no entropy")
	authService.RandStringFunc = func(int) (string, error) {
		return "", randErr
	}
	_, err := authService.Login(context.Background(), time.Now())
	assert.ErrorIs(t, err, randErr)

	authService.RandStringFunc = func(int) (string, error) {
		return "tkn", nil
	}
	now := time.Now()
	mock.ExpectSet(sessionKeyPrefix+"tkn", now.Unix(), 0).SetErr(errors.New("redis down"))
	token, err := authService.Login(context.Background(), now)
	assert.EqualError(t, err, "redis down")
	assert.Empty(t, token)
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(time.Hour, db)

	mock.ExpectDel(sessionKeyPrefix + "tkn").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "tkn").SetVal(1)
	existed, err := authService.Logout(context.Background(), "tkn")
	require.NoError(t, err)
	assert.True(t, existed)

	mock.ExpectDel(sessionKeyPrefix + "gone").SetVal(0)
	mock.ExpectSRem(tokensSetKey, "gone").SetVal(0)
	existed, err = authService.Logout(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, existed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(ttl, rdb)
	require.NotNil(t, authService)

	t1, t2, t3 := "token1", "token2", "token3"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2, t3})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(fmt.Sprintf("%d", then.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t3).RedisNil()
	// t1 expired, t3 lost its session key, t2 stays
	mock.ExpectDel(sessionKeyPrefix + t1).SetVal(1)
	mock.ExpectSRem(tokensSetKey, t1).SetVal(1)
	mock.ExpectDel(sessionKeyPrefix + t3).SetVal(0)
	mock.ExpectSRem(tokensSetKey, t3).SetVal(1)

	authService.ScanAndClean(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean_NoSessions(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(time.Hour, rdb)
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{})

	authService.ScanAndClean(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_RunCleaner_StopsOnCancel(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(time.Hour, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		authService.RunCleaner(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleaner did not stop")
	}
}
