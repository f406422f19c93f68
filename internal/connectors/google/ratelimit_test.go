package google

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestRateLimiter_Backoff(t *testing.T) {
	rl := NewRateLimiter(DefaultDriveRateLimit)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	assert.True(t, rl.Allow())

	rl.RecordRateLimitError(0)
	assert.False(t, rl.Allow())

	rl.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.True(t, rl.Allow())
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter(DefaultDriveRateLimit)
	rl.RecordRateLimitError(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		err := WrapError(&googleapi.Error{Code: tt.code})
		assert.ErrorIs(t, err, tt.want)
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, WrapError(plain))
	assert.Nil(t, WrapError(nil))
	assert.True(t, IsRateLimited(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.True(t, IsNotFound(&googleapi.Error{Code: http.StatusNotFound}))
}

func TestCredentials_Methods(t *testing.T) {
	assert.Equal(t, []AuthMethod{AuthServiceAccount, AuthAPIKey},
		Credentials{ServiceAccountJSON: "key.json", APIKey: "k"}.Methods())
	assert.Equal(t, []AuthMethod{AuthAPIKey}, Credentials{APIKey: "k"}.Methods())
	assert.Equal(t, []AuthMethod{AuthServiceAccount}, Credentials{ServiceAccountJSON: " key.json "}.Methods())
	assert.Empty(t, Credentials{ServiceAccountJSON: "  "}.Methods())
}

func TestNewDriveService_NoCredentials(t *testing.T) {
	_, err := NewDriveService(context.Background(), Credentials{}, AuthServiceAccount)
	assert.Error(t, err)

	_, err = NewDriveService(context.Background(), Credentials{}, AuthAPIKey)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewDriveService(context.Background(), Credentials{APIKey: "k"}, "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNewDriveService_BadKeyPath(t *testing.T) {
	_, err := NewDriveService(context.Background(), Credentials{ServiceAccountJSON: "/does/not/exist.json"}, AuthServiceAccount)
	assert.Error(t, err)
}
