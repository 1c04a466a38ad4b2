package shortlinks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeShape(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		require.True(t, ValidCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 495)
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("aZ09xyQ"))
	assert.False(t, ValidCode("short"))
	assert.False(t, ValidCode("abc-def"))
	assert.False(t, ValidCode("abcdefgh"))
}

func TestCreateRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.PutIfAbsent(ctx, Link{Code: "AAAAAAA", TargetURL: "https://x.test"}, 0)
	require.NoError(t, err)

	codes := []string{"AAAAAAA", "AAAAAAA", "BBBBBBB"}
	svc := NewService(store, "https://insp.test/", time.Hour)
	svc.newCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}

	link, err := svc.Create(ctx, "https://insp.test/r/abc")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBB", link.Code)
	assert.Equal(t, "https://insp.test/s/BBBBBBB", svc.URL(link.Code))
	assert.Equal(t, link.CreatedAt.Add(time.Hour), link.ExpiresAt)
}

func TestCreateExhausted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.PutIfAbsent(ctx, Link{Code: "AAAAAAA", TargetURL: "https://x.test"}, 0)
	require.NoError(t, err)

	svc := NewService(store, "https://insp.test", 0)
	calls := 0
	svc.newCode = func() (string, error) {
		calls++
		return "AAAAAAA", nil
	}

	_, err = svc.Create(ctx, "https://insp.test/r/abc")
	assert.ErrorIs(t, err, ErrCodeExhausted)
	assert.Equal(t, maxAttempts, calls)
}

func TestCreateRejectsRelativeTarget(t *testing.T) {
	svc := NewService(NewMemoryStore(), "https://insp.test", 0)
	for _, target := range []string{"", "/r/abc", "ftp://insp.test/r", "javascript:alert(1)"} {
		_, err := svc.Create(context.Background(), target)
		assert.ErrorIs(t, err, ErrInvalidInput, target)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	ok, err := store.PutIfAbsent(ctx, Link{Code: "CCCCCCC", TargetURL: "https://x.test"}, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = store.Get(ctx, "CCCCCCC")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "CCCCCCC")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err = store.PutIfAbsent(ctx, Link{Code: "CCCCCCC", TargetURL: "https://y.test"}, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client)

	link := Link{Code: "DDDDDDD", TargetURL: "https://insp.test/r/1", CreatedAt: time.Now().UTC()}
	ok, err := store.PutIfAbsent(ctx, link, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Hour, mr.TTL("shortlink:DDDDDDD"))

	ok, err = store.PutIfAbsent(ctx, link, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Get(ctx, "DDDDDDD")
	require.NoError(t, err)
	assert.Equal(t, "https://insp.test/r/1", got.TargetURL)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "DDDDDDD")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedirectHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryStore(), "https://insp.test", time.Hour)
	link, err := svc.Create(context.Background(), "https://insp.test/r/xyz")
	require.NoError(t, err)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/s/"+link.Code, nil))
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "https://insp.test/r/xyz", resp.Header().Get("Location"))

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/s/zzzzzzz", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
