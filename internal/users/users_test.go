package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceUpsertNormalizes(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, err := svc.Upsert(context.Background(), User{ID: "u1", ShopID: "s1", Email: " Tech@Shop.COM "})
	require.NoError(t, err)
	assert.Equal(t, "tech@shop.com", user.Email)
	assert.Equal(t, RoleTechnician, user.Role)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = svc.Upsert(context.Background(), User{ID: "u2", ShopID: "s1", Email: "a@b.c", Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), User{ID: "u3", Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

const (
	pgUserID = "3f1d2a9e-5c4b-4e8a-9d7f-1b2c3d4e5f60"
	pgShopID = "7d8a5c1e-3b0f-4a61-9a52-2f1c7c3e9b10"
)

var userRowColumns = []string{"id", "shop_id", "email", "full_name", "role", "created_at", "updated_at"}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(pgUserID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(pgUserID, pgShopID, "tech@shop.com", "Pat Lee", "advisor", now, now))

	user, err := (&PGRepo{DB: db}).GetByID(context.Background(), pgUserID)
	require.NoError(t, err)
	assert.Equal(t, "Pat Lee", user.FullName)
	assert.Equal(t, RoleAdvisor, user.Role)

	_, err = (&PGRepo{DB: db}).GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoUpsertMapsDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(pgUserID, pgShopID, "pat@shop.com", "Pat Lee", RoleOwner).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := &PGRepo{DB: db}
	err = repo.Upsert(context.Background(), User{ID: pgUserID, ShopID: pgShopID, Email: "pat@shop.com", FullName: "Pat Lee", Role: RoleOwner})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = repo.Upsert(context.Background(), User{ID: "u1", ShopID: pgShopID, Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByShop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE shop_id = $1 ORDER BY email")).
		WithArgs(pgShopID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(pgUserID, pgShopID, "pat@shop.com", "Pat Lee", "owner", now, now))

	members, err := (&PGRepo{DB: db}).ListByShop(context.Background(), pgShopID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, RoleOwner, members[0].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryRepoIndexes(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return created }

	require.NoError(t, repo.Upsert(ctx, User{ID: "u1", ShopID: "s1", Email: "pat@shop.com", Role: RoleOwner}))
	require.NoError(t, repo.Upsert(ctx, User{ID: "u2", ShopID: "s1", Email: "alex@shop.com", Role: RoleTechnician}))
	require.NoError(t, repo.Upsert(ctx, User{ID: "u3", ShopID: "s2", Email: "sam@other.com", Role: RoleAdvisor}))

	err := repo.Upsert(ctx, User{ID: "u4", ShopID: "s2", Email: "pat@shop.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	members, err := repo.ListByShop(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alex@shop.com", members[0].Email)
	assert.Equal(t, "pat@shop.com", members[1].Email)

	repo.now = func() time.Time { return created.Add(time.Hour) }
	require.NoError(t, repo.Upsert(ctx, User{ID: "u2", ShopID: "s2", Email: "alex@other.com", Role: RoleTechnician}))

	members, err = repo.ListByShop(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	members, err = repo.ListByShop(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	moved, err := repo.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, created, moved.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), moved.UpdatedAt)

	require.NoError(t, repo.Upsert(ctx, User{ID: "u4", ShopID: "s2", Email: "alex@shop.com"}))

	empty, err := repo.ListByShop(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMeFallsBackToTokenIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	_, err := svc.Upsert(context.Background(), User{ID: "u1", ShopID: "s1", Email: "pat@shop.com", FullName: "Pat Lee"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Set("shopId", "s1")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	for _, tc := range []struct {
		userID   string
		wantName string
		wantRole string
	}{
		{userID: "u1", wantName: "Pat Lee", wantRole: RoleTechnician},
		{userID: "u2", wantName: "", wantRole: RoleTechnician},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("X-User-Id", tc.userID)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var got User
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
		assert.Equal(t, tc.userID, got.ID)
		assert.Equal(t, "s1", got.ShopID)
		assert.Equal(t, tc.wantName, got.FullName)
		assert.Equal(t, tc.wantRole, got.Role)
	}
}

func TestUpdateMeStoresProfileFromIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	_, err := svc.Upsert(context.Background(), User{ID: "u9", ShopID: "s1", Email: "taken@shop.com"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-User-Id"))
		c.Set("shopId", "s1")
		c.Set("userRole", c.GetHeader("X-User-Role"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	put := func(userID, role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/me", bytes.NewBufferString(body))
		req.Header.Set("X-User-Id", userID)
		req.Header.Set("X-User-Role", role)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp
	}

	resp := put("u1", RoleOwner, `{"email":" Pat@Shop.com ","fullName":"Pat Lee"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var saved User
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &saved))
	assert.Equal(t, "u1", saved.ID)
	assert.Equal(t, "s1", saved.ShopID)
	assert.Equal(t, "pat@shop.com", saved.Email)
	assert.Equal(t, RoleOwner, saved.Role)

	resp = put("u1", "", `{"email":"pat@shop.com","fullName":"Pat J. Lee"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &saved))
	assert.Equal(t, RoleOwner, saved.Role)
	assert.Equal(t, "Pat J. Lee", saved.FullName)

	assert.Equal(t, http.StatusConflict, put("u2", "", `{"email":"taken@shop.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put("u3", "", `{"fullName":"No Email"}`).Code)
	assert.Equal(t, http.StatusBadRequest, put("u3", "", `nope`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shop/users", nil)
	list := httptest.NewRecorder()
	r.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)
	var payload struct {
		Items []User `json:"items"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &payload))
	require.Len(t, payload.Items, 2)
	assert.Equal(t, "pat@shop.com", payload.Items[0].Email)
}
