package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"siteledger.app/api/config"
	"siteledger.app/api/middleware"
	"siteledger.app/api/models"
	"siteledger.app/api/routes"
)

// setupServer gives each test its own in-memory database, runs the real
// migrations against it and returns the full router.
func setupServer(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrations(db))
	config.DB = db

	return routes.RegisterRoutes()
}

func createUser(t *testing.T, u models.User) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	require.NoError(t, err)
	u.PasswordHash = string(hash)
	u.Active = true
	require.NoError(t, config.DB.Create(&u).Error)
	return u
}

func createOwner(t *testing.T, email string) (models.User, string) {
	t.Helper()
	u := createUser(t, models.User{Email: email, Name: "Owner", Role: models.RoleOwner})
	return u, tokenFor(t, u)
}

func createWorker(t *testing.T, owner models.User, email string, hourlyRate float64) (models.User, string) {
	t.Helper()
	u := createUser(t, models.User{
		Email:      email,
		Name:       "Worker",
		Role:       models.RoleWorker,
		OwnerID:    &owner.ID,
		HourlyRate: &hourlyRate,
	})
	return u, tokenFor(t, u)
}

func tokenFor(t *testing.T, u models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(u.ID.String(), u.Role, u.Name, u.Email)
	require.NoError(t, err)
	return token
}

// do runs one request through the router and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}
