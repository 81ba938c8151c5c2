package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/internal/db"
	"github.com/cwhuang/quote-app/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// unique in-memory database per test to avoid cross-test collisions
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// authedRequest builds a request carrying the user in its context, the
// way the session middleware would after RequireAuth.
func authedRequest(user models.User, method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	return r.WithContext(auth.WithUserID(r.Context(), user.ID))
}
