package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	v := viper.New()
	v.Set("APP_ENV", "test")
	v.Set("DB_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	v.Set("JWT_SECRET", "test_jwt_secret")
	v.Set("ADMIN_EMAIL", "root@example.com")
	v.Set("ADMIN_PASSWORD", "rootpass")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestBuildApp_Health(t *testing.T) {
	app, err := buildApp(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["events"])
}

func TestBuildApp_RoleAreasRequireSession(t *testing.T) {
	app, err := buildApp(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/customer/catalog", "/api/v1/vendor/listings", "/api/v1/admin/orders"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestBuildApp_BootstrapAdminCanLogin(t *testing.T) {
	app, err := buildApp(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/admin/login",
		strings.NewReader(`{"email":"root@example.com","password":"rootpass"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuildApp_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "mysql"
	_, err := buildApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}
