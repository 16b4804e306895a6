package server

import (
	"net/http"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           map[string]any{"fullName": "Ada Cook", "email": "Ada@Example.com", "password": "secret123"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate Email",
			body:           map[string]any{"fullName": "Ada Again", "email": "ada@example.com", "password": "secret123"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Missing Fields",
			body:           map[string]any{"email": "new@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Email",
			body:           map[string]any{"fullName": "Bo", "email": "not-an-email", "password": "secret123"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Weak Password",
			body:           map[string]any{"fullName": "Bo", "email": "bo@example.com", "password": "short"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/auth/signup", tt.body, "")
			assert.Equal(t, tt.expectedStatus, status, body)
		})
	}

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&stored).Error)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestSignup_ReturnsUsableToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/signup",
		map[string]any{"fullName": "Kofi", "email": "kofi@example.com", "password": "jollof2024"}, "")
	require.Equal(t, http.StatusCreated, status)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Kofi", user["fullName"])
	assert.NotContains(t, user, "password")

	status, me := env.do(t, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "kofi@example.com", me["email"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, models.RoleUser)
	inactive := env.createUser(t, models.RoleUser)
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{"Success", user.Email, testPassword, http.StatusOK},
		{"Padded Email", "  " + user.Email, testPassword, http.StatusOK},
		{"Wrong Password", user.Email, "wrongpass1", http.StatusUnauthorized},
		{"Unknown Email", "nobody@example.com", testPassword, http.StatusUnauthorized},
		{"Deactivated", inactive.Email, testPassword, http.StatusForbidden},
		{"Missing Password", user.Email, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/auth/login",
				map[string]any{"email": tt.email, "password": tt.password}, "")
			assert.Equal(t, tt.expectedStatus, status, body)
			if tt.expectedStatus == http.StatusOK {
				assert.NotEmpty(t, body["token"])
			}
		})
	}

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnvWithRedis(t)
	user := env.createUser(t, models.RoleUser)
	token := env.tokenFor(t, user)

	status, _ := env.do(t, http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env.mr.Keys(), 1)

	status, body := env.do(t, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body["error"])

	// A fresh token for the same user still works.
	status, _ = env.do(t, http.MethodGet, "/api/users/me", nil, env.tokenFor(t, user))
	assert.Equal(t, http.StatusOK, status)
}
