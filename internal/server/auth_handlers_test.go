package server

import (
	"net/http"
	"testing"

	"askme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authBody struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t, "")

	signup := map[string]string{
		"username":   "ann_lee",
		"email":      "Ann@Example.com",
		"password":   "Str0ng!Passw0rd",
		"first_name": "Ann",
	}
	var created authBody
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/auth/signup", "", signup, &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "ann_lee", created.User.Username)
	assert.Equal(t, "ann@example.com", created.User.Email)

	var profile models.Profile
	require.NoError(t, env.db.Where("user_id = ?", created.User.ID).First(&profile).Error)
	assert.Equal(t, models.DefaultAvatar, profile.Avatar)

	var errBody models.ErrorResponse
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/auth/signup", "", signup, &errBody))
	assert.Equal(t, "CONFLICT", errBody.Code)

	tests := []struct {
		name       string
		login      string
		password   string
		wantStatus int
	}{
		{name: "by username", login: "ann_lee", password: "Str0ng!Passw0rd", wantStatus: http.StatusOK},
		{name: "by email", login: "ANN@example.com", password: "Str0ng!Passw0rd", wantStatus: http.StatusOK},
		{name: "wrong password", login: "ann_lee", password: "nope", wantStatus: http.StatusUnauthorized},
		{name: "unknown user", login: "bob", password: "Str0ng!Passw0rd", wantStatus: http.StatusUnauthorized},
		{name: "missing fields", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body authBody
			status := env.do(t, http.MethodPost, "/api/auth/login", "",
				map[string]string{"login": tt.login, "password": tt.password}, &body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == http.StatusOK {
				assert.NotEmpty(t, body.Token)
				assert.Equal(t, created.User.ID, body.User.ID)
			}
		})
	}

	var me models.User
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/me", created.Token, nil, &me))
	assert.Equal(t, "Ann", me.FirstName)
	assert.NotNil(t, me.LastLogin)
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "weak password", body: map[string]string{"username": "ann", "email": "a@example.com", "password": "short"}},
		{name: "bad email", body: map[string]string{"username": "ann", "email": "nope", "password": "Str0ng!Passw0rd"}},
		{name: "bad username", body: map[string]string{"username": "a b", "email": "a@example.com", "password": "Str0ng!Passw0rd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBody models.ErrorResponse
			assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/auth/signup", "", tt.body, &errBody))
			assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
		})
	}
}
