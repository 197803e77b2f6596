package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
)

func TestIdentityServiceGetUser(t *testing.T) {
	userId := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/"+userId.String(), r.URL.Path)
		json.NewEncoder(w).Encode(models.WebResponse[models.IdentityUser]{
			Success: true,
			Data: models.IdentityUser{
				ID:       userId,
				Username: "inspector01",
				Email:    "inspector01@example.com",
				Role:     models.IdentityRoleInspector,
			},
		})
	}))
	defer server.Close()

	infrastructures.Config = &infrastructures.AppConfig{IDENTITY_BASE_URL: server.URL}

	user, err := NewIdentityService().GetUser(userId.String())
	require.NoError(t, err)
	assert.Equal(t, userId, user.ID)
	assert.Equal(t, "inspector01", user.Username)
	assert.Equal(t, models.IdentityRoleInspector, user.Role)
}

func TestIdentityServiceGetUserNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.WebResponse[any]{
			Success: false,
			Message: "User not found",
		})
	}))
	defer server.Close()

	infrastructures.Config = &infrastructures.AppConfig{IDENTITY_BASE_URL: server.URL}

	_, err := NewIdentityService().GetUser(uuid.NewString())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestIdentityServiceGetCurrentUserRequiresToken(t *testing.T) {
	_, err := NewIdentityService().GetCurrentUser("")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}
