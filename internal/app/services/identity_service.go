package services

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
)

// IdentityService resolves bearer tokens against the external identity
// provider. Verification itself works without it; registry mutations
// require a resolved user.
type IdentityService struct {
}

func NewIdentityService() *IdentityService {
	return &IdentityService{}
}

func (s *IdentityService) GetCurrentUser(accessToken string) (*models.IdentityUser, error) {
	if accessToken == "" {
		return nil, errors.NewBadRequestError("Access token is required")
	}

	req, err := http.NewRequest("GET", infrastructures.Config.IDENTITY_BASE_URL+"/users/me", nil)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(accessToken, "Bearer ") {
		req.Header.Set("Authorization", accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var webResponse models.WebResponse[models.IdentityUser]
	err = json.NewDecoder(resp.Body).Decode(&webResponse)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAppError(resp.StatusCode, webResponse.Message)
	}

	return &webResponse.Data, nil
}

func (s *IdentityService) GetUser(userId string) (*models.IdentityUser, error) {
	req, err := http.NewRequest("GET", infrastructures.Config.IDENTITY_BASE_URL+"/users/"+userId, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var webResponse models.WebResponse[models.IdentityUser]
	err = json.NewDecoder(resp.Body).Decode(&webResponse)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to decode response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAppError(resp.StatusCode, webResponse.Message)
	}

	return &webResponse.Data, nil
}
