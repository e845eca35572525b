package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskpal/infras/jwt"
	"taskpal/internal/domains/auth/model/dto"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    900,
	}

	res := dto.LoginResponse{Role: "client"}
	res.FromTokenPair(tokenPair)

	assert.Equal(t, "access", res.AccessToken)
	assert.Equal(t, "refresh", res.RefreshToken)
	assert.Equal(t, int64(900), res.ExpiresIn)
	assert.Equal(t, "client", res.Role)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	var res dto.RefreshTokenResponse
	res.FromTokenPair(&jwt.TokenPair{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 60})

	assert.Equal(t, dto.RefreshTokenResponse{AccessToken: "a2", RefreshToken: "r2", ExpiresIn: 60}, res)
}
