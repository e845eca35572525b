package dto

import (
	"taskpal/infras/jwt"
	providerDto "taskpal/internal/domains/provider/model/dto"
	userDto "taskpal/internal/domains/user/model/dto"
	"taskpal/shared/otp"
)

type SendOTPRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=register reset delegate"`
}

type RegisterClientRequest struct {
	userDto.CreateUserRequest
	OTP otp.Code `json:"otp" validate:"required,configured"`
}

type RegisterProviderRequest struct {
	providerDto.CreateProviderRequest
	OTP otp.Code `json:"otp" validate:"required,configured"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
	ProfileID    string `json:"profile_id"`
	ClientID     string `json:"client_id,omitempty"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,nefield=CurrentPassword"`
}

type ResetPasswordRequest struct {
	Email       string   `json:"email"        validate:"required,email"`
	OTP         otp.Code `json:"otp"          validate:"required,configured"`
	NewPassword string   `json:"new_password" validate:"required,min=8"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}
