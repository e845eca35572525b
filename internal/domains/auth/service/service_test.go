package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"taskpal/config"
	"taskpal/infras/jwt"
	jwtMocks "taskpal/infras/jwt/mocks"
	"taskpal/infras/mailer"
	mailerMocks "taskpal/infras/mailer/mocks"
	"taskpal/infras/otel/mocks"
	adminMocks "taskpal/internal/domains/admin/mocks"
	adminModel "taskpal/internal/domains/admin/model"
	"taskpal/internal/domains/auth/model/dto"
	"taskpal/internal/domains/auth/service"
	authorizedMocks "taskpal/internal/domains/authorized/mocks"
	authorizedModel "taskpal/internal/domains/authorized/model"
	providerMocks "taskpal/internal/domains/provider/mocks"
	providerModel "taskpal/internal/domains/provider/model"
	userMocks "taskpal/internal/domains/user/mocks"
	userModel "taskpal/internal/domains/user/model"
	userDto "taskpal/internal/domains/user/model/dto"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/shared/otp"
	otpMocks "taskpal/shared/otp/mocks"
	"taskpal/shared/password"
)

type authServiceFixture struct {
	admins     *adminMocks.MockAdmin
	providers  *providerMocks.MockProvider
	users      *userMocks.MockUser
	authorized *authorizedMocks.MockAuthorizedUser
	otp        *otpMocks.MockStore
	mailer     *mailerMocks.MockMailer
	jwt        *jwtMocks.MockJWT
	svc        service.Auth
}

func newFixture(t *testing.T) authServiceFixture {
	ctrl := gomock.NewController(t)

	f := authServiceFixture{
		admins:     adminMocks.NewMockAdmin(ctrl),
		providers:  providerMocks.NewMockProvider(ctrl),
		users:      userMocks.NewMockUser(ctrl),
		authorized: authorizedMocks.NewMockAuthorizedUser(ctrl),
		otp:        otpMocks.NewMockStore(ctrl),
		mailer:     mailerMocks.NewMockMailer(ctrl),
		jwt:        jwtMocks.NewMockJWT(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Name = "TaskPal"
	cfg.OTP.TTLSeconds = 600

	f.svc = service.New(f.admins, f.providers, f.users, f.authorized, f.otp, f.mailer, f.jwt, cfg, mocks.NewOtel())

	return f
}

// lookup stubs the admin, provider, user and authorized tables in login order.
func (f authServiceFixture) lookup(admin adminModel.Admin, provider providerModel.Provider, user userModel.User, delegate authorizedModel.AuthorizedUser) {
	f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil).MaxTimes(1)
	f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(provider, nil).MaxTimes(1)
	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil).MaxTimes(1)
	f.authorized.EXPECT().Get(gomock.Any(), gomock.Any()).Return(delegate, nil).MaxTimes(1)
}

func hash(t *testing.T, plain string) string {
	t.Helper()

	hashed, err := password.Hash(plain)
	require.NoError(t, err)

	return hashed
}

func TestAuthService_Login(t *testing.T) {
	secret := hash(t, "secret-password")

	tests := []struct {
		name      string
		password  string
		setupMock func(f authServiceFixture)
		wantCode  int
		wantRole  string
	}{
		{
			name:     "admin signs in first",
			password: "secret-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{ID: "admin-1", Email: "a@taskpal.test", Password: secret, Role: constant.RoleSuperAdmin},
					providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{})
				f.jwt.EXPECT().
					GenerateTokenPair(gomock.Any(), jwt.Identity{UserID: "admin-1", Email: "a@taskpal.test", Role: constant.RoleSuperAdmin}).
					Return(&jwt.TokenPair{AccessToken: "access"}, nil)
			},
			wantRole: constant.RoleSuperAdmin,
		},
		{
			name:     "pending provider is forbidden",
			password: "secret-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{ID: "provider-1", Password: secret, Status: providerModel.StatusPending},
					userModel.User{}, authorizedModel.AuthorizedUser{})
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "wrong password",
			password: "not-the-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{ID: "client-1", Password: secret, Active: true},
					authorizedModel.AuthorizedUser{})
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown email",
			password: "secret-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{})
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired delegate is forbidden",
			password: "secret-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{
					ID: "delegate-1", ClientID: "client-1", Password: secret, Active: true, ExpiresAt: time.Now().Add(-time.Hour),
				})
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "delegate token carries the client and scopes",
			password: "secret-password",
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{
					ID: "delegate-1", ClientID: "client-1", Password: secret, Active: true,
					ExpiresAt: time.Now().Add(24 * time.Hour), Permissions: []string{constant.ScopeBookings},
				})
				f.jwt.EXPECT().
					GenerateTokenPair(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, identity jwt.Identity) (*jwt.TokenPair, error) {
						assert.Equal(t, "client-1", identity.UserID)
						assert.Equal(t, "delegate-1", identity.DelegateID)
						assert.Equal(t, []string{constant.ScopeBookings}, identity.Scopes)

						return &jwt.TokenPair{AccessToken: "access"}, nil
					})
			},
			wantRole: constant.RoleAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "someone@taskpal.test", Password: tt.password})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantRole, res.Role)
			assert.Equal(t, "access", res.AccessToken)
		})
	}
}

func TestAuthService_SendOTP(t *testing.T) {
	tests := []struct {
		name      string
		purpose   string
		setupMock func(f authServiceFixture)
		wantCode  int
	}{
		{
			name:    "register with a taken email",
			purpose: string(otp.PurposeRegister),
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{ID: "client-1"}, authorizedModel.AuthorizedUser{})
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:    "reset for an unknown account",
			purpose: string(otp.PurposeReset),
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{})
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:    "register mails a fresh code",
			purpose: string(otp.PurposeRegister),
			setupMock: func(f authServiceFixture) {
				f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{})
				f.otp.EXPECT().Issue(gomock.Any(), otp.PurposeRegister, "new@taskpal.test").Return("123456", nil)
				f.mailer.EXPECT().
					Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mail mailer.Mail) error {
						assert.Equal(t, "new@taskpal.test", mail.To)
						assert.Contains(t, mail.Body, "123456")

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.SendOTP(context.Background(), dto.SendOTPRequest{Email: "new@taskpal.test", Purpose: tt.purpose})

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_RegisterClient(t *testing.T) {
	req := dto.RegisterClientRequest{
		CreateUserRequest: userDto.CreateUserRequest{
			FirstName: "Lola",
			LastName:  "Cruz",
			Email:     "lola@taskpal.test",
			Password:  "secret-password",
			Phone:     "09171234567",
			Address:   "Poblacion",
		},
		OTP: "123456",
	}

	t.Run("invalid otp", func(t *testing.T) {
		f := newFixture(t)
		f.otp.EXPECT().Verify(gomock.Any(), otp.PurposeRegister, req.Email, "123456").Return(otp.ErrInvalid)

		err := f.svc.RegisterClient(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("creates the client with a hashed password", func(t *testing.T) {
		f := newFixture(t)
		f.otp.EXPECT().Verify(gomock.Any(), otp.PurposeRegister, req.Email, "123456").Return(nil)
		f.lookup(adminModel.Admin{}, providerModel.Provider{}, userModel.User{}, authorizedModel.AuthorizedUser{})
		f.users.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, req.Email, user.Email)
				assert.NoError(t, password.Verify("secret-password", user.Password))
				assert.True(t, user.Active)

				return nil
			})

		err := f.svc.RegisterClient(context.Background(), req)

		assert.NoError(t, err)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("revoked delegate", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().
			ValidateToken(gomock.Any(), "refresh", jwt.RefreshToken).
			Return(&jwt.Claims{UserID: "client-1", DelegateID: "delegate-1", Role: constant.RoleAuthorized}, nil)
		f.authorized.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(authorizedModel.AuthorizedUser{ID: "delegate-1", Active: false, ExpiresAt: time.Now().Add(time.Hour)}, nil)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken(gomock.Any(), "bad", jwt.RefreshToken).Return(nil, jwt.ErrInvalidToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "bad"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	secret := hash(t, "secret-password")

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "provider-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleProvider)

	f.providers.EXPECT().Get(gomock.Any(), gomock.Any()).Return(providerModel.Provider{ID: "provider-1", Password: secret}, nil).Times(2)
	f.providers.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "wrong-password", NewPassword: "new-password"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

	err = f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "secret-password", NewPassword: "new-password"})
	assert.NoError(t, err)
}
