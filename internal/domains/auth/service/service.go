package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"taskpal/config"
	"taskpal/infras/jwt"
	"taskpal/infras/mailer"
	"taskpal/infras/otel"
	adminRepo "taskpal/internal/domains/admin/repository"
	"taskpal/internal/domains/auth/model/dto"
	authorizedRepo "taskpal/internal/domains/authorized/repository"
	providerRepo "taskpal/internal/domains/provider/repository"
	userRepo "taskpal/internal/domains/user/repository"
	"taskpal/shared"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/shared/otp"
	"taskpal/shared/password"
	gRepo "taskpal/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	errInvalidCredentials = "invalid email or password"
	errEmailRegistered    = "email already registered"
)

type Auth interface {
	SendOTP(ctx context.Context, req dto.SendOTPRequest) error
	RegisterClient(ctx context.Context, req dto.RegisterClientRequest) error
	RegisterProvider(ctx context.Context, req dto.RegisterProviderRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type serviceImpl struct {
	adminRepo      adminRepo.Admin
	providerRepo   providerRepo.Provider
	userRepo       userRepo.User
	authorizedRepo authorizedRepo.AuthorizedUser
	otp            otp.Store
	mailer         mailer.Mailer
	jwtService     jwt.JWT
	cfg            *config.Config
	otel           otel.Otel
}

func New(
	adminRepo adminRepo.Admin,
	providerRepo providerRepo.Provider,
	userRepo userRepo.User,
	authorizedRepo authorizedRepo.AuthorizedUser,
	otp otp.Store,
	mailer mailer.Mailer,
	jwt jwt.JWT,
	cfg *config.Config,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		adminRepo:      adminRepo,
		providerRepo:   providerRepo,
		userRepo:       userRepo,
		authorizedRepo: authorizedRepo,
		otp:            otp,
		mailer:         mailer,
		jwtService:     jwt,
		cfg:            cfg,
		otel:           otel,
	}
}

// EmailExists reports whether any principal table already holds email.
func (s *serviceImpl) EmailExists(ctx context.Context, email string) (exists bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EmailExists")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, exists, err = s.findByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up email")

		return false, err
	}

	return exists, nil
}

func (s *serviceImpl) SendOTP(ctx context.Context, req dto.SendOTPRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendOTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.EmailExists(ctx, req.Email)
	if err != nil {
		return err
	}

	purpose := otp.Purpose(req.Purpose)

	switch purpose {
	case otp.PurposeRegister, otp.PurposeDelegate:
		if exists {
			return failure.BadRequestFromString(errEmailRegistered) // nolint:wrapcheck
		}
	case otp.PurposeReset:
		if !exists {
			return failure.NotFound("account not found") // nolint:wrapcheck
		}
	}

	code, err := s.otp.Issue(ctx, purpose, req.Email)
	if err != nil {
		return fmt.Errorf("failed to issue otp: %w", err)
	}

	body, err := mailer.Render(mailer.OTPTemplate, mailer.OTPData{
		AppName:    s.cfg.App.Name,
		Code:       code,
		Purpose:    req.Purpose,
		TTLMinutes: s.cfg.OTP.TTLSeconds / constant.MinutesToSeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to render otp mail: %w", err)
	}

	if err = s.mailer.Send(ctx, mailer.Mail{
		To:      req.Email,
		Subject: s.cfg.App.Name + " verification code",
		Body:    body,
	}); err != nil {
		log.Error().Err(err).Str("purpose", req.Purpose).Msg("failed to send otp")

		return fmt.Errorf("failed to send otp: %w", err)
	}

	return nil
}

func (s *serviceImpl) RegisterClient(ctx context.Context, req dto.RegisterClientRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegisterClient")
	defer scope.End()
	defer scope.TraceIfError(err)

	hashedPassword, err := s.prepareRegistration(ctx, req.Email, string(req.OTP), req.Password)
	if err != nil {
		return err
	}

	if err = s.userRepo.Insert(ctx, req.ToModel(constant.ContextGuest, hashedPassword)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return failure.BadRequestFromString(errEmailRegistered) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create client")

		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

func (s *serviceImpl) RegisterProvider(ctx context.Context, req dto.RegisterProviderRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegisterProvider")
	defer scope.End()
	defer scope.TraceIfError(err)

	hashedPassword, err := s.prepareRegistration(ctx, req.Email, string(req.OTP), req.Password)
	if err != nil {
		return err
	}

	if err = s.providerRepo.Insert(ctx, req.ToModel(constant.ContextGuest, hashedPassword)); err != nil {
		if gRepo.IsUniqueViolation(err) {
			return failure.BadRequestFromString(errEmailRegistered) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create provider")

		return fmt.Errorf("failed to create provider: %w", err)
	}

	return nil
}

// prepareRegistration consumes the OTP, re-checks the e-mail and hashes the password.
func (s *serviceImpl) prepareRegistration(ctx context.Context, email, code, plain string) (string, error) {
	if err := s.otp.Verify(ctx, otp.PurposeRegister, email, code); err != nil {
		return "", err // nolint:wrapcheck
	}

	exists, err := s.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}

	if exists {
		return "", failure.BadRequestFromString(errEmailRegistered) // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hashedPassword, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	acc, found, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up account")

		return res, err
	}

	if !found {
		password.Burn(req.Password)

		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(errInvalidCredentials) // nolint:wrapcheck
	}

	if err := password.Verify(req.Password, acc.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(errInvalidCredentials) // nolint:wrapcheck
	}

	if acc.Denial != constant.Empty {
		return res, failure.Forbidden(acc.Denial) // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, acc.Identity)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)
	res.Role = acc.Role
	res.ProfileID = acc.ID

	if acc.Identity.DelegateID != constant.Empty {
		res.ClientID = acc.Identity.UserID
	}

	return res, nil
}

// RefreshToken re-issues a pair. Delegates are re-read so revocation and expiry take effect.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(ctx, req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	identity := claims.Identity()

	if identity.DelegateID != constant.Empty {
		acc, found, err := s.findByRole(ctx, constant.RoleAuthorized, identity.DelegateID)
		if err != nil {
			return res, err
		}

		if !found {
			return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
		}

		if acc.Denial != constant.Empty {
			return res, failure.Forbidden(acc.Denial) // nolint:wrapcheck
		}

		identity = acc.Identity
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, identity)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, role := shared.UserFromContext(ctx)
	if role == constant.RoleAuthorized {
		userID = shared.ActorFromContext(ctx)
	}

	acc, found, err := s.findByRole(ctx, role, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get account")

		return err
	}

	if !found {
		return failure.NotFound("account not found") // nolint:wrapcheck
	}

	if err := password.Verify(req.CurrentPassword, acc.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	return s.setPassword(ctx, acc, req.NewPassword, shared.ActorFromContext(ctx))
}

func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.otp.Verify(ctx, otp.PurposeReset, req.Email, string(req.OTP)); err != nil {
		return err // nolint:wrapcheck
	}

	acc, found, err := s.findByEmail(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up account")

		return err
	}

	if !found {
		return failure.NotFound("account not found") // nolint:wrapcheck
	}

	return s.setPassword(ctx, acc, req.NewPassword, acc.ID)
}

func (s *serviceImpl) setPassword(ctx context.Context, acc account, plain, actor string) error {
	hashedPassword, err := password.Hash(plain)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	fields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, actor)

	if err = s.updatePassword(ctx, acc, fields); err != nil {
		log.Error().Err(err).Str("role", acc.Role).Msg("failed to update password")

		return err
	}

	return nil
}
