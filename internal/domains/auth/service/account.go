package service

import (
	"context"
	"fmt"
	"strings"
	"taskpal/infras/jwt"
	adminModel "taskpal/internal/domains/admin/model"
	authorizedModel "taskpal/internal/domains/authorized/model"
	providerModel "taskpal/internal/domains/provider/model"
	userModel "taskpal/internal/domains/user/model"
	"taskpal/shared"
	"taskpal/shared/constant"
	"taskpal/shared/timezone"

	"github.com/rs/zerolog/log"
)

// account is the sign-in view of a row in one of the four principal tables.
type account struct {
	ID       string
	Password string
	Role     string
	Identity jwt.Identity
	// Denial is set when the credentials are valid but the account may not sign in.
	Denial string
}

func fromAdmin(mod adminModel.Admin) account {
	return account{
		ID:       mod.ID,
		Password: mod.Password,
		Role:     mod.Role,
		Identity: jwt.Identity{UserID: mod.ID, Email: mod.Email, Role: mod.Role},
	}
}

func fromProvider(mod providerModel.Provider) account {
	acc := account{
		ID:       mod.ID,
		Password: mod.Password,
		Role:     constant.RoleProvider,
		Identity: jwt.Identity{UserID: mod.ID, Email: mod.Email, Role: constant.RoleProvider},
	}

	if mod.Status != providerModel.StatusApproved {
		acc.Denial = fmt.Sprintf("provider account is %s", strings.ToLower(mod.Status))
	}

	return acc
}

func fromUser(mod userModel.User) account {
	acc := account{
		ID:       mod.ID,
		Password: mod.Password,
		Role:     constant.RoleClient,
		Identity: jwt.Identity{UserID: mod.ID, Email: mod.Email, Role: constant.RoleClient},
	}

	if !mod.Active {
		acc.Denial = "account is deactivated"
	}

	return acc
}

func fromAuthorized(mod authorizedModel.AuthorizedUser) account {
	acc := account{
		ID:       mod.ID,
		Password: mod.Password,
		Role:     constant.RoleAuthorized,
		Identity: jwt.Identity{
			UserID:     mod.ClientID,
			Email:      mod.Email,
			Role:       constant.RoleAuthorized,
			DelegateID: mod.ID,
			Scopes:     mod.Permissions,
		},
	}

	if !mod.Usable(timezone.Now()) {
		acc.Denial = "authorized access has expired or was revoked"
	}

	return acc
}

// findByEmail walks admins, providers, users and authorized users in that order.
func (s *serviceImpl) findByEmail(ctx context.Context, email string) (account, bool, error) {
	admin, err := s.adminRepo.Get(ctx, shared.FilterByField(adminModel.FieldEmail, email, adminModel.TableName))
	if err != nil {
		return account{}, false, fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin.ID != constant.Empty {
		return fromAdmin(admin), true, nil
	}

	provider, err := s.providerRepo.Get(ctx, shared.FilterByField(providerModel.FieldEmail, email, providerModel.TableName))
	if err != nil {
		return account{}, false, fmt.Errorf("failed to look up provider: %w", err)
	}

	if provider.ID != constant.Empty {
		return fromProvider(provider), true, nil
	}

	user, err := s.userRepo.Get(ctx, shared.FilterByField(userModel.FieldEmail, email, userModel.TableName))
	if err != nil {
		return account{}, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.ID != constant.Empty {
		return fromUser(user), true, nil
	}

	delegate, err := s.authorizedRepo.Get(ctx, shared.FilterByField(authorizedModel.FieldEmail, email, authorizedModel.TableName))
	if err != nil {
		return account{}, false, fmt.Errorf("failed to look up authorized user: %w", err)
	}

	if delegate.ID != constant.Empty {
		return fromAuthorized(delegate), true, nil
	}

	return account{}, false, nil
}

// findByRole loads the caller's own row. Delegates are looked up by their own id.
func (s *serviceImpl) findByRole(ctx context.Context, role, id string) (account, bool, error) {
	switch role {
	case constant.RoleAdmin, constant.RoleSuperAdmin:
		admin, err := s.adminRepo.Get(ctx, shared.FilterByID(id, adminModel.FieldID, adminModel.TableName))
		if err != nil {
			return account{}, false, fmt.Errorf("failed to get admin: %w", err)
		}

		return fromAdmin(admin), admin.ID != constant.Empty, nil
	case constant.RoleProvider:
		provider, err := s.providerRepo.Get(ctx, shared.FilterByID(id, providerModel.FieldID, providerModel.TableName))
		if err != nil {
			return account{}, false, fmt.Errorf("failed to get provider: %w", err)
		}

		return fromProvider(provider), provider.ID != constant.Empty, nil
	case constant.RoleClient:
		user, err := s.userRepo.Get(ctx, shared.FilterByID(id, userModel.FieldID, userModel.TableName))
		if err != nil {
			return account{}, false, fmt.Errorf("failed to get user: %w", err)
		}

		return fromUser(user), user.ID != constant.Empty, nil
	case constant.RoleAuthorized:
		delegate, err := s.authorizedRepo.Get(ctx, shared.FilterByID(id, authorizedModel.FieldID, authorizedModel.TableName))
		if err != nil {
			return account{}, false, fmt.Errorf("failed to get authorized user: %w", err)
		}

		return fromAuthorized(delegate), delegate.ID != constant.Empty, nil
	default:
		log.Warn().Str("role", role).Msg("unknown role")

		return account{}, false, nil
	}
}

func (s *serviceImpl) updatePassword(ctx context.Context, acc account, fields map[string]any) error {
	var err error

	switch acc.Role {
	case constant.RoleAdmin, constant.RoleSuperAdmin:
		err = s.adminRepo.Update(ctx, fields, shared.FilterByID(acc.ID, adminModel.FieldID, adminModel.TableName))
	case constant.RoleProvider:
		err = s.providerRepo.Update(ctx, fields, shared.FilterByID(acc.ID, providerModel.FieldID, providerModel.TableName))
	case constant.RoleClient:
		err = s.userRepo.Update(ctx, fields, shared.FilterByID(acc.ID, userModel.FieldID, userModel.TableName))
	case constant.RoleAuthorized:
		err = s.authorizedRepo.Update(ctx, fields, shared.FilterByID(acc.ID, authorizedModel.FieldID, authorizedModel.TableName))
	default:
		err = fmt.Errorf("unknown role %q", acc.Role)
	}

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
