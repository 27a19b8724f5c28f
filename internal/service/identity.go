package service

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ayaocrm/crm/internal/auth"
	apperrors "github.com/ayaocrm/crm/internal/errors"
	"github.com/ayaocrm/crm/internal/model"
	"github.com/ayaocrm/crm/internal/repository"
	"github.com/ayaocrm/crm/pkg/db/transactor"
)

// Seed account created when the user table is empty. The password is
// expected to be changed right after the first login.
const (
	seedAdminUsername = "admin"
	seedAdminPassword = "admin123"
	seedAdminFullName = "Administrator"
	seedAdminLanguage = "zh"
)

// NewUser carries data for user account creation
type NewUser struct {
	Username string
	Password string
	Role     model.Role
	FullName string
	Language string
}

// IdentityService manages user accounts and authentication. Duplicate
// usernames on create are rejected - there is no silent overwrite, the
// explicit way to replace credentials is ResetPassword.
type IdentityService interface {
	Authenticate(ctx context.Context, username, password string, at time.Time) (*auth.Jwt, error)
	CreateUser(ctx context.Context, actor model.Actor, nu NewUser) (*model.UserInfo, error)
	Users(ctx context.Context) ([]*model.UserInfo, error)
	ResetPassword(ctx context.Context, actor model.Actor, username, newPassword string) error
	DeleteUser(ctx context.Context, actor model.Actor, username string) error
	EnsureAdmin(ctx context.Context) error
}

type identityService struct {
	jwtIssuer *auth.JwtIssuer
	trx       transactor.Transactor
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
}

// NewIdentityService builds IdentityService
func NewIdentityService(
	jwtIssuer *auth.JwtIssuer,
	trx transactor.Transactor,
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
) IdentityService {
	return &identityService{
		jwtIssuer: jwtIssuer,
		trx:       trx,
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

func (s *identityService) Authenticate(ctx context.Context, username, password string, at time.Time) (*auth.Jwt, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// uniform rejection - must not reveal which of username/password was wrong
	if user == nil {
		return nil, echo.ErrUnauthorized
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, echo.ErrUnauthorized
	}

	token, err := s.jwtIssuer.Sign(user, at)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *identityService) CreateUser(ctx context.Context, actor model.Actor, nu NewUser) (*model.UserInfo, error) {
	existing, err := s.userRepo.FindByUsername(ctx, nu.Username)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, apperrors.NewDuplicateKeyError("user", nu.Username)
	}

	hash, err := auth.GeneratePasswordHash(nu.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     nu.Username,
		PasswordHash: hash,
		Role:         nu.Role,
		FullName:     nu.FullName,
		Language:     nu.Language,
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Language == "" {
		user.Language = seedAdminLanguage
	}

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}

		details := struct {
			Role     model.Role `json:"role"`
			FullName string     `json:"fullName"`
		}{Role: user.Role, FullName: user.FullName}

		entry, err := newAuditEntry(actor, model.ActionCreateUser, model.AuditTargetUsers, user.Username, details)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return &model.UserInfo{
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		Language: user.Language,
	}, nil
}

func (s *identityService) Users(ctx context.Context) ([]*model.UserInfo, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *identityService) ResetPassword(ctx context.Context, actor model.Actor, username, newPassword string) error {
	hash, err := auth.GeneratePasswordHash(newPassword)
	if err != nil {
		return err
	}

	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := s.userRepo.UpdatePassword(ctx, username, hash)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.NewNotFoundError("user", username)
		}

		entry, err := newAuditEntry(actor, model.ActionResetPassword, model.AuditTargetUsers, username, nil)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
}

func (s *identityService) DeleteUser(ctx context.Context, actor model.Actor, username string) error {
	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.NewNotFoundError("user", username)
		}

		if user.Role == model.RoleAdmin {
			admins, err := s.userRepo.CountByRole(ctx, model.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return apperrors.NewPolicyViolationError("cannot delete the last administrator account")
			}
		}

		if _, err := s.userRepo.DeleteByUsername(ctx, username); err != nil {
			return err
		}

		entry, err := newAuditEntry(actor, model.ActionDeleteUser, model.AuditTargetUsers, username, nil)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
}

// EnsureAdmin seeds the default administrator account on first run
func (s *identityService) EnsureAdmin(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.GeneratePasswordHash(seedAdminPassword)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     seedAdminUsername,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		FullName:     seedAdminFullName,
		Language:     seedAdminLanguage,
	}

	return s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, admin); err != nil {
			return err
		}

		entry, err := newAuditEntry(model.SystemActor, model.ActionCreateUser, model.AuditTargetUsers, admin.Username, nil)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(ctx, entry)
	})
}
