package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/authz"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/validation"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// UserUseCase administración de cuentas (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log.Component("users"), now: time.Now}
}

// CreateUser crea una cuenta activa. ErrUsernameTaken si el usuario ya existe.
func (uc *UserUseCase) CreateUser(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	user, err := auth.NewUser(in, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Str("by", actor.UserID).Msg("usuario creado")
	return auth.ToUserResponse(user), nil
}

// DeactivateUser desactiva una cuenta. No permite dejar el sistema sin administradores activos.
func (uc *UserUseCase) DeactivateUser(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Status == entity.UserStatusInactive {
		return auth.ToUserResponse(user), nil
	}
	if user.Role == entity.RoleAdmin {
		admins, err := uc.repo.CountAdmins(ctx)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, domain.ErrLastAdmin
		}
	}
	user.Status = entity.UserStatusInactive
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("by", actor.UserID).Msg("usuario desactivado")
	return auth.ToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// ListUsers lista cuentas (solo admin).
func (uc *UserUseCase) ListUsers(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]dto.UserResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}
