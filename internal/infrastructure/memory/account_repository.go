package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UnitRepository implementación en memoria de repository.UnitRepository.
type UnitRepository struct{ exec exec }

func (r *UnitRepository) Create(_ context.Context, u *entity.Unit) error {
	return r.exec(func(s *state) error {
		for _, existing := range s.units {
			if strings.EqualFold(existing.Name, u.Name) {
				return fmt.Errorf("memory: crear unidad: %w", domain.ErrDuplicate)
			}
		}
		s.units[u.ID] = *u
		return nil
	})
}

func (r *UnitRepository) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	var out *entity.Unit
	err := r.exec(func(s *state) error {
		if u, ok := s.units[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByName sin distinguir mayúsculas.
func (r *UnitRepository) GetByName(_ context.Context, name string) (*entity.Unit, error) {
	var out *entity.Unit
	err := r.exec(func(s *state) error {
		for _, u := range s.units {
			if strings.EqualFold(u.Name, name) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UnitRepository) List(_ context.Context) ([]*entity.Unit, error) {
	var out []*entity.Unit
	err := r.exec(func(s *state) error {
		out = collect(s.units)
		slices.SortFunc(out, func(a, b *entity.Unit) int { return cmp.Compare(a.Name, b.Name) })
		return nil
	})
	return out, err
}

func (r *UnitRepository) Delete(_ context.Context, id string) error {
	return r.exec(func(s *state) error {
		if _, ok := s.units[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.units, id)
		return nil
	})
}

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct{ exec exec }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.exec(func(s *state) error {
		for _, existing := range s.users {
			if existing.Username == u.Username {
				return domain.ErrUsernameTaken
			}
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.exec(func(s *state) error {
		if u, ok := s.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.exec(func(s *state) error {
		for _, u := range s.users {
			if u.Username == username {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	return r.exec(func(s *state) error {
		if _, ok := s.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		s.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.exec(func(s *state) error {
		all := collect(s.users)
		slices.SortFunc(all, func(a, b *entity.User) int { return cmp.Compare(a.Username, b.Username) })
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *UserRepository) CountAdmins(_ context.Context) (int, error) {
	n := 0
	err := r.exec(func(s *state) error {
		for _, u := range s.users {
			if u.Role == entity.RoleAdmin && u.Status == entity.UserStatusActive {
				n++
			}
		}
		return nil
	})
	return n, err
}

var (
	_ repository.UnitRepository = (*UnitRepository)(nil)
	_ repository.UserRepository = (*UserRepository)(nil)
)
