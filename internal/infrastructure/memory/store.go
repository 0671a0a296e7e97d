// Package memory implementa los puertos de persistencia en memoria. Run serializa las
// transacciones con un mutex y trabaja sobre una copia del estado: si fn falla la copia
// se descarta, de modo que un error deja el estado intacto igual que un ROLLBACK.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

type state struct {
	items    map[string]entity.Item
	inbound  map[string]entity.InboundEntry
	outbound map[string]entity.OutboundEntry
	loans    map[string]entity.LoanRecord
	units    map[string]entity.Unit
	users    map[string]entity.User
}

func newState() *state {
	return &state{
		items:    make(map[string]entity.Item),
		inbound:  make(map[string]entity.InboundEntry),
		outbound: make(map[string]entity.OutboundEntry),
		loans:    make(map[string]entity.LoanRecord),
		units:    make(map[string]entity.Unit),
		users:    make(map[string]entity.User),
	}
}

// clone copia superficial de los mapas; los valores son structs copiados por valor.
func (s *state) clone() *state {
	return &state{
		items:    maps.Clone(s.items),
		inbound:  maps.Clone(s.inbound),
		outbound: maps.Clone(s.outbound),
		loans:    maps.Clone(s.loans),
		units:    maps.Clone(s.units),
		users:    maps.Clone(s.users),
	}
}

// exec da acceso al estado: bloqueando el store (fuera de transacción) o sobre la copia de la transacción.
type exec func(fn func(*state) error) error

// Store almacén en memoria. Seguro para uso concurrente.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) locked(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Run ejecuta fn como una transacción: serializada, todo o nada.
func (s *Store) Run(ctx context.Context, fn func(tx inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(txRepos(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Snapshot ejecuta fn sobre una copia consistente del estado; cualquier escritura se descarta.
func (s *Store) Snapshot(ctx context.Context, fn func(tx inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	work := s.data.clone()
	s.mu.Unlock()
	return fn(txRepos(work))
}

func txRepos(work *state) inventory.TxRepos {
	bound := exec(func(fn func(*state) error) error { return fn(work) })
	return inventory.TxRepos{
		Items:    &ItemRepository{exec: bound},
		Inbound:  &InboundRepository{exec: bound},
		Outbound: &OutboundRepository{exec: bound},
		Loans:    &LoanRepository{exec: bound},
	}
}

// Items repositorio de artículos fuera de transacción.
func (s *Store) Items() *ItemRepository { return &ItemRepository{exec: s.locked} }

// Inbound repositorio de entradas fuera de transacción.
func (s *Store) Inbound() *InboundRepository { return &InboundRepository{exec: s.locked} }

// Outbound repositorio de salidas fuera de transacción.
func (s *Store) Outbound() *OutboundRepository { return &OutboundRepository{exec: s.locked} }

// Loans repositorio de préstamos fuera de transacción.
func (s *Store) Loans() *LoanRepository { return &LoanRepository{exec: s.locked} }

// Units repositorio de unidades.
func (s *Store) Units() *UnitRepository { return &UnitRepository{exec: s.locked} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{exec: s.locked} }

var _ inventory.TxRunner = (*Store)(nil)
