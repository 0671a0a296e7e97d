package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemRepository implementación en memoria de repository.ItemRepository.
type ItemRepository struct{ exec exec }

func (r *ItemRepository) Create(_ context.Context, item *entity.Item) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[item.ID]; ok {
			return fmt.Errorf("memory: crear artículo: %w", domain.ErrDuplicate)
		}
		for _, it := range s.items {
			if it.NameKey == item.NameKey {
				return fmt.Errorf("memory: crear artículo: %w", domain.ErrDuplicate)
			}
		}
		s.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.exec(func(s *state) error {
		if it, ok := s.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria la transacción ya es exclusiva.
func (r *ItemRepository) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepository) GetByNameKey(_ context.Context, nameKey string) (*entity.Item, error) {
	var out *entity.Item
	err := r.exec(func(s *state) error {
		for _, it := range s.items {
			if it.NameKey == nameKey {
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepository) Update(_ context.Context, item *entity.Item) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		for _, it := range s.items {
			if it.ID != item.ID && it.NameKey == item.NameKey {
				return fmt.Errorf("memory: actualizar artículo: %w", domain.ErrDuplicate)
			}
		}
		s.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepository) UpdateStock(_ context.Context, id string, stock int) error {
	return r.exec(func(s *state) error {
		it, ok := s.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		if stock < 0 {
			return fmt.Errorf("memory: stock negativo para %s", id)
		}
		it.StockOnHand = stock
		s.items[id] = it
		return nil
	})
}

// List ordena por nombre normalizado.
func (r *ItemRepository) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.exec(func(s *state) error {
		all := collect(s.items)
		slices.SortFunc(all, func(a, b *entity.Item) int {
			return cmp.Or(cmp.Compare(a.NameKey, b.NameKey), cmp.Compare(a.ID, b.ID))
		})
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

// Delete falla si quedan movimientos o préstamos que referencian el artículo (como la FK en Postgres).
func (r *ItemRepository) Delete(_ context.Context, id string) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[id]; !ok {
			return domain.ErrNotFound
		}
		for _, e := range s.inbound {
			if e.ItemID == id {
				return fmt.Errorf("memory: artículo %s referenciado por entradas", id)
			}
		}
		for _, e := range s.outbound {
			if e.ItemID == id {
				return fmt.Errorf("memory: artículo %s referenciado por salidas", id)
			}
		}
		for _, l := range s.loans {
			if l.ItemID == id {
				return fmt.Errorf("memory: artículo %s referenciado por préstamos", id)
			}
		}
		delete(s.items, id)
		return nil
	})
}

func (r *ItemRepository) CountByUnit(_ context.Context, unit string) (int, error) {
	n := 0
	err := r.exec(func(s *state) error {
		for _, it := range s.items {
			if strings.EqualFold(it.UnitOfMeasure, unit) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ItemRepository) Summary(_ context.Context) (repository.ItemSummary, error) {
	var sum repository.ItemSummary
	err := r.exec(func(s *state) error {
		for _, it := range s.items {
			sum.Items++
			sum.TotalStock += it.StockOnHand
			if it.StockOnHand == 0 {
				sum.OutOfStock++
			}
		}
		return nil
	})
	return sum, err
}

// InboundRepository implementación en memoria de repository.InboundRepository.
type InboundRepository struct{ exec exec }

func (r *InboundRepository) Create(_ context.Context, e *entity.InboundEntry) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[e.ItemID]; !ok {
			return fmt.Errorf("memory: entrada para artículo inexistente: %w", domain.ErrNotFound)
		}
		if _, ok := s.inbound[e.ID]; ok {
			return fmt.Errorf("memory: crear entrada: %w", domain.ErrDuplicate)
		}
		s.inbound[e.ID] = *e
		return nil
	})
}

func (r *InboundRepository) GetByID(_ context.Context, id string) (*entity.InboundEntry, error) {
	var out *entity.InboundEntry
	err := r.exec(func(s *state) error {
		if e, ok := s.inbound[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *InboundRepository) GetForUpdate(ctx context.Context, id string) (*entity.InboundEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *InboundRepository) Update(_ context.Context, e *entity.InboundEntry) error {
	return r.exec(func(s *state) error {
		if _, ok := s.inbound[e.ID]; !ok {
			return domain.ErrNotFound
		}
		s.inbound[e.ID] = *e
		return nil
	})
}

func (r *InboundRepository) Delete(_ context.Context, id string) error {
	return r.exec(func(s *state) error {
		if _, ok := s.inbound[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.inbound, id)
		return nil
	})
}

// List más recientes primero.
func (r *InboundRepository) List(_ context.Context, itemID string, limit, offset int) ([]*entity.InboundEntry, error) {
	var out []*entity.InboundEntry
	err := r.exec(func(s *state) error {
		all := collect(s.inbound)
		all = slices.DeleteFunc(all, func(e *entity.InboundEntry) bool { return itemID != "" && e.ItemID != itemID })
		slices.SortFunc(all, func(a, b *entity.InboundEntry) int {
			return cmp.Or(b.ReceivedAt.Compare(a.ReceivedAt), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *InboundRepository) DeleteByItem(_ context.Context, itemID string) error {
	return r.exec(func(s *state) error {
		maps.DeleteFunc(s.inbound, func(_ string, e entity.InboundEntry) bool { return e.ItemID == itemID })
		return nil
	})
}

func (r *InboundRepository) UnlinkLoan(_ context.Context, loanID string) error {
	return r.exec(func(s *state) error {
		for id, e := range s.inbound {
			if e.LoanID == loanID {
				e.LoanID = ""
				s.inbound[id] = e
			}
		}
		return nil
	})
}

func (r *InboundRepository) TotalsByItem(_ context.Context) (map[string]int, error) {
	totals := make(map[string]int)
	err := r.exec(func(s *state) error {
		for _, e := range s.inbound {
			totals[e.ItemID] += e.Quantity
		}
		return nil
	})
	return totals, err
}

func (r *InboundRepository) TotalForItem(_ context.Context, itemID string) (int, error) {
	var total int
	err := r.exec(func(s *state) error {
		for _, e := range s.inbound {
			if e.ItemID == itemID {
				total += e.Quantity
			}
		}
		return nil
	})
	return total, err
}

// OutboundRepository implementación en memoria de repository.OutboundRepository.
type OutboundRepository struct{ exec exec }

func (r *OutboundRepository) Create(_ context.Context, e *entity.OutboundEntry) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[e.ItemID]; !ok {
			return fmt.Errorf("memory: salida para artículo inexistente: %w", domain.ErrNotFound)
		}
		if _, ok := s.outbound[e.ID]; ok {
			return fmt.Errorf("memory: crear salida: %w", domain.ErrDuplicate)
		}
		s.outbound[e.ID] = *e
		return nil
	})
}

func (r *OutboundRepository) GetByID(_ context.Context, id string) (*entity.OutboundEntry, error) {
	var out *entity.OutboundEntry
	err := r.exec(func(s *state) error {
		if e, ok := s.outbound[id]; ok {
			out = &e
		}
		return nil
	})
	return out, err
}

func (r *OutboundRepository) GetForUpdate(ctx context.Context, id string) (*entity.OutboundEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *OutboundRepository) Update(_ context.Context, e *entity.OutboundEntry) error {
	return r.exec(func(s *state) error {
		if _, ok := s.outbound[e.ID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := s.items[e.ItemID]; !ok {
			return fmt.Errorf("memory: salida para artículo inexistente: %w", domain.ErrNotFound)
		}
		s.outbound[e.ID] = *e
		return nil
	})
}

func (r *OutboundRepository) Delete(_ context.Context, id string) error {
	return r.exec(func(s *state) error {
		if _, ok := s.outbound[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.outbound, id)
		return nil
	})
}

func (r *OutboundRepository) List(_ context.Context, itemID string, limit, offset int) ([]*entity.OutboundEntry, error) {
	var out []*entity.OutboundEntry
	err := r.exec(func(s *state) error {
		all := collect(s.outbound)
		all = slices.DeleteFunc(all, func(e *entity.OutboundEntry) bool { return itemID != "" && e.ItemID != itemID })
		slices.SortFunc(all, func(a, b *entity.OutboundEntry) int {
			return cmp.Or(b.IssuedAt.Compare(a.IssuedAt), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *OutboundRepository) DeleteByItem(_ context.Context, itemID string) error {
	return r.exec(func(s *state) error {
		maps.DeleteFunc(s.outbound, func(_ string, e entity.OutboundEntry) bool { return e.ItemID == itemID })
		return nil
	})
}

func (r *OutboundRepository) UnlinkLoan(_ context.Context, loanID string) error {
	return r.exec(func(s *state) error {
		for id, e := range s.outbound {
			if e.LoanID == loanID {
				e.LoanID = ""
				s.outbound[id] = e
			}
		}
		return nil
	})
}

func (r *OutboundRepository) TotalsByItem(_ context.Context) (map[string]int, error) {
	totals := make(map[string]int)
	err := r.exec(func(s *state) error {
		for _, e := range s.outbound {
			totals[e.ItemID] += e.Quantity
		}
		return nil
	})
	return totals, err
}

func (r *OutboundRepository) TotalForItem(_ context.Context, itemID string) (int, error) {
	var total int
	err := r.exec(func(s *state) error {
		for _, e := range s.outbound {
			if e.ItemID == itemID {
				total += e.Quantity
			}
		}
		return nil
	})
	return total, err
}

// LoanRepository implementación en memoria de repository.LoanRepository.
type LoanRepository struct{ exec exec }

func (r *LoanRepository) Create(_ context.Context, l *entity.LoanRecord) error {
	return r.exec(func(s *state) error {
		if _, ok := s.items[l.ItemID]; !ok {
			return fmt.Errorf("memory: préstamo para artículo inexistente: %w", domain.ErrNotFound)
		}
		if _, ok := s.loans[l.ID]; ok {
			return fmt.Errorf("memory: crear préstamo: %w", domain.ErrDuplicate)
		}
		s.loans[l.ID] = copyLoan(*l)
		return nil
	})
}

func (r *LoanRepository) GetByID(_ context.Context, id string) (*entity.LoanRecord, error) {
	var out *entity.LoanRecord
	err := r.exec(func(s *state) error {
		if l, ok := s.loans[id]; ok {
			l = copyLoan(l)
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LoanRepository) GetForUpdate(ctx context.Context, id string) (*entity.LoanRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *LoanRepository) Update(_ context.Context, l *entity.LoanRecord) error {
	return r.exec(func(s *state) error {
		if _, ok := s.loans[l.ID]; !ok {
			return domain.ErrNotFound
		}
		s.loans[l.ID] = copyLoan(*l)
		return nil
	})
}

func (r *LoanRepository) Delete(_ context.Context, id string) error {
	return r.exec(func(s *state) error {
		if _, ok := s.loans[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.loans, id)
		return nil
	})
}

func (r *LoanRepository) List(_ context.Context, status entity.LoanStatus, limit, offset int) ([]*entity.LoanRecord, error) {
	var out []*entity.LoanRecord
	err := r.exec(func(s *state) error {
		all := make([]*entity.LoanRecord, 0, len(s.loans))
		for _, l := range s.loans {
			if status != "" && l.Status != status {
				continue
			}
			l = copyLoan(l)
			all = append(all, &l)
		}
		slices.SortFunc(all, func(a, b *entity.LoanRecord) int {
			return cmp.Or(b.LoanDate.Compare(a.LoanDate), b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
		})
		out = paginate(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *LoanRepository) DeleteByItem(_ context.Context, itemID string) error {
	return r.exec(func(s *state) error {
		maps.DeleteFunc(s.loans, func(_ string, l entity.LoanRecord) bool { return l.ItemID == itemID })
		return nil
	})
}

func (r *LoanRepository) CountOutstanding(_ context.Context) (int, error) {
	n := 0
	err := r.exec(func(s *state) error {
		for _, l := range s.loans {
			if l.IsOutstanding() {
				n++
			}
		}
		return nil
	})
	return n, err
}

// copyLoan evita compartir ReturnedAt entre la copia almacenada y la del llamador.
func copyLoan(l entity.LoanRecord) entity.LoanRecord {
	if l.ReturnedAt != nil {
		at := *l.ReturnedAt
		l.ReturnedAt = &at
	}
	return l
}

func collect[T any](m map[string]T) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, &v)
	}
	return out
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

var (
	_ repository.ItemRepository     = (*ItemRepository)(nil)
	_ repository.InboundRepository  = (*InboundRepository)(nil)
	_ repository.OutboundRepository = (*OutboundRepository)(nil)
	_ repository.LoanRepository     = (*LoanRepository)(nil)
)
