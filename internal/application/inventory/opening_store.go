package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// OpeningBalanceStore saldos de apertura explícitos por (producto, periodo). Última escritura gana.
type OpeningBalanceStore struct {
	repo repository.OpeningBalanceRepository
	now  func() time.Time
}

// NewOpeningBalanceStore construye el almacén.
func NewOpeningBalanceStore(repo repository.OpeningBalanceRepository, now func() time.Time) *OpeningBalanceStore {
	if now == nil {
		now = time.Now
	}
	return &OpeningBalanceStore{repo: repo, now: now}
}

// Set fija (o sobrescribe) la apertura del producto en el periodo.
func (s *OpeningBalanceStore) Set(ctx context.Context, productID string, period domaininv.Period, quantity int64, actor Actor) (*entity.OpeningBalance, error) {
	if productID == "" || period.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	ob := &entity.OpeningBalance{
		ProductID: productID,
		Period:    period.String(),
		Quantity:  quantity,
		SetBy:     actor.UserID,
		SetByName: actor.UserName,
		SetAt:     s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, ob); err != nil {
		return nil, err
	}
	return ob, nil
}

// Get devuelve la apertura fijada; ok=false si no existe.
func (s *OpeningBalanceStore) Get(ctx context.Context, productID string, period domaininv.Period) (*entity.OpeningBalance, bool, error) {
	ob, err := s.repo.Get(ctx, productID, period.String())
	if err != nil {
		return nil, false, err
	}
	return ob, ob != nil, nil
}

// byPeriod todas las aperturas del producto indexadas por periodo, más el primer periodo con valor.
func (s *OpeningBalanceStore) byPeriod(ctx context.Context, productID string) (map[domaininv.Period]int64, *domaininv.Period, error) {
	list, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[domaininv.Period]int64, len(list))
	var earliest *domaininv.Period
	for _, ob := range list {
		p, err := domaininv.ParsePeriod(ob.Period)
		if err != nil {
			continue
		}
		out[p] = ob.Quantity
		if earliest == nil || p.Before(*earliest) {
			pp := p
			earliest = &pp
		}
	}
	return out, earliest, nil
}
