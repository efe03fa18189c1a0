package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

const periodLayout = "2006-01"

// Period mes calendario (YYYY-MM). Los límites se calculan siempre en UTC.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod interpreta "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, s)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// MustParsePeriod como ParsePeriod pero entra en pánico; solo para constantes y tests.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PeriodOf devuelve el periodo que contiene t (en UTC).
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: u.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero indica si el periodo no fue inicializado.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// Start primer instante del mes (incluido).
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End primer instante del mes siguiente (excluido).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Contains indica si t cae en [Start, End).
func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// Prev mes anterior.
func (p Period) Prev() Period { return p.AddMonths(-1) }

// Next mes siguiente.
func (p Period) Next() Period { return p.AddMonths(1) }

// AddMonths desplaza n meses (n puede ser negativo).
func (p Period) AddMonths(n int) Period {
	return PeriodOf(p.Start().AddDate(0, n, 0))
}

// Before orden cronológico.
func (p Period) Before(o Period) bool {
	return p.index() < o.index()
}

// MonthsSince cantidad de meses desde o hasta p (negativo si p es anterior).
func (p Period) MonthsSince(o Period) int {
	return p.index() - o.index()
}

func (p Period) index() int {
	return p.Year*12 + int(p.Month) - 1
}
