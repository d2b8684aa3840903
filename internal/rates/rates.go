// Package rates предоставляет источники курсов валют для планировщика.
package rates

import (
	"context"

	"github.com/shopspring/decimal"
)

// DemoRate — фиксированный демонстрационный курс, заменяющий реальный
// источник котировок.
var DemoRate = decimal.NewFromFloat(1.10)

// Provider описывает источник курса для пары валют.
type Provider interface {
	Rate(ctx context.Context, source, target string) (decimal.Decimal, error)
}

// Static возвращает один и тот же курс для любой пары валют.
type Static struct {
	rate decimal.Decimal
}

// NewStatic создаёт статический источник с указанным курсом.
func NewStatic(rate decimal.Decimal) *Static {
	return &Static{rate: rate}
}

// Rate возвращает настроенный курс независимо от пары валют.
func (s *Static) Rate(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return s.rate, nil
}
