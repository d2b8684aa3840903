// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// ErrInvalidRule возвращается (в обёрнутом виде) для любого структурно
// некорректного правила планирования.
var ErrInvalidRule = errors.New("invalid rule")

// ValidateRule проверяет структурную корректность правила планирования.
// Валидация — предусловие: при успехе ничего не возвращает и не изменяет.
func ValidateRule(rule model.Rule) error {
	if rule.Need.Currency == "" {
		return fmt.Errorf("%w: need.currency is required", ErrInvalidRule)
	}
	if rule.SourceCurrency == "" {
		return fmt.Errorf("%w: source_currency is required", ErrInvalidRule)
	}
	if rule.Need.Amount.IsNegative() {
		return fmt.Errorf("%w: need.amount must be >= 0", ErrInvalidRule)
	}
	if rule.Netting.ExistingBalance.IsNegative() {
		return fmt.Errorf("%w: netting.existing_balance must be >= 0", ErrInvalidRule)
	}
	if rule.Netting.ExpectedInflows.IsNegative() {
		return fmt.Errorf("%w: netting.expected_inflows must be >= 0", ErrInvalidRule)
	}

	switch rule.Strategy.Mode {
	case model.ModeSpreadOverTime:
		if rule.Strategy.Chunks < 1 {
			return fmt.Errorf("%w: chunks must be >= 1 for SPREAD_OVER_TIME", ErrInvalidRule)
		}
	case model.ModeOneShotRate:
		if rule.Strategy.MinRate == nil {
			return fmt.Errorf("%w: min_rate is required for ONE_SHOT_RATE", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown strategy mode %q", ErrInvalidRule, rule.Strategy.Mode)
	}

	return nil
}
