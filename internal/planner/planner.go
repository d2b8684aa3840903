// Package planner реализует расчёт шагов конвертации по плану.
package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// GenerateSteps строит упорядоченную последовательность шагов конвертации для
// плана с уже вычисленной чистой суммой. Параметр now используется только для
// режима SPREAD_OVER_TIME, rate — курс для оценки суммы в исходной валюте.
// Функция не имеет побочных эффектов и детерминирована с точностью до
// генерируемых идентификаторов шагов.
func GenerateSteps(plan model.Plan, now time.Time, rate decimal.Decimal) []model.PlanStep {
	if !plan.NetAmount.IsPositive() {
		return []model.PlanStep{}
	}

	if plan.ExecutionMode == model.ModeSpreadOverTime {
		return spreadOverTime(plan, now, rate)
	}
	return oneShot(plan, rate)
}

func spreadOverTime(plan model.Plan, now time.Time, rate decimal.Decimal) []model.PlanStep {
	n := plan.Chunks
	if n < 1 {
		n = 1
	}

	interval := plan.ConvertBy.Sub(now)

	// Чистая сумма делится поровну с округлением вниз, остаток целиком
	// достаётся последнему шагу: сумма шагов точно равна NetAmount.
	base := plan.NetAmount.Div(decimal.NewFromInt(int64(n))).Floor()
	remaining := plan.NetAmount

	steps := make([]model.PlanStep, 0, n)
	for i := 0; i < n; i++ {
		target := base
		if i == n-1 {
			target = remaining
		}
		remaining = remaining.Sub(target)

		// Шаги ложатся в конец каждого из n равных подынтервалов,
		// последний совпадает с ConvertBy.
		when := now.Add(interval * time.Duration(i+1) / time.Duration(n))

		steps = append(steps, model.PlanStep{
			ID:             uuid.NewString(),
			PlanID:         plan.ID,
			Index:          i,
			Type:           model.StepTypeChunk,
			When:           when,
			SourceCurrency: plan.SourceCurrency,
			SourceAmount:   target.Mul(rate).Round(2),
			TargetCurrency: plan.TargetCurrency,
			TargetAmount:   target,
			Explanation: fmt.Sprintf(
				"Step %d/%d: convert %s %s to spread FX risk before the deadline.",
				i+1, n, target, plan.TargetCurrency,
			),
		})
	}

	return steps
}

func oneShot(plan model.Plan, rate decimal.Decimal) []model.PlanStep {
	target := plan.NetAmount

	minRate := decimal.Zero
	if plan.MinRate != nil {
		minRate = *plan.MinRate
	}

	return []model.PlanStep{
		{
			ID:             uuid.NewString(),
			PlanID:         plan.ID,
			Index:          0,
			Type:           model.StepTypeTrigger,
			When:           plan.ConvertBy,
			SourceCurrency: plan.SourceCurrency,
			SourceAmount:   target.Mul(rate).Round(2),
			TargetCurrency: plan.TargetCurrency,
			TargetAmount:   target,
			Explanation: fmt.Sprintf(
				"Convert full amount once rate >= %s. If not hit, fallback executes at the deadline.",
				minRate,
			),
		},
	}
}
