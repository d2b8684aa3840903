package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// Seed наполняет хранилище демонстрационными планами, чтобы интерфейс было
// что показывать сразу после запуска.
func (m *Memory) Seed(ctx context.Context) error {
	now := time.Now().UTC()

	minRate := decimal.NewFromFloat(0.93)

	plans := []model.Plan{
		{
			ID:              "demo-1",
			Name:            "Q4 Marketing Budget",
			SourceCurrency:  "EUR",
			TargetCurrency:  "USD",
			GrossAmount:     decimal.NewFromInt(100000),
			ExistingBalance: decimal.NewFromInt(20000),
			ExpectedInflows: decimal.NewFromInt(30000),
			NetAmount:       decimal.NewFromInt(50000),
			ConvertBy:       now.Add(7 * 24 * time.Hour),
			ExecutionMode:   model.ModeSpreadOverTime,
			Chunks:          4,
			Status:          model.PlanStatusDraft,
			CreatedAt:       now,
			CreatedBy:       "alice",
		},
		{
			ID:              "demo-supplier-batch",
			Name:            "Supplier Batch Q4",
			SourceCurrency:  "USD",
			TargetCurrency:  "EUR",
			GrossAmount:     decimal.NewFromInt(90000),
			ExistingBalance: decimal.NewFromInt(28000),
			ExpectedInflows: decimal.NewFromInt(20000),
			NetAmount:       decimal.NewFromInt(42000),
			ConvertBy:       now.Add(14 * 24 * time.Hour),
			ExecutionMode:   model.ModeOneShotRate,
			MinRate:         &minRate,
			Status:          model.PlanStatusActive,
			CreatedAt:       now.Add(-24 * time.Hour),
			CreatedBy:       "bob",
		},
	}

	steps := []model.PlanStep{
		{
			ID:             "demo-1-step-1",
			PlanID:         "demo-1",
			Index:          0,
			Type:           model.StepTypeChunk,
			When:           now.Add(2 * 24 * time.Hour),
			SourceCurrency: "EUR",
			SourceAmount:   decimal.NewFromInt(13750),
			TargetCurrency: "USD",
			TargetAmount:   decimal.NewFromInt(12500),
			Explanation:    "Step 1/4: convert 12500 USD to spread FX risk before the deadline.",
		},
		{
			ID:             "demo-1-step-2",
			PlanID:         "demo-1",
			Index:          1,
			Type:           model.StepTypeChunk,
			When:           now.Add(4 * 24 * time.Hour),
			SourceCurrency: "EUR",
			SourceAmount:   decimal.NewFromInt(13750),
			TargetCurrency: "USD",
			TargetAmount:   decimal.NewFromInt(12500),
			Explanation:    "Step 2/4: convert 12500 USD to spread FX risk before the deadline.",
		},
	}

	if err := m.SavePlan(ctx, plans[0], steps); err != nil {
		return err
	}
	if err := m.SavePlan(ctx, plans[1], nil); err != nil {
		return err
	}

	return m.AppendActivity(ctx, model.Activity{
		ID:        "demo-1-log-1",
		PlanID:    "demo-1",
		Type:      model.ActivityPlanCreated,
		Message:   "Plan created by Alice",
		UserID:    "alice",
		UserName:  "Alice",
		UserRole:  model.RolePlanner,
		CreatedAt: now,
	})
}
