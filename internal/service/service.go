// Package service реализует бизнес-логику планирования конвертаций.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/fxplanner-system/internal/model"
	"github.com/mmeshcher/fxplanner-system/internal/planner"
	"github.com/mmeshcher/fxplanner-system/internal/rates"
	"github.com/mmeshcher/fxplanner-system/internal/rbac"
	"github.com/mmeshcher/fxplanner-system/internal/validation"
)

// ErrForbidden возвращается, когда роль пользователя не позволяет выполнить переход.
var (
	ErrForbidden = errors.New("operation not permitted for user role")
	// ErrInvalidTransition возвращается при недопустимом переходе статуса плана.
	ErrInvalidTransition = errors.New("invalid plan status transition")
)

// PreviewPlanID — идентификатор несохраняемого плана предпросмотра.
const PreviewPlanID = "preview"

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	SavePlan(ctx context.Context, plan model.Plan, steps []model.PlanStep) error
	GetPlan(ctx context.Context, id string) (model.Plan, []model.PlanStep, error)
	ListPlans(ctx context.Context) ([]model.Plan, error)
	UpdatePlan(ctx context.Context, id string, fn func(*model.Plan) error) (model.Plan, error)
	AppendActivity(ctx context.Context, entry model.Activity) error
	ListActivity(ctx context.Context, planID string) ([]model.Activity, error)
}

// Service содержит бизнес-логику планирования конвертаций.
type Service struct {
	repo        Repository
	ratesClient *rates.Client
	provider    rates.Provider
	settings    model.Settings
	logger      *zap.Logger

	quotesMu sync.RWMutex
	quotes   map[string]decimal.Decimal
}

// New создаёт сервис с указанным хранилищем и настройками. Если клиент
// сервиса курсов не задан, используется фиксированный демонстрационный курс.
func New(repo Repository, ratesClient *rates.Client, settings model.Settings, logger *zap.Logger) *Service {
	var provider rates.Provider
	if ratesClient != nil {
		provider = ratesClient
	} else {
		provider = rates.NewStatic(rates.DemoRate)
	}

	return &Service{
		repo:        repo,
		ratesClient: ratesClient,
		provider:    provider,
		settings:    settings,
		logger:      logger,
		quotes:      make(map[string]decimal.Decimal),
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Settings возвращает текущие настройки сервиса.
func (s *Service) Settings() model.Settings {
	return s.settings
}

// PreviewPlan строит несохраняемый план с шагами по правилу.
// Побочных эффектов нет: ни записи в хранилище, ни записи в журнал.
func (s *Service) PreviewPlan(ctx context.Context, rule model.Rule, user model.User) (model.Plan, []model.PlanStep, error) {
	if err := validation.ValidateRule(rule); err != nil {
		return model.Plan{}, nil, err
	}

	now := time.Now().UTC()
	plan := buildPlan(rule, user, PreviewPlanID, now)
	steps := planner.GenerateSteps(plan, now, s.rateFor(ctx, plan.SourceCurrency, plan.TargetCurrency))

	return plan, steps, nil
}

// CreatePlan создаёт план в статусе DRAFT, сохраняет его шаги и добавляет
// запись PLAN_CREATED в журнал действий.
func (s *Service) CreatePlan(ctx context.Context, rule model.Rule, user model.User) (model.Plan, []model.PlanStep, error) {
	if err := validation.ValidateRule(rule); err != nil {
		return model.Plan{}, nil, err
	}

	now := time.Now().UTC()
	plan := buildPlan(rule, user, uuid.NewString(), now)
	steps := planner.GenerateSteps(plan, now, s.rateFor(ctx, plan.SourceCurrency, plan.TargetCurrency))

	if err := s.repo.SavePlan(ctx, plan, steps); err != nil {
		return model.Plan{}, nil, err
	}

	s.logActivity(ctx, plan.ID, model.ActivityPlanCreated, fmt.Sprintf("Plan created by %s", user.Name), user)

	return plan, steps, nil
}

// ListPlans возвращает краткие проекции всех сохранённых планов.
// Порядок не определён, сортировку выполняет вызывающая сторона.
func (s *Service) ListPlans(ctx context.Context) ([]model.PlanSummary, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.PlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, model.PlanSummary{
			ID:             p.ID,
			Name:           p.Name,
			Status:         p.Status,
			SourceCurrency: p.SourceCurrency,
			TargetCurrency: p.TargetCurrency,
			NetAmount:      p.NetAmount,
			ConvertBy:      p.ConvertBy,
		})
	}
	return summaries, nil
}

// GetPlan возвращает план и его шаги по идентификатору.
func (s *Service) GetPlan(ctx context.Context, id string) (model.Plan, []model.PlanStep, error) {
	return s.repo.GetPlan(ctx, id)
}

// ActivatePlan переводит план из DRAFT в ACTIVE. Порог согласования
// проверяется здесь и только здесь: плановик активирует планы в пределах
// порога, выше порога — только владелец.
func (s *Service) ActivatePlan(ctx context.Context, id string, user model.User) (model.Plan, error) {
	now := time.Now().UTC()

	plan, err := s.repo.UpdatePlan(ctx, id, func(p *model.Plan) error {
		if !rbac.CanActivate(user, p.NetAmount, s.settings) {
			return fmt.Errorf("%w: activation requires owner above threshold %s", ErrForbidden, s.settings.ApprovalThreshold)
		}
		if !model.CanTransition(p.Status, model.PlanStatusActive) {
			return fmt.Errorf("%w: cannot activate plan in status %s", ErrInvalidTransition, p.Status)
		}

		p.Status = model.PlanStatusActive
		p.ApprovedAt = &now
		p.ApprovedBy = user.ID
		return nil
	})
	if err != nil {
		return model.Plan{}, err
	}

	s.logActivity(ctx, id, model.ActivityPlanActivated, "Plan activated", user)

	return plan, nil
}

// CancelPlan отменяет план. Отменить можно только ACTIVE-план и только
// владельцу; CANCELLED — терминальный статус.
func (s *Service) CancelPlan(ctx context.Context, id string, user model.User) (model.Plan, error) {
	now := time.Now().UTC()

	plan, err := s.repo.UpdatePlan(ctx, id, func(p *model.Plan) error {
		if !model.CanTransition(p.Status, model.PlanStatusCancelled) {
			return fmt.Errorf("%w: cannot cancel plan in status %s", ErrInvalidTransition, p.Status)
		}
		if !rbac.CanCancel(user) {
			return fmt.Errorf("%w: only owner may cancel a plan", ErrForbidden)
		}

		p.Status = model.PlanStatusCancelled
		p.CancelledAt = &now
		return nil
	})
	if err != nil {
		return model.Plan{}, err
	}

	s.logActivity(ctx, id, model.ActivityPlanCancelled, "Plan cancelled", user)

	return plan, nil
}

// CompletePlan завершает план. Завершить можно только ACTIVE-план: guard
// единообразен с отменой, COMPLETED — терминальный статус.
func (s *Service) CompletePlan(ctx context.Context, id string, user model.User) (model.Plan, error) {
	plan, err := s.repo.UpdatePlan(ctx, id, func(p *model.Plan) error {
		if !model.CanTransition(p.Status, model.PlanStatusCompleted) {
			return fmt.Errorf("%w: cannot complete plan in status %s", ErrInvalidTransition, p.Status)
		}

		p.Status = model.PlanStatusCompleted
		return nil
	})
	if err != nil {
		return model.Plan{}, err
	}

	s.logActivity(ctx, id, model.ActivityPlanCompleted, "Plan completed", user)

	return plan, nil
}

// GetActivity возвращает журнал действий плана в хронологическом порядке.
func (s *Service) GetActivity(ctx context.Context, planID string) ([]model.Activity, error) {
	return s.repo.ListActivity(ctx, planID)
}

// logActivity добавляет запись журнала после успешного перехода.
// Запись следует за уже зафиксированным изменением плана.
func (s *Service) logActivity(ctx context.Context, planID string, typ model.ActivityType, message string, user model.User) {
	entry := model.Activity{
		ID:        uuid.NewString(),
		PlanID:    planID,
		Type:      typ,
		Message:   message,
		UserID:    user.ID,
		UserName:  user.Name,
		UserRole:  user.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.AppendActivity(ctx, entry); err != nil {
		s.logger.Error("append activity error", zap.Error(err), zap.String("planID", planID))
	}
}

// buildPlan строит план из правила. Чистая сумма вычисляется здесь один раз:
// max(0, gross - existingBalance - expectedInflows).
func buildPlan(rule model.Rule, user model.User, id string, now time.Time) model.Plan {
	net := rule.Need.Amount.Sub(rule.Netting.ExistingBalance).Sub(rule.Netting.ExpectedInflows)
	if net.IsNegative() {
		net = decimal.Zero
	}

	name := rule.Name
	if name == "" {
		name = fmt.Sprintf("Plan %s", id)
	}

	raw, _ := json.Marshal(rule)

	return model.Plan{
		ID:              id,
		Name:            name,
		SourceCurrency:  rule.SourceCurrency,
		TargetCurrency:  rule.Need.Currency,
		GrossAmount:     rule.Need.Amount,
		ExistingBalance: rule.Netting.ExistingBalance,
		ExpectedInflows: rule.Netting.ExpectedInflows,
		NetAmount:       net,
		ConvertBy:       rule.Need.ConvertBy,
		ExecutionMode:   rule.Strategy.Mode,
		Chunks:          rule.Strategy.Chunks,
		MinRate:         rule.Strategy.MinRate,
		Status:          model.PlanStatusDraft,
		CreatedAt:       now,
		CreatedBy:       user.ID,
		RawRule:         raw,
	}
}

// rateFor возвращает курс для пары валют: сначала кэш фоновых обновлений,
// затем источник напрямую, при ошибке — демонстрационный курс.
func (s *Service) rateFor(ctx context.Context, source, target string) decimal.Decimal {
	s.quotesMu.RLock()
	cached, ok := s.quotes[source+"/"+target]
	s.quotesMu.RUnlock()
	if ok {
		return cached
	}

	rate, err := s.provider.Rate(ctx, source, target)
	if err != nil {
		s.logger.Warn("rate lookup failed, using demo rate",
			zap.Error(err), zap.String("source", source), zap.String("target", target))
		return rates.DemoRate
	}
	return rate
}

// StartRateUpdates запускает фоновое обновление курсов для валютных пар
// незавершённых планов. Без настроенного сервиса курсов обновление не нужно:
// демонстрационный курс не меняется.
func (s *Service) StartRateUpdates(ctx context.Context) {
	if s.ratesClient == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.refreshQuotes(ctx)
			}
		}
	}()
}

func (s *Service) refreshQuotes(ctx context.Context) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return
	}

	pairs := make(map[[2]string]struct{})
	for _, p := range plans {
		if p.Status == model.PlanStatusDraft || p.Status == model.PlanStatusActive {
			pairs[[2]string{p.SourceCurrency, p.TargetCurrency}] = struct{}{}
		}
	}

	for pair := range pairs {
		backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			rate, err := s.ratesClient.Rate(ctx, pair[0], pair[1])
			if err != nil {
				return retry.RetryableError(err)
			}

			s.quotesMu.Lock()
			s.quotes[pair[0]+"/"+pair[1]] = rate
			s.quotesMu.Unlock()
			return nil
		})
		if err != nil {
			s.logger.Warn("rate refresh failed",
				zap.Error(err), zap.String("source", pair[0]), zap.String("target", pair[1]))
		}
	}
}
