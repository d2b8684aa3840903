// Package repository содержит реализацию хранения планов в памяти процесса.
package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// ErrPlanNotFound возвращается, если план с указанным идентификатором отсутствует.
var ErrPlanNotFound = errors.New("plan not found")

// Memory хранит планы, шаги и журнал действий в памяти процесса.
// Все операции выполняются под одним RWMutex: переход статуса через
// UpdatePlan — единая атомарная операция чтения-изменения-записи, поэтому
// конкурентные активация и отмена одного плана не теряют обновлений.
type Memory struct {
	mu       sync.RWMutex
	plans    map[string]model.Plan
	steps    map[string][]model.PlanStep
	activity map[string][]model.Activity
}

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{
		plans:    make(map[string]model.Plan),
		steps:    make(map[string][]model.PlanStep),
		activity: make(map[string][]model.Activity),
	}
}

// Close закрывает ресурсы хранилища.
func (m *Memory) Close() error {
	return nil
}

// SavePlan сохраняет план вместе с его шагами.
func (m *Memory) SavePlan(_ context.Context, plan model.Plan, steps []model.PlanStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans[plan.ID] = plan
	m.steps[plan.ID] = append([]model.PlanStep(nil), steps...)
	return nil
}

// GetPlan возвращает план и его шаги по идентификатору.
func (m *Memory) GetPlan(_ context.Context, id string) (model.Plan, []model.PlanStep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plan, ok := m.plans[id]
	if !ok {
		return model.Plan{}, nil, ErrPlanNotFound
	}

	steps := append([]model.PlanStep(nil), m.steps[id]...)
	return plan, steps, nil
}

// ListPlans возвращает все сохранённые планы без определённого порядка.
func (m *Memory) ListPlans(_ context.Context) ([]model.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plans := make([]model.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

// UpdatePlan применяет fn к плану под блокировкой записи. Изменения
// сохраняются только если fn вернула nil; иначе план остаётся прежним.
func (m *Memory) UpdatePlan(_ context.Context, id string, fn func(*model.Plan) error) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	plan, ok := m.plans[id]
	if !ok {
		return model.Plan{}, ErrPlanNotFound
	}

	if err := fn(&plan); err != nil {
		return model.Plan{}, err
	}

	m.plans[id] = plan
	return plan, nil
}

// AppendActivity добавляет запись в журнал действий плана.
// Записи никогда не изменяются и не удаляются.
func (m *Memory) AppendActivity(_ context.Context, entry model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity[entry.PlanID] = append(m.activity[entry.PlanID], entry)
	return nil
}

// ListActivity возвращает журнал действий плана в хронологическом порядке.
func (m *Memory) ListActivity(_ context.Context, planID string) ([]model.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := append([]model.Activity(nil), m.activity[planID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}
