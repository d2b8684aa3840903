// Package model содержит доменные сущности сервиса планирования конвертаций.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает роль демо-пользователя.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RolePlanner Role = "PLANNER"
	RoleViewer  Role = "VIEWER"
)

// User представляет демо-пользователя, от имени которого выполняются операции.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Settings содержит процессные настройки, используемые при авторизации.
type Settings struct {
	HomeCurrency      string          `json:"home_currency"`
	ApprovalThreshold decimal.Decimal `json:"approval_threshold"`
}

// PlanStatus описывает статус жизненного цикла плана.
type PlanStatus string

const (
	PlanStatusDraft     PlanStatus = "DRAFT"
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusCancelled PlanStatus = "CANCELLED"
	PlanStatusCompleted PlanStatus = "COMPLETED"
)

// CanTransition сообщает, допустим ли переход плана между двумя статусами.
// CANCELLED и COMPLETED — терминальные статусы без исходящих переходов.
func CanTransition(from, to PlanStatus) bool {
	switch from {
	case PlanStatusDraft:
		return to == PlanStatusActive
	case PlanStatusActive:
		return to == PlanStatusCancelled || to == PlanStatusCompleted
	default:
		return false
	}
}

// ExecutionMode описывает стратегию исполнения плана.
type ExecutionMode string

const (
	ModeSpreadOverTime ExecutionMode = "SPREAD_OVER_TIME"
	ModeOneShotRate    ExecutionMode = "ONE_SHOT_RATE"
)

// Strategy описывает стратегию конвертации из правила.
// Mode определяет, какое из полей значимо: Chunks для SPREAD_OVER_TIME,
// MinRate для ONE_SHOT_RATE. Корректность сочетания проверяет валидация.
type Strategy struct {
	Mode    ExecutionMode    `json:"mode"`
	Chunks  int              `json:"chunks,omitempty"`
	MinRate *decimal.Decimal `json:"min_rate,omitempty"`
}

// Need описывает целевую потребность в валюте к заданному сроку.
type Need struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	ConvertBy time.Time       `json:"convert_by"`
}

// Netting содержит средства, вычитаемые из валовой потребности.
type Netting struct {
	ExistingBalance decimal.Decimal `json:"existing_balance"`
	ExpectedInflows decimal.Decimal `json:"expected_inflows"`
}

// Rule — входное правило планирования, полученное от клиента.
// Правило не хранится как отдельная сущность: из него строится план,
// а исходный JSON сохраняется на плане для аудита.
type Rule struct {
	Need           Need     `json:"need"`
	SourceCurrency string   `json:"source_currency"`
	Strategy       Strategy `json:"strategy"`
	Netting        Netting  `json:"netting"`
	Name           string   `json:"name,omitempty"`
}

// Plan — центральная сущность: план конвертации с жизненным циклом.
type Plan struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	SourceCurrency string `json:"source_currency"`
	TargetCurrency string `json:"target_currency"`

	GrossAmount     decimal.Decimal `json:"gross_amount"`
	ExistingBalance decimal.Decimal `json:"existing_balance"`
	ExpectedInflows decimal.Decimal `json:"expected_inflows"`
	// NetAmount вычисляется один раз при построении плана как
	// max(0, GrossAmount - ExistingBalance - ExpectedInflows) и отдельно
	// не изменяется.
	NetAmount decimal.Decimal `json:"net_amount"`

	ConvertBy     time.Time        `json:"convert_by"`
	ExecutionMode ExecutionMode    `json:"execution_mode"`
	Chunks        int              `json:"chunks,omitempty"`
	MinRate       *decimal.Decimal `json:"min_rate,omitempty"`

	Status PlanStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	RawRule json.RawMessage `json:"raw_rule,omitempty"`
}

// PlanStepType описывает вид шага конвертации.
type PlanStepType string

const (
	StepTypeChunk   PlanStepType = "CHUNK"
	StepTypeTrigger PlanStepType = "TRIGGER"
)

// PlanStep — один запланированный (или условный) шаг конвертации.
// PlanID служит только для поиска, порядок шагов задаёт Index.
type PlanStep struct {
	ID     string       `json:"id"`
	PlanID string       `json:"plan_id"`
	Index  int          `json:"index"`
	Type   PlanStepType `json:"type"`

	When time.Time `json:"when"`

	SourceCurrency string          `json:"source_currency"`
	SourceAmount   decimal.Decimal `json:"source_amount"`
	TargetCurrency string          `json:"target_currency"`
	TargetAmount   decimal.Decimal `json:"target_amount"`

	Explanation string `json:"explanation"`
}

// ActivityType описывает тип записи журнала действий.
type ActivityType string

const (
	ActivityPlanCreated   ActivityType = "PLAN_CREATED"
	ActivityPlanUpdated   ActivityType = "PLAN_UPDATED"
	ActivityPlanActivated ActivityType = "PLAN_ACTIVATED"
	ActivityPlanCancelled ActivityType = "PLAN_CANCELLED"
	ActivityPlanCompleted ActivityType = "PLAN_COMPLETED"
)

// Activity — неизменяемая запись журнала действий по плану.
type Activity struct {
	ID      string       `json:"id"`
	PlanID  string       `json:"plan_id"`
	Type    ActivityType `json:"type"`
	Message string       `json:"message"`

	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	UserRole Role   `json:"user_role"`

	CreatedAt time.Time `json:"created_at"`
}

// PlanSummary — краткая проекция плана для списков.
type PlanSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         PlanStatus      `json:"status"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	ConvertBy      time.Time       `json:"convert_by"`
}
