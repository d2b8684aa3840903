// Package handler содержит HTTP-обработчики API сервиса планирования конвертаций.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/fxplanner-system/internal/middleware"
	"github.com/mmeshcher/fxplanner-system/internal/model"
	"github.com/mmeshcher/fxplanner-system/internal/rbac"
	"github.com/mmeshcher/fxplanner-system/internal/repository"
	"github.com/mmeshcher/fxplanner-system/internal/service"
	"github.com/mmeshcher/fxplanner-system/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	PreviewPlan(ctx context.Context, rule model.Rule, user model.User) (model.Plan, []model.PlanStep, error)
	CreatePlan(ctx context.Context, rule model.Rule, user model.User) (model.Plan, []model.PlanStep, error)
	ListPlans(ctx context.Context) ([]model.PlanSummary, error)
	GetPlan(ctx context.Context, id string) (model.Plan, []model.PlanStep, error)
	ActivatePlan(ctx context.Context, id string, user model.User) (model.Plan, error)
	CancelPlan(ctx context.Context, id string, user model.User) (model.Plan, error)
	CompletePlan(ctx context.Context, id string, user model.User) (model.Plan, error)
	GetActivity(ctx context.Context, planID string) ([]model.Activity, error)
	Settings() model.Settings
}

// Handler реализует HTTP-обработчики API сервиса планирования конвертаций.
type Handler struct {
	service Service
	logger  *zap.Logger
	auth    *middleware.Auth
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.Auth) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		auth:    auth,
	}
}

type planResponse struct {
	Plan  model.Plan       `json:"plan"`
	Steps []model.PlanStep `json:"steps"`
}

// GetSettings возвращает настройки сервиса.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.Settings())
}

// GetUsers возвращает список демо-пользователей для переключателя ролей.
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.auth.Users())
}

// PreviewPlan строит несохраняемый план по правилу из тела запроса.
func (h *Handler) PreviewPlan(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if !rbac.CanSubmit(user) {
		http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		return
	}

	var rule model.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	plan, steps, err := h.service.PreviewPlan(r.Context(), rule, user)
	if err != nil {
		h.writeError(w, err, "preview plan")
		return
	}

	h.writeJSON(w, planResponse{Plan: plan, Steps: steps})
}

// CreatePlan создаёт план по правилу из тела запроса.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if !rbac.CanSubmit(user) {
		http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
		return
	}

	var rule model.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	plan, steps, err := h.service.CreatePlan(r.Context(), rule, user)
	if err != nil {
		h.writeError(w, err, "create plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(planResponse{Plan: plan, Steps: steps}); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// ListPlans возвращает краткие проекции всех планов.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListPlans(r.Context())
	if err != nil {
		h.writeError(w, err, "list plans")
		return
	}

	h.writeJSON(w, summaries)
}

// GetPlan возвращает план и его шаги.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, steps, err := h.service.GetPlan(r.Context(), planID(r))
	if err != nil {
		h.writeError(w, err, "get plan")
		return
	}

	h.writeJSON(w, planResponse{Plan: plan, Steps: steps})
}

// ActivatePlan переводит план в статус ACTIVE.
func (h *Handler) ActivatePlan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ActivatePlan, "activate plan")
}

// CancelPlan переводит план в статус CANCELLED.
func (h *Handler) CancelPlan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelPlan, "cancel plan")
}

// CompletePlan переводит план в статус COMPLETED.
func (h *Handler) CompletePlan(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompletePlan, "complete plan")
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string, user model.User) (model.Plan, error),
	name string,
) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	plan, err := op(r.Context(), planID(r), user)
	if err != nil {
		h.writeError(w, err, name)
		return
	}

	h.writeJSON(w, plan)
}

// GetActivity возвращает журнал действий плана в хронологическом порядке.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id := planID(r)

	// Журнал отдаётся только для существующих планов.
	if _, _, err := h.service.GetPlan(r.Context(), id); err != nil {
		h.writeError(w, err, "get activity")
		return
	}

	entries, err := h.service.GetActivity(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get activity")
		return
	}

	h.writeJSON(w, entries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

// writeError переводит доменные ошибки в HTTP-статусы. Текст доменной ошибки
// попадает в ответ: каждому виду ошибки соответствует своё сообщение для UI.
func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, validation.ErrInvalidRule):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrPlanNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
