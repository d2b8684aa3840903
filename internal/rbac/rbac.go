// Package rbac содержит чистые предикаты авторизации по ролям.
package rbac

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

// CanSubmit сообщает, может ли пользователь создавать планы и предпросмотры.
func CanSubmit(user model.User) bool {
	return user.Role == model.RoleOwner || user.Role == model.RolePlanner
}

// CanActivate сообщает, может ли пользователь активировать план с указанной
// чистой суммой. Плановик вправе сам активировать план в пределах порога
// согласования, суммы выше порога активирует только владелец.
func CanActivate(user model.User, netAmount decimal.Decimal, settings model.Settings) bool {
	if netAmount.LessThanOrEqual(settings.ApprovalThreshold) {
		return user.Role == model.RoleOwner || user.Role == model.RolePlanner
	}
	return user.Role == model.RoleOwner
}

// CanCancel сообщает, может ли пользователь отменить план.
func CanCancel(user model.User) bool {
	return user.Role == model.RoleOwner
}
