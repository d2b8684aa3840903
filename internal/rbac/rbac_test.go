package rbac

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/fxplanner-system/internal/model"
)

var testSettings = model.Settings{
	HomeCurrency:      "EUR",
	ApprovalThreshold: decimal.NewFromInt(25000),
}

func TestCanActivate(t *testing.T) {
	tests := []struct {
		name      string
		role      model.Role
		netAmount int64
		want      bool
	}{
		{name: "planner below threshold", role: model.RolePlanner, netAmount: 10000, want: true},
		{name: "planner at threshold", role: model.RolePlanner, netAmount: 25000, want: true},
		{name: "planner above threshold", role: model.RolePlanner, netAmount: 30000, want: false},
		{name: "owner below threshold", role: model.RoleOwner, netAmount: 10000, want: true},
		{name: "owner above threshold", role: model.RoleOwner, netAmount: 30000, want: true},
		{name: "viewer below threshold", role: model.RoleViewer, netAmount: 100, want: false},
		{name: "viewer above threshold", role: model.RoleViewer, netAmount: 30000, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := model.User{ID: "u1", Name: "Test", Role: tt.role}
			got := CanActivate(user, decimal.NewFromInt(tt.netAmount), testSettings)
			if got != tt.want {
				t.Fatalf("CanActivate(%s, %d) = %v, want %v", tt.role, tt.netAmount, got, tt.want)
			}
		})
	}
}

func TestCanCancel(t *testing.T) {
	if !CanCancel(model.User{Role: model.RoleOwner}) {
		t.Fatalf("owner must be able to cancel")
	}
	if CanCancel(model.User{Role: model.RolePlanner}) {
		t.Fatalf("planner must not be able to cancel")
	}
	if CanCancel(model.User{Role: model.RoleViewer}) {
		t.Fatalf("viewer must not be able to cancel")
	}
}

func TestCanSubmit(t *testing.T) {
	if !CanSubmit(model.User{Role: model.RoleOwner}) || !CanSubmit(model.User{Role: model.RolePlanner}) {
		t.Fatalf("owner and planner must be able to submit")
	}
	if CanSubmit(model.User{Role: model.RoleViewer}) {
		t.Fatalf("viewer must not be able to submit")
	}
}
