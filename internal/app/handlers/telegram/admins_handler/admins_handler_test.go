package admins_handler

import (
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// TestFormatAdmins проверяет, что пароли не попадают в список.
func TestFormatAdmins(t *testing.T) {
	text := FormatAdmins([]model.AdminUser{
		{Username: "admin", Password: "secret", Role: model.RoleSuper},
		{Username: "viewer1", Password: "pw", Role: model.RoleViewer},
	})
	if !strings.Contains(text, "admin - super") || !strings.Contains(text, "viewer1 - viewer") {
		t.Errorf("неверный список: %s", text)
	}
	if strings.Contains(text, "secret") {
		t.Errorf("пароль попал в список: %s", text)
	}
	if got := FormatAdmins(nil); got != "No admins configured." {
		t.Errorf("получено %q", got)
	}
}
