package users_handler

import (
	"strings"
	"testing"

	"github.com/IT-Nick/compliance-bot/internal/domain/model"
)

// TestParseNewUser проверяет разбор аргументов /add_user.
func TestParseNewUser(t *testing.T) {
	fullName, username, password, ok := ParseNewUser(" Alice Smith ; alice ;p;ss")
	if !ok || fullName != "Alice Smith" || username != "alice" || password != "p;ss" {
		t.Errorf("получено %q %q %q ok=%v", fullName, username, password, ok)
	}
	if _, _, _, ok := ParseNewUser("Alice;alice"); ok {
		t.Errorf("два поля должны отклоняться")
	}
}

// TestFormatUsers проверяет список и пустые состояния.
func TestFormatUsers(t *testing.T) {
	if got := FormatUsers(nil, ""); got != "No users have been added." {
		t.Errorf("получено %q", got)
	}
	if got := FormatUsers(nil, "bob"); got != "No users match your search." {
		t.Errorf("получено %q", got)
	}
	text := FormatUsers([]model.User{{FullName: "Demo User", Username: "Demo", Status: model.UserExpired}}, "")
	if !strings.Contains(text, "Demo User (Demo) - expired") {
		t.Errorf("получено %q", text)
	}
}
