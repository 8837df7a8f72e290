package credentials

import (
	"strings"
	"testing"
)

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		password, err := GenerateTempPassword()
		if err != nil {
			t.Fatalf("GenerateTempPassword: %v", err)
		}
		if len(password) != 10 {
			t.Errorf("password length = %d, want 10", len(password))
		}
		for _, c := range password {
			if !strings.ContainsRune(tempPasswordChars, c) {
				t.Errorf("password contains unexpected character %q", c)
			}
		}
		seen[password] = true
	}

	if len(seen) < 45 {
		t.Errorf("expected near-unique passwords, got %d distinct out of 50", len(seen))
	}
}

func TestRandomAvatarColor(t *testing.T) {
	for i := 0; i < 20; i++ {
		color, err := RandomAvatarColor()
		if err != nil {
			t.Fatalf("RandomAvatarColor: %v", err)
		}

		found := false
		for _, c := range avatarColors {
			if c == color {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("color %q not in palette", color)
		}
	}
}
