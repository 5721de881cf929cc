package utils

import "testing"

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"valid password", "Password1", true},
		{"long mixed", "CorrectHorse9battery", true},
		{"too short", "Aa1bcde", false},
		{"no uppercase", "password1", false},
		{"no lowercase", "PASSWORD1", false},
		{"no digit", "PasswordX", false},
		{"empty", "", false},
		{"exactly eight", "Abcdefg1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrongPassword(tt.password); got != tt.expected {
				t.Errorf("StrongPassword(%q) = %v, expected %v", tt.password, got, tt.expected)
			}
		})
	}
}

func TestTempPasswordAlwaysStrong(t *testing.T) {
	for _, n := range []int{0, 6, 8, 24} {
		pw := TempPassword(n)
		if !StrongPassword(pw) {
			t.Errorf("TempPassword(%d) = %q does not pass the password policy", n, pw)
		}
	}
	if TempPassword(8) == TempPassword(8) {
		t.Error("consecutive temp passwords should not repeat")
	}
}
