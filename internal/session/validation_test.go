package session

import "testing"

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		email, password, want string
	}{
		{"", "secret1", "Email tidak boleh kosong"},
		{"   ", "secret1", "Email tidak boleh kosong"},
		{"not-an-email", "secret1", "Format email tidak valid"},
		{"a@x.com", "", "Password tidak boleh kosong"},
		{"a@x.com", "      ", "Password tidak boleh kosong"},
		{"a@x.com", "12345", "Password minimal 6 karakter"},
		{"a@x.com", "123456", ""},
		{"", "", "Email tidak boleh kosong"},
	}
	for _, tc := range cases {
		if got := ValidateCredentials(tc.email, tc.password); got != tc.want {
			t.Fatalf("ValidateCredentials(%q, %q) = %q, want %q", tc.email, tc.password, got, tc.want)
		}
	}
}
