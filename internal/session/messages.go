package session

import (
	"errors"
	"strings"

	"github.com/angelmondragon/startupidea/internal/gateway"
)

// User-facing messages, in the app's display language.
const (
	msgInvalidCredentials = "Email atau password salah"
	msgUserNotFound       = "Pengguna tidak ditemukan"
	msgSignInFailed       = "Login gagal"
	msgAlreadyRegistered  = "Email sudah terdaftar. Silakan login."
	msgWeakPassword       = "Password tidak memenuhi persyaratan. Gunakan minimal 6 karakter."
	msgNetwork            = "Koneksi internet terputus. Periksa koneksi Anda."
	msgSignUpFailedPrefix = "Pendaftaran gagal: "
	msgUnexpected         = "Terjadi kesalahan"

	msgEmailRequired    = "Email tidak boleh kosong"
	msgEmailInvalid     = "Format email tidak valid"
	msgPasswordRequired = "Password tidak boleh kosong"
	msgPasswordTooShort = "Password minimal 6 karakter"
)

func rawMessage(err error) string {
	var authErr *gateway.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func signInFailureMessage(err error) string {
	switch {
	case gateway.IsAuthKind(err, gateway.AuthInvalidCredentials):
		return msgInvalidCredentials
	case gateway.IsAuthKind(err, gateway.AuthUserNotFound):
		return msgUserNotFound
	case gateway.IsTransport(err):
		return msgSignInFailed
	}
	if msg := strings.TrimSpace(rawMessage(err)); msg != "" {
		return msg
	}
	return msgSignInFailed
}

func signUpFailureMessage(err error) string {
	raw := rawMessage(err)
	switch {
	case gateway.IsAuthKind(err, gateway.AuthAlreadyRegistered):
		return msgAlreadyRegistered
	case gateway.IsAuthKind(err, gateway.AuthWeakPassword):
		return msgWeakPassword
	case gateway.IsTransport(err), strings.Contains(strings.ToLower(raw), "network"):
		return msgNetwork
	}
	if strings.TrimSpace(raw) == "" {
		return msgUnexpected
	}
	return msgSignUpFailedPrefix + raw
}
