package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/angelmondragon/startupidea/pkg/supabase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAuthMessage(t *testing.T) {
	cases := map[string]AuthKind{
		"Invalid login credentials":                 AuthInvalidCredentials,
		"EMAIL NOT CONFIRMED":                       AuthEmailUnconfirmed,
		"User not found":                            AuthUserNotFound,
		"User already registered":                   AuthAlreadyRegistered,
		"Password should be at least 6 characters.": AuthWeakPassword,
		"Database error saving new user":            AuthUnknown,
	}
	for msg, want := range cases {
		assert.Equal(t, want, classifyAuthMessage(msg), msg)
	}
}

func TestClassifyAuthWrapsTransport(t *testing.T) {
	err := classifyAuth("sign_in", fmt.Errorf("dial: %w", context.DeadlineExceeded))
	require.True(t, IsTransport(err))

	err = classifyAuth("sign_in", &supabase.APIError{Status: 400, Message: "Invalid login credentials"})
	require.True(t, IsAuthKind(err, AuthInvalidCredentials))
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	require.Equal(t, "Invalid login credentials", authErr.Message)
}

func TestClassifyStorage(t *testing.T) {
	cases := []struct {
		err  error
		kind StorageKind
	}{
		{&supabase.APIError{Status: http.StatusForbidden, Message: "forbidden"}, StoragePermission},
		{&supabase.APIError{Status: http.StatusRequestEntityTooLarge, Message: "too big"}, StoragePermission},
		{&supabase.APIError{Status: http.StatusBadRequest, Message: "new row violates row-level security policy"}, StoragePermission},
		{&supabase.APIError{Status: http.StatusNotFound, Message: "Object not found"}, StorageNotFound},
		{&supabase.APIError{Status: http.StatusBadGateway, Message: "bad gateway"}, StorageNetwork},
		{&supabase.APIError{Status: http.StatusConflict, Message: "duplicate key"}, StorageUnknown},
		{context.Canceled, StorageNetwork},
		{errors.New("decoding response"), StorageUnknown},
	}
	for _, tc := range cases {
		err := classifyStorage("op", tc.err)
		assert.True(t, IsStorageKind(err, tc.kind), "%v should be %s, got %v", tc.err, tc.kind, err)
		assert.ErrorIs(t, err, tc.err)
	}
}

func TestKindLabels(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, "auth_weak_password", Kind(&AuthError{Kind: AuthWeakPassword}))
	assert.Equal(t, "storage_not_found", Kind(fmt.Errorf("x: %w", &StorageError{Kind: StorageNotFound})))
	assert.Equal(t, "transport", Kind(&TransportError{Op: "x", Err: errors.New("down")}))
	assert.Equal(t, "unknown", Kind(errors.New("plain")))
}
