package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the persisted form of a backend session.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
}

func (r Record) validate() error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return fmt.Errorf("access token is required")
	}
	if strings.TrimSpace(r.RefreshToken) == "" {
		return fmt.Errorf("refresh token is required")
	}
	return nil
}

func encodeRecord(r Record) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	return string(raw), nil
}

func decodeRecord(raw string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &r, nil
}
