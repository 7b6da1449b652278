package gateway

import (
	"context"
	"time"

	"github.com/angelmondragon/startupidea/pkg/models"
)

type User struct {
	ID    string
	Email string
}

// Session is an authenticated backend session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Valid reports whether the access token is still usable at now. A zero expiry counts as valid.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Gateway is the single point of contact with the remote backend: authentication,
// the ideas table and the logo blob bucket.
type Gateway interface {
	// CurrentSession returns nil, nil when nobody is signed in.
	CurrentSession(ctx context.Context) (*Session, error)
	RefreshSession(ctx context.Context) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) error
	// SignOut always drops the local session; the returned error only reports the remote call.
	SignOut(ctx context.Context) error

	ListIdeas(ctx context.Context) ([]models.Idea, error)
	InsertIdea(ctx context.Context, idea models.Idea) error
	UpdateIdea(ctx context.Context, id string, patch models.IdeaPatch) error
	DeleteIdea(ctx context.Context, id string) error
	// UploadBlob stores data at path, replacing any existing object, and returns its public URL.
	UploadBlob(ctx context.Context, data []byte, path string) (string, error)
}
