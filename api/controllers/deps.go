package controllers

import (
	"context"

	"github.com/angelmondragon/startupidea/internal/ideas"
	"github.com/angelmondragon/startupidea/internal/session"
)

// SessionManager is the slice of *session.Manager the auth controllers drive.
type SessionManager interface {
	Snapshot() session.State
	IsLoggedIn() bool
	CurrentEmail() string
	RefreshIfNeeded(ctx context.Context) bool
	SignIn(ctx context.Context, email, password string) bool
	SignUp(ctx context.Context, email, password string) bool
	SignOut(ctx context.Context)
	ClearPendingConfirmation()
}

// IdeaStore is the slice of *ideas.Store the idea controllers drive.
type IdeaStore interface {
	Snapshot() ideas.State
	Find(id string) (ideas.Idea, bool)
	Search(query string) []ideas.Idea
	Trending() []ideas.Idea
	Recent() []ideas.Idea
	FetchIdeas(ctx context.Context) error
	SubmitIdea(ctx context.Context, in ideas.SubmitInput) (ideas.Idea, error)
	UpdateIdea(ctx context.Context, in ideas.UpdateInput) (bool, error)
	DeleteIdea(ctx context.Context, id string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
