package session

import (
	"context"
	"sync"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/pkg/models"
)

type fakeGateway struct {
	mu sync.Mutex

	current    *gateway.Session
	currentErr error
	refreshErr error
	signInErr  error
	signUpErr  error
	signOutErr error

	signInHook func()

	signInCalls  int
	signUpCalls  int
	signOutCalls int
	refreshCalls int
}

func (f *fakeGateway) CurrentSession(context.Context) (*gateway.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	if f.current == nil {
		return nil, nil
	}
	cp := *f.current
	return &cp, nil
}

func (f *fakeGateway) RefreshSession(context.Context) (*gateway.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		f.current = nil
		return nil, f.refreshErr
	}
	cp := *f.current
	cp.AccessToken = "refreshed"
	return &cp, nil
}

func (f *fakeGateway) SignIn(_ context.Context, email, _ string) (*gateway.Session, error) {
	f.mu.Lock()
	f.signInCalls++
	hook := f.signInHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.current = &gateway.Session{AccessToken: "at", RefreshToken: "rt", User: gateway.User{ID: "u1", Email: email}}
	cp := *f.current
	return &cp, nil
}

func (f *fakeGateway) SignUp(context.Context, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	return f.signUpErr
}

func (f *fakeGateway) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	f.current = nil
	return f.signOutErr
}

func (f *fakeGateway) ListIdeas(context.Context) ([]models.Idea, error)           { return nil, nil }
func (f *fakeGateway) InsertIdea(context.Context, models.Idea) error              { return nil }
func (f *fakeGateway) UpdateIdea(context.Context, string, models.IdeaPatch) error { return nil }
func (f *fakeGateway) DeleteIdea(context.Context, string) error                   { return nil }
func (f *fakeGateway) UploadBlob(context.Context, []byte, string) (string, error) { return "", nil }

func (f *fakeGateway) calls() (signIn, signUp, signOut, refresh int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls, f.signUpCalls, f.signOutCalls, f.refreshCalls
}
