package ideas

import (
	"context"
	"sync"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/pkg/models"
)

// fakeGateway keeps rows in memory and records the order of calls.
type fakeGateway struct {
	mu      sync.Mutex
	rows    []models.Idea
	calls   []string
	patches map[string]models.IdeaPatch

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	uploadErr error
	uploadURL string

	uploadHook func()
}

func newFakeGateway(rows ...models.Idea) *fakeGateway {
	return &fakeGateway{rows: rows, patches: map[string]models.IdeaPatch{}, uploadURL: "https://cdn.example/logo.jpg"}
}

func (f *fakeGateway) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) CurrentSession(context.Context) (*gateway.Session, error) { return nil, nil }
func (f *fakeGateway) RefreshSession(context.Context) (*gateway.Session, error) { return nil, nil }
func (f *fakeGateway) SignIn(context.Context, string, string) (*gateway.Session, error) {
	return nil, nil
}
func (f *fakeGateway) SignUp(context.Context, string, string) error { return nil }
func (f *fakeGateway) SignOut(context.Context) error                { return nil }

func (f *fakeGateway) ListIdeas(context.Context) ([]models.Idea, error) {
	f.record("list")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Idea(nil), f.rows...), nil
}

func (f *fakeGateway) InsertIdea(_ context.Context, idea models.Idea) error {
	f.record("insert")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, idea)
	return nil
}

func (f *fakeGateway) UpdateIdea(_ context.Context, id string, patch models.IdeaPatch) error {
	f.record("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.patches[id] = patch
	for i, row := range f.rows {
		if row.ID == id {
			row.Title = patch.Title
			row.Description = patch.Description
			row.Phone = patch.Phone
			if patch.LogoURL != nil {
				row.LogoURL = patch.LogoURL
			}
			f.rows[i] = row
		}
	}
	return nil
}

func (f *fakeGateway) DeleteIdea(_ context.Context, id string) error {
	f.record("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

func (f *fakeGateway) UploadBlob(_ context.Context, _ []byte, path string) (string, error) {
	f.record("upload:" + path)
	f.mu.Lock()
	hook := f.uploadHook
	err := f.uploadErr
	url := f.uploadURL
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return "", err
	}
	return url, nil
}
