package ideas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/startupidea/internal/gateway"
	"github.com/angelmondragon/startupidea/internal/media"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/metrics"
	"github.com/angelmondragon/startupidea/pkg/models"
	"github.com/angelmondragon/startupidea/pkg/state"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// createdAtLayout is an ISO-8601 UTC instant with millisecond precision.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// Store owns the local idea collection and orchestrates writes against the gateway.
// Every successful write is followed by a full re-fetch of the collection.
type Store struct {
	gateway  gateway.Gateway
	logg     *logger.Logger
	metrics  *metrics.IdeaMetrics
	validate *validator.Validate
	state    *state.Publisher[State]
	now      func() time.Time
	newID    func() string

	uploadMu sync.Mutex
	uploads  int
}

type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(logg *logger.Logger) Option {
	return func(s *Store) {
		if logg != nil {
			s.logg = logg
		}
	}
}

// WithMetrics records orphaned blobs and in-flight uploads.
func WithMetrics(m *metrics.IdeaMetrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the clock used for created_at and logo paths.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the UUID source for new ideas.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewStore builds an empty store over the gateway. Call FetchIdeas to load the collection.
func NewStore(gw gateway.Gateway, opts ...Option) (*Store, error) {
	if gw == nil {
		return nil, errors.New("backend gateway required")
	}
	s := &Store{
		gateway:  gw,
		logg:     logger.Nop(),
		validate: newValidator(),
		state:    state.NewPublisher(State{Ideas: []Idea{}}),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Snapshot returns the latest published collection state.
func (s *Store) Snapshot() State {
	st := s.state.Get()
	st.Ideas = cloneIdeas(st.Ideas)
	return st
}

// Subscribe streams state changes until ctx ends.
func (s *Store) Subscribe(ctx context.Context) <-chan State {
	return s.state.Subscribe(ctx)
}

// Uploading reports whether any logo upload is in flight.
func (s *Store) Uploading() bool {
	return s.state.Get().Uploading
}

// FetchIdeas replaces the collection with the backend listing. On failure the prior
// collection is kept.
func (s *Store) FetchIdeas(ctx context.Context) error {
	list, err := s.gateway.ListIdeas(ctx)
	if err != nil {
		s.logg.Error(ctx, "ideas: fetch failed", err)
		return err
	}
	list = cloneIdeas(list)
	s.state.Update(func(st State) State {
		st.Ideas = list
		return st
	})
	return nil
}

// SubmitIdea uploads the optional logo, then inserts the record referencing it.
func (s *Store) SubmitIdea(ctx context.Context, in SubmitInput) (Idea, error) {
	defer s.discardLogo(ctx, in.Logo)

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(s.validate, in); err != nil {
		return Idea{}, err
	}

	s.beginUpload()
	defer s.endUpload()

	now := s.now().UTC()
	id := s.newID()
	ctx = s.logg.WithIdeaID(ctx, id)

	var logoURL *string
	if in.Logo != nil {
		url, err := s.uploadLogo(ctx, id, now, in.Logo)
		if err != nil {
			return Idea{}, err
		}
		logoURL = &url
	}

	idea := Idea{
		ID:          id,
		CreatedAt:   now.Format(createdAtLayout),
		Title:       in.Title,
		Description: in.Description,
		Email:       in.Email,
		Phone:       in.Phone,
		LogoURL:     logoURL,
	}
	if err := s.gateway.InsertIdea(ctx, idea); err != nil {
		s.logg.Error(ctx, "ideas: insert failed", err)
		if logoURL != nil {
			s.orphanedBlob(ctx, *logoURL)
		}
		return Idea{}, err
	}
	s.logg.Info(ctx, "ideas: submitted")

	if err := s.FetchIdeas(ctx); err != nil {
		s.logg.Warn(ctx, "ideas: refresh after submit failed")
	}
	return idea, nil
}

// UpdateIdea rewrites an idea already present in the local collection. The logo is
// uploaded before the record is looked up; an unknown id reports (false, nil) and
// writes no row.
func (s *Store) UpdateIdea(ctx context.Context, in UpdateInput) (bool, error) {
	defer s.discardLogo(ctx, in.Logo)

	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateInput(s.validate, in); err != nil {
		return false, err
	}

	s.beginUpload()
	defer s.endUpload()

	ctx = s.logg.WithIdeaID(ctx, in.ID)

	var newLogoURL *string
	if in.Logo != nil {
		url, err := s.uploadLogo(ctx, in.ID, s.now().UTC(), in.Logo)
		if err != nil {
			return false, err
		}
		newLogoURL = &url
	}

	existing, ok := s.Find(in.ID)
	if !ok {
		s.logg.Warn(ctx, "ideas: update for unknown idea ignored")
		if newLogoURL != nil {
			s.orphanedBlob(ctx, *newLogoURL)
		}
		return false, nil
	}

	patch := models.IdeaPatch{
		Title:       in.Title,
		Description: in.Description,
		Phone:       in.Phone,
		LogoURL:     existing.LogoURL,
	}
	if newLogoURL != nil {
		patch.LogoURL = newLogoURL
	}
	if err := s.gateway.UpdateIdea(ctx, in.ID, patch); err != nil {
		s.logg.Error(ctx, "ideas: update failed", err)
		if newLogoURL != nil {
			s.orphanedBlob(ctx, *newLogoURL)
		}
		return false, err
	}
	s.logg.Info(ctx, "ideas: updated")

	if err := s.FetchIdeas(ctx); err != nil {
		s.logg.Warn(ctx, "ideas: refresh after update failed")
	}
	return true, nil
}

// DeleteIdea removes the idea remotely. On failure the collection is left as is and
// no re-fetch happens.
func (s *Store) DeleteIdea(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &InputError{Fields: map[string]string{"id": "is required"}}
	}
	ctx = s.logg.WithIdeaID(ctx, id)
	if err := s.gateway.DeleteIdea(ctx, id); err != nil {
		s.logg.Error(ctx, "ideas: delete failed", err)
		return err
	}
	s.logg.Info(ctx, "ideas: deleted")

	if err := s.FetchIdeas(ctx); err != nil {
		s.logg.Warn(ctx, "ideas: refresh after delete failed")
	}
	return nil
}

func (s *Store) uploadLogo(ctx context.Context, id string, at time.Time, logo *media.Logo) (string, error) {
	data, err := logo.Bytes()
	if err != nil {
		s.logg.Error(ctx, "ideas: reading logo failed", err)
		return "", err
	}
	path := logoPath(id, at)
	url, err := s.gateway.UploadBlob(ctx, data, path)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "blob_path", path), "ideas: logo upload failed", err)
		return "", err
	}
	return url, nil
}

func logoPath(id string, at time.Time) string {
	return fmt.Sprintf("logo_%s_%d.jpg", id, at.UnixMilli())
}

func (s *Store) orphanedBlob(ctx context.Context, url string) {
	s.metrics.IncOrphanedBlob()
	s.logg.Warn(s.logg.WithField(ctx, "blob_url", url), "ideas.orphaned_blob")
}

func (s *Store) discardLogo(ctx context.Context, logo *media.Logo) {
	if err := logo.Close(); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "ideas: discarding logo buffer failed")
	}
}

// beginUpload and endUpload keep Uploading true while any write is in flight.
func (s *Store) beginUpload() {
	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()
	s.uploads++
	s.metrics.UploadStarted()
	if s.uploads == 1 {
		s.setUploading(true)
	}
}

func (s *Store) endUpload() {
	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()
	s.uploads--
	s.metrics.UploadFinished()
	if s.uploads == 0 {
		s.setUploading(false)
	}
}

func (s *Store) setUploading(v bool) {
	s.state.Update(func(st State) State {
		st.Uploading = v
		return st
	})
}

func cloneIdeas(in []Idea) []Idea {
	out := make([]Idea, len(in))
	copy(out, in)
	return out
}
