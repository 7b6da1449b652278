package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/startupidea/pkg/auth"
	authsession "github.com/angelmondragon/startupidea/pkg/auth/session"
	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/models"
	"github.com/angelmondragon/startupidea/pkg/supabase"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTable  = "ideas"
	defaultBucket = "startup-logos"
)

// SupabaseOptions tunes the adapter. Zero values pick the defaults.
type SupabaseOptions struct {
	Table  string
	Bucket string
	// JWTSecret, when set, verifies restored access tokens before trusting their claims.
	JWTSecret string
	Logger    *logger.Logger
	Clock     func() time.Time
}

// Supabase implements Gateway over a hosted Supabase project.
type Supabase struct {
	client    *supabase.Client
	persister authsession.Persister
	table     string
	bucket    string
	jwtSecret string
	logg      *logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	current  *Session
	restored bool
	renew    singleflight.Group
}

// NewSupabase builds the adapter. The persisted session is restored lazily on first use.
func NewSupabase(client *supabase.Client, persister authsession.Persister, opts SupabaseOptions) (*Supabase, error) {
	if client == nil {
		return nil, errors.New("supabase client required")
	}
	if persister == nil {
		return nil, errors.New("session persister required")
	}
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = defaultTable
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		bucket = defaultBucket
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Supabase{
		client:    client,
		persister: persister,
		table:     table,
		bucket:    bucket,
		jwtSecret: opts.JWTSecret,
		logg:      logg,
		now:       clock,
	}, nil
}

// CurrentSession returns the stored session without a network call.
func (s *Supabase) CurrentSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.restoreLocked(ctx); err != nil {
		return nil, err
	}
	return copySession(s.current), nil
}

// RefreshSession exchanges the refresh token for a new session and persists it.
func (s *Supabase) RefreshSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	if err := s.restoreLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	current := copySession(s.current)
	s.mu.Unlock()

	if current == nil || current.RefreshToken == "" {
		return nil, &AuthError{Kind: AuthSessionExpired, Message: "no active session"}
	}

	grant, err := s.client.RefreshToken(ctx, current.RefreshToken)
	if err != nil {
		if isNetworkError(err) {
			return nil, &TransportError{Op: "refresh_session", Err: err}
		}
		s.dropSession(ctx)
		msg := err.Error()
		if apiErr, ok := supabase.AsAPIError(err); ok {
			msg = apiErr.Message
		}
		return nil, &AuthError{Kind: AuthSessionExpired, Message: msg, Err: err}
	}
	return s.storeSession(ctx, grant), nil
}

// SignIn authenticates with a password grant and persists the session.
func (s *Supabase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	grant, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, classifyAuth("sign_in", err)
	}
	return s.storeSession(ctx, grant), nil
}

// SignUp registers the account; the backend sends the confirmation email. A session
// returned by auto-confirming projects is not adopted.
func (s *Supabase) SignUp(ctx context.Context, email, password string) error {
	if _, err := s.client.SignUp(ctx, email, password); err != nil {
		return classifyAuth("sign_up", err)
	}
	return nil
}

// SignOut drops the local session, revokes it remotely and clears the persisted copy.
func (s *Supabase) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if err := s.restoreLocked(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: restoring session before sign out failed")
	}
	token := ""
	if s.current != nil {
		token = s.current.AccessToken
	}
	s.current = nil
	s.restored = true
	s.mu.Unlock()

	var errs error
	if token != "" {
		if err := s.client.SignOut(ctx, token); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remote sign out: %w", err))
		}
	}
	if err := s.persister.Clear(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("clear persisted session: %w", err))
	}
	return errs
}

// ListIdeas selects every row of the ideas table.
func (s *Supabase) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	var rows []models.Idea
	if err := s.client.Select(ctx, s.accessToken(ctx), s.table, nil, &rows); err != nil {
		return nil, classifyStorage("list_ideas", err)
	}
	if rows == nil {
		rows = []models.Idea{}
	}
	return rows, nil
}

// InsertIdea inserts one row.
func (s *Supabase) InsertIdea(ctx context.Context, idea models.Idea) error {
	if err := s.client.Insert(ctx, s.accessToken(ctx), s.table, idea); err != nil {
		return classifyStorage("insert_idea", err)
	}
	return nil
}

// UpdateIdea patches the row with the given id. No matching row is StorageNotFound.
func (s *Supabase) UpdateIdea(ctx context.Context, id string, patch models.IdeaPatch) error {
	n, err := s.client.Update(ctx, s.accessToken(ctx), s.table, "id", id, patch)
	if err != nil {
		return classifyStorage("update_idea", err)
	}
	if n == 0 {
		return &StorageError{Kind: StorageNotFound, Op: "update_idea", Err: fmt.Errorf("no idea with id %s", id)}
	}
	return nil
}

// DeleteIdea removes the row with the given id. No matching row is StorageNotFound.
func (s *Supabase) DeleteIdea(ctx context.Context, id string) error {
	n, err := s.client.Delete(ctx, s.accessToken(ctx), s.table, "id", id)
	if err != nil {
		return classifyStorage("delete_idea", err)
	}
	if n == 0 {
		return &StorageError{Kind: StorageNotFound, Op: "delete_idea", Err: fmt.Errorf("no idea with id %s", id)}
	}
	return nil
}

// UploadBlob upserts data into the logo bucket and returns its public URL.
func (s *Supabase) UploadBlob(ctx context.Context, data []byte, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", &StorageError{Kind: StorageUnknown, Op: "upload_blob", Err: errors.New("blob path required")}
	}
	contentType := mimetype.Detect(data).String()
	if err := s.client.Upload(ctx, s.accessToken(ctx), s.bucket, path, data, contentType, true); err != nil {
		return "", classifyStorage("upload_blob", err)
	}
	return s.client.PublicURL(s.bucket, path), nil
}

// accessToken returns the user token for row and blob calls, or "" to fall back to the anon key.
// An expired session is renewed first; when renewal fails the anon key is used.
func (s *Supabase) accessToken(ctx context.Context) string {
	s.mu.Lock()
	if err := s.restoreLocked(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: restoring session failed; using anon key")
	}
	current := copySession(s.current)
	s.mu.Unlock()

	if current == nil {
		return ""
	}
	if current.Valid(s.now()) {
		return current.AccessToken
	}
	// concurrent readers share one refresh; the refresh token is single use
	v, err, _ := s.renew.Do("refresh", func() (any, error) {
		return s.RefreshSession(ctx)
	})
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: renewing expired session failed; using anon key")
		return ""
	}
	return v.(*Session).AccessToken
}

// restoreLocked loads the persisted session once per process.
func (s *Supabase) restoreLocked(ctx context.Context) error {
	if s.restored {
		return nil
	}
	record, err := s.persister.Load(ctx)
	if err != nil {
		return &TransportError{Op: "current_session", Err: err}
	}
	s.restored = true
	if record == nil {
		return nil
	}
	session, err := s.sessionFromRecord(*record)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: discarding unreadable persisted session")
		if clearErr := s.persister.Clear(ctx); clearErr != nil {
			s.logg.Error(ctx, "gateway: clearing persisted session failed", clearErr)
		}
		return nil
	}
	s.current = session
	return nil
}

func (s *Supabase) sessionFromRecord(record authsession.Record) (*Session, error) {
	var (
		claims *auth.BackendClaims
		err    error
	)
	if s.jwtSecret != "" {
		claims, err = auth.ParseAccessToken(s.jwtSecret, record.AccessToken)
	} else {
		claims, err = auth.InspectAccessToken(record.AccessToken)
	}
	if err != nil {
		return nil, err
	}
	session := &Session{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		ExpiresAt:    record.ExpiresAt,
		User:         User{ID: record.UserID, Email: record.Email},
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = claims.Expiry()
	}
	if session.User.ID == "" {
		session.User.ID = claims.Subject
	}
	if session.User.Email == "" {
		session.User.Email = claims.Email
	}
	return session, nil
}

func (s *Supabase) storeSession(ctx context.Context, grant *supabase.AuthSession) *Session {
	session := &Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.Expiry(s.now()),
		User:         User{ID: grant.User.ID, Email: grant.User.Email},
	}
	if session.User.Email == "" {
		if claims, err := auth.InspectAccessToken(grant.AccessToken); err == nil {
			session.User.Email = claims.Email
			if session.User.ID == "" {
				session.User.ID = claims.Subject
			}
		}
	}

	s.mu.Lock()
	s.current = session
	s.restored = true
	s.mu.Unlock()

	record := authsession.Record{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		UserID:       session.User.ID,
		Email:        session.User.Email,
	}
	if err := s.persister.Save(ctx, record); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: persisting session failed")
	}
	return copySession(session)
}

func (s *Supabase) dropSession(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.restored = true
	s.mu.Unlock()
	if err := s.persister.Clear(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "gateway: clearing persisted session failed")
	}
}

func copySession(s *Session) *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func classifyAuth(op string, err error) error {
	if isNetworkError(err) {
		return &TransportError{Op: op, Err: err}
	}
	msg := err.Error()
	if apiErr, ok := supabase.AsAPIError(err); ok {
		msg = apiErr.Message
	}
	return &AuthError{Kind: classifyAuthMessage(msg), Message: msg, Err: err}
}

func classifyStorage(op string, err error) error {
	if isNetworkError(err) {
		return &StorageError{Kind: StorageNetwork, Op: op, Err: err}
	}
	apiErr, ok := supabase.AsAPIError(err)
	if !ok {
		return &StorageError{Kind: StorageUnknown, Op: op, Err: err}
	}
	kind := StorageUnknown
	lower := strings.ToLower(apiErr.Message)
	switch {
	case apiErr.Status == http.StatusUnauthorized,
		apiErr.Status == http.StatusForbidden,
		apiErr.Status == http.StatusRequestEntityTooLarge,
		strings.Contains(lower, "row-level security"),
		strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "quota"):
		kind = StoragePermission
	case apiErr.Status == http.StatusNotFound:
		kind = StorageNotFound
	case apiErr.Status >= http.StatusInternalServerError:
		kind = StorageNetwork
	}
	return &StorageError{Kind: kind, Op: op, Err: err}
}
