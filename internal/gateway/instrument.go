package gateway

import (
	"context"
	"time"

	"github.com/angelmondragon/startupidea/pkg/logger"
	"github.com/angelmondragon/startupidea/pkg/metrics"
	"github.com/angelmondragon/startupidea/pkg/models"
)

type instrumented struct {
	next    Gateway
	metrics *metrics.GatewayMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// Instrument wraps next so every call records duration, outcome and a debug log line.
func Instrument(next Gateway, m *metrics.GatewayMetrics, logg *logger.Logger) Gateway {
	if logg == nil {
		logg = logger.Nop()
	}
	return &instrumented{next: next, metrics: m, logg: logg, now: time.Now}
}

func (g *instrumented) observe(ctx context.Context, op string, started time.Time, err error) {
	g.metrics.ObserveDuration(op, g.now().Sub(started))
	ctx = g.logg.WithOperation(ctx, op)
	if err != nil {
		kind := Kind(err)
		g.metrics.IncFailure(op, kind)
		g.logg.Debug(g.logg.WithFields(ctx, map[string]any{"kind": kind, "error": err.Error()}), "gateway call failed")
		return
	}
	g.metrics.IncSuccess(op)
	g.logg.Debug(ctx, "gateway call succeeded")
}

func (g *instrumented) CurrentSession(ctx context.Context) (s *Session, err error) {
	defer func(start time.Time) { g.observe(ctx, "current_session", start, err) }(g.now())
	return g.next.CurrentSession(ctx)
}

func (g *instrumented) RefreshSession(ctx context.Context) (s *Session, err error) {
	defer func(start time.Time) { g.observe(ctx, "refresh_session", start, err) }(g.now())
	return g.next.RefreshSession(ctx)
}

func (g *instrumented) SignIn(ctx context.Context, email, password string) (s *Session, err error) {
	defer func(start time.Time) { g.observe(ctx, "sign_in", start, err) }(g.now())
	return g.next.SignIn(ctx, email, password)
}

func (g *instrumented) SignUp(ctx context.Context, email, password string) (err error) {
	defer func(start time.Time) { g.observe(ctx, "sign_up", start, err) }(g.now())
	return g.next.SignUp(ctx, email, password)
}

func (g *instrumented) SignOut(ctx context.Context) (err error) {
	defer func(start time.Time) { g.observe(ctx, "sign_out", start, err) }(g.now())
	return g.next.SignOut(ctx)
}

func (g *instrumented) ListIdeas(ctx context.Context) (ideas []models.Idea, err error) {
	defer func(start time.Time) { g.observe(ctx, "list_ideas", start, err) }(g.now())
	return g.next.ListIdeas(ctx)
}

func (g *instrumented) InsertIdea(ctx context.Context, idea models.Idea) (err error) {
	defer func(start time.Time) { g.observe(ctx, "insert_idea", start, err) }(g.now())
	return g.next.InsertIdea(ctx, idea)
}

func (g *instrumented) UpdateIdea(ctx context.Context, id string, patch models.IdeaPatch) (err error) {
	defer func(start time.Time) { g.observe(ctx, "update_idea", start, err) }(g.now())
	return g.next.UpdateIdea(ctx, id, patch)
}

func (g *instrumented) DeleteIdea(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { g.observe(ctx, "delete_idea", start, err) }(g.now())
	return g.next.DeleteIdea(ctx, id)
}

func (g *instrumented) UploadBlob(ctx context.Context, data []byte, path string) (url string, err error) {
	defer func(start time.Time) { g.observe(ctx, "upload_blob", start, err) }(g.now())
	return g.next.UploadBlob(ctx, data, path)
}
