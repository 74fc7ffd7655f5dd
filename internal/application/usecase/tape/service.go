package tape

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"momo/internal/application/port"
)

// ServiceDeps wires the tape to a streaming feed, the journal, and an
// optional terminal sink.
type ServiceDeps struct {
	Feed         port.TickFeed
	Assets       []string
	Repo         port.Repository
	Sink         port.Sink // nil disables terminal rendering
	SummaryEvery time.Duration
}

// Service is the live ticker tape sidecar: it mirrors streaming prices
// into the journal between rebalance cycles and repaints a live terminal
// line. Purely observational; the scheduler never reads from it.
type Service struct {
	deps ServiceDeps
	st   *State
}

func NewService(deps ServiceDeps) *Service {
	if deps.SummaryEvery <= 0 {
		deps.SummaryEvery = 5 * time.Minute
	}
	return &Service{deps: deps, st: NewState(deps.Assets)}
}

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Feed == nil {
		return errors.New("no tick feed")
	}

	ticks, err := s.deps.Feed.Subscribe(ctx, s.st.Assets())
	if err != nil {
		return err
	}
	log.Info().Str("feed", s.deps.Feed.Name()).Msg("tape started")

	ticker := time.NewTicker(s.deps.SummaryEvery)
	defer ticker.Stop()

	if s.deps.Sink != nil {
		_ = s.deps.Sink.WriteLive(Render(s.st, RenderLive))
	}

	for {
		select {
		case <-ctx.Done():
			if s.deps.Sink != nil {
				_ = s.deps.Sink.NewLine()
			}
			return ctx.Err()

		case now := <-ticker.C:
			s.summarize(now)

		case t, ok := <-ticks:
			if !ok {
				return errors.New("tick feed closed")
			}
			if !s.st.Apply(t) {
				continue
			}
			if s.deps.Sink != nil {
				_ = s.deps.Sink.WriteLive(Render(s.st, RenderLive))
			}
			if err := s.deps.Repo.UpsertLatestPrice(ctx, t.Asset, t.PriceNum, t.Ts); err != nil {
				log.Warn().Err(err).Str("asset", t.Asset).Msg("tape journal failed")
			}
		}
	}
}

func (s *Service) summarize(now time.Time) {
	if s.deps.Sink != nil {
		_ = s.deps.Sink.WriteSnapshot(now, Render(s.st, RenderSnapshot))
	}
	for _, asset := range s.st.Assets() {
		price, dir, ok := s.st.Last(asset)
		if !ok {
			continue
		}
		log.Info().
			Str("asset", asset).
			Float64("price", price).
			Int("dir", int(dir)).
			Msg("tape")
	}
}
