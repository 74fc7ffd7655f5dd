package tape

import (
	"strings"
	"sync"

	"momo/internal/application/port"
)

type Dir int

const (
	DirSame Dir = 0
	DirUp   Dir = +1
	DirDown Dir = -1
)

type pxState struct {
	str string
	num float64
	has bool
	dir Dir
}

// State tracks the last seen price and move direction per asset.
type State struct {
	mu sync.Mutex

	order  []string
	prices map[string]*pxState
}

func NewState(assets []string) *State {
	order := make([]string, 0, len(assets))
	prices := make(map[string]*pxState, len(assets))
	for _, asset := range assets {
		u := strings.ToUpper(strings.TrimSpace(asset))
		if u == "" {
			continue
		}
		order = append(order, u)
		prices[u] = &pxState{}
	}
	return &State{order: order, prices: prices}
}

func (s *State) Assets() []string {
	return s.order
}

// Apply records one tick and reports whether the displayed price changed.
// Ticks for assets outside the tracked set are ignored.
func (s *State) Apply(t port.Tick) bool {
	asset := strings.ToUpper(strings.TrimSpace(t.Asset))
	if asset == "" || t.PriceNum <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps := s.prices[asset]
	if ps == nil {
		return false
	}

	if ps.has && ps.num == t.PriceNum {
		return false
	}

	switch {
	case !ps.has:
		ps.dir = DirSame
	case t.PriceNum > ps.num:
		ps.dir = DirUp
	default:
		ps.dir = DirDown
	}
	ps.has = true
	ps.num = t.PriceNum
	ps.str = t.PriceStr
	return true
}

// Display returns the venue's raw price string and direction for one
// asset, for rendering without reformatting.
func (s *State) Display(asset string) (str string, dir Dir, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps := s.prices[strings.ToUpper(asset)]
	if ps == nil || !ps.has {
		return "", DirSame, false
	}
	return ps.str, ps.dir, true
}

// Last returns the latest price and direction for one asset.
func (s *State) Last(asset string) (price float64, dir Dir, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps := s.prices[strings.ToUpper(strings.TrimSpace(asset))]
	if ps == nil || !ps.has {
		return 0, DirSame, false
	}
	return ps.num, ps.dir, true
}
