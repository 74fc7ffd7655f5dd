package tape

import (
	"strings"
	"testing"

	"momo/internal/application/port"
)

func TestRenderPlaceholderBeforeFirstTick(t *testing.T) {
	st := NewState([]string{"BTC", "ETH"})

	line := Render(st, RenderSnapshot)
	if !strings.Contains(line, "BTC") || !strings.Contains(line, "ETH") {
		t.Errorf("line missing assets: %q", line)
	}
	if strings.Count(line, "--") != 2 {
		t.Errorf("expected placeholders for both assets: %q", line)
	}
}

func TestRenderColorsByDirection(t *testing.T) {
	st := NewState([]string{"BTC"})
	st.Apply(port.Tick{Asset: "BTC", PriceStr: "68000", PriceNum: 68000})
	st.Apply(port.Tick{Asset: "BTC", PriceStr: "68100", PriceNum: 68100})

	line := Render(st, RenderSnapshot)
	if !strings.Contains(line, ansiGreen+"68100") {
		t.Errorf("expected green price after uptick: %q", line)
	}

	st.Apply(port.Tick{Asset: "BTC", PriceStr: "67900", PriceNum: 67900})
	line = Render(st, RenderSnapshot)
	if !strings.Contains(line, ansiRed+"67900") {
		t.Errorf("expected red price after downtick: %q", line)
	}
}

func TestRenderLiveUsesCarriageReturn(t *testing.T) {
	st := NewState([]string{"BTC"})

	live := Render(st, RenderLive)
	if !strings.HasPrefix(live, "\r") || !strings.HasSuffix(live, ansiClearEOL) {
		t.Errorf("live line must repaint in place: %q", live)
	}
	snap := Render(st, RenderSnapshot)
	if strings.HasPrefix(snap, "\r") {
		t.Errorf("snapshot line must not repaint: %q", snap)
	}
}
