package tape

import (
	"testing"

	"momo/internal/application/port"
)

func TestStateApplyTracksDirection(t *testing.T) {
	st := NewState([]string{"btc"})

	if !st.Apply(port.Tick{Asset: "BTC", PriceNum: 100}) {
		t.Fatal("first tick must register")
	}
	if _, dir, _ := st.Last("BTC"); dir != DirSame {
		t.Errorf("first tick direction: got %v", dir)
	}

	st.Apply(port.Tick{Asset: "BTC", PriceNum: 101})
	if _, dir, _ := st.Last("BTC"); dir != DirUp {
		t.Errorf("expected up, got %v", dir)
	}

	st.Apply(port.Tick{Asset: "BTC", PriceNum: 99})
	if price, dir, _ := st.Last("BTC"); dir != DirDown || price != 99 {
		t.Errorf("expected down at 99, got %v %v", price, dir)
	}
}

func TestStateApplyIgnoresUnknownAndInvalid(t *testing.T) {
	st := NewState([]string{"BTC"})

	if st.Apply(port.Tick{Asset: "DOGE", PriceNum: 1}) {
		t.Error("untracked asset must be ignored")
	}
	if st.Apply(port.Tick{Asset: "BTC", PriceNum: 0}) {
		t.Error("non-positive price must be ignored")
	}
	if st.Apply(port.Tick{Asset: "BTC", PriceNum: -3}) {
		t.Error("negative price must be ignored")
	}
}

func TestStateApplyUnchangedPrice(t *testing.T) {
	st := NewState([]string{"BTC"})
	st.Apply(port.Tick{Asset: "BTC", PriceNum: 100})
	if st.Apply(port.Tick{Asset: "BTC", PriceNum: 100}) {
		t.Error("unchanged price must not report a change")
	}
}
