package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newTestWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestBannerAppearsAfterDelay(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(120, 40), Tagline) {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, int(bannerAt/tickInterval))
	if w.elapsed != bannerAt {
		t.Errorf("elapsed = %v, want %v", w.elapsed, bannerAt)
	}
	view := ansi.Strip(w.View(120, 40))
	if !strings.Contains(view, Tagline) {
		t.Error("tagline should be visible")
	}
	if !strings.Contains(view, "███╗   ███╗") {
		t.Error("wide terminal should show block letters")
	}
}

func TestCompactBanner(t *testing.T) {
	if got := ansi.Strip(RenderBanner(40)); got != BannerCompact {
		t.Errorf("RenderBanner(40) = %q", got)
	}
}

func TestElapsedCapped(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 100)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want %v", w.elapsed, totalDur)
	}
	if *calls != 0 {
		t.Errorf("next called %d times without a key press", *calls)
	}
}

func TestKeyPressReplaces(t *testing.T) {
	w, calls := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	if cmd == nil {
		t.Fatal("key press should transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replacement screen should not be nil")
	}

	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'b', Text: "b"}); cmd != nil {
		t.Error("second key press should do nothing")
	}
	if *calls != 1 {
		t.Errorf("next called %d times, want 1", *calls)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if cmd := sendTicks(w, 1); cmd != nil {
		t.Error("ticks should stop once replaced")
	}
}
