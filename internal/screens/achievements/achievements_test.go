package achievements

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	catalog "github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/router"
)

func unlocked(t *testing.T, ids ...string) []catalog.Unlocked {
	t.Helper()
	var out []catalog.Unlocked
	for _, id := range ids {
		a, ok := catalog.ByID(id)
		if !ok {
			t.Fatalf("unknown achievement %q", id)
		}
		out = append(out, catalog.Unlocked{Achievement: a, UnlockedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)})
	}
	return out
}

func TestAchievementsScreen_View(t *testing.T) {
	s := New(unlocked(t, "first-steps"))
	view := s.View(120, 40)

	want := []string{
		"Unlocked: 1 / 18",
		"Points (1/6)",
		"First Steps",
		"Mar 14, 2026",
		"Rising Star",
		"locked",
	}
	for _, w := range want {
		if !strings.Contains(view, w) {
			t.Errorf("view missing %q", w)
		}
	}
}

func TestAchievementsScreen_Tabs(t *testing.T) {
	s := New(unlocked(t, "hot-streak"))

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := s.current()[0].Category; got != catalog.CategoryStreak {
		t.Errorf("after tab category = %s, want streak", got)
	}
	if !strings.Contains(s.View(120, 40), "Hot Streak") {
		t.Error("streak tab should list Hot Streak")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if got := s.current()[0].Category; got != catalog.CategorySpecial {
		t.Errorf("after wrapping back category = %s, want special", got)
	}
}

func TestAchievementsScreen_Esc(t *testing.T) {
	s := New(nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
