package decks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/store"
)

func setup(t *testing.T) (*session.Coordinator, store.DeckRepo) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	st, err := store.Open(filepath.Join(t.TempDir(), "vulcan.db"), store.WithClock(clk))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	coord := session.NewCoordinator(session.Options{Clock: clk, Decks: st.DeckRepo()})
	return coord, st.DeckRepo()
}

func typeText(s *ImportScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestLibrary_LoadSelected(t *testing.T) {
	coord, repo := setup(t)
	ctx := context.Background()
	if _, err := repo.Save(ctx, "Capitals", "capitals.csv", []store.CardData{{Question: "France", Answer: "Paris"}}); err != nil {
		t.Fatal(err)
	}

	s := NewLibrary(coord, repo)
	s.Update(s.Init()())
	if len(s.decks) != 1 {
		t.Fatalf("decks = %d, want 1", len(s.decks))
	}
	if !strings.Contains(s.View(100, 30), "Capitals") {
		t.Error("view should list the saved deck")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected pop after loading")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	v := coord.Snapshot()
	if v.DeckName != "Capitals" || v.TotalCards != 1 {
		t.Errorf("coordinator deck = %q (%d cards)", v.DeckName, v.TotalCards)
	}
}

func TestLibrary_Delete(t *testing.T) {
	coord, repo := setup(t)
	ctx := context.Background()
	for _, name := range []string{"One", "Two"} {
		if _, err := repo.Save(ctx, name, name+".csv", []store.CardData{{Question: "q", Answer: "a"}}); err != nil {
			t.Fatal(err)
		}
	}

	s := NewLibrary(coord, repo)
	s.Update(s.Init()())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	s.Update(cmd())

	if len(s.decks) != 1 {
		t.Fatalf("decks after delete = %d, want 1", len(s.decks))
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("repo after delete = %v, %v", list, err)
	}
}

func TestLibrary_Empty(t *testing.T) {
	coord, repo := setup(t)
	s := NewLibrary(coord, repo)
	s.Update(s.Init()())

	if !strings.Contains(s.View(100, 30), "No saved decks") {
		t.Error("expected empty-state hint")
	}
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty library should do nothing")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'i', Text: "i"})
	if cmd == nil {
		t.Fatal("expected import command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*ImportScreen); !ok {
		t.Errorf("replacement = %T, want *ImportScreen", msg.Screen)
	}
}

func TestImport_LoadsAndSaves(t *testing.T) {
	coord, repo := setup(t)
	path := filepath.Join(t.TempDir(), "spanish_verbs.csv")
	if err := os.WriteFile(path, []byte("question,answer\nser,to be\nir,to go\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewImport(coord)
	typeText(s, path)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected pop after import, error = %q", s.errMsg)
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}

	if v := coord.Snapshot(); v.TotalCards != 2 {
		t.Errorf("TotalCards = %d, want 2", v.TotalCards)
	}
	list, err := repo.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Fatalf("saved decks = %v, %v", list, err)
	}
	if list[0].FileName != "spanish_verbs.csv" {
		t.Errorf("FileName = %q", list[0].FileName)
	}
}

func TestImport_ShowsError(t *testing.T) {
	coord, _ := setup(t)
	s := NewImport(coord)
	typeText(s, filepath.Join(t.TempDir(), "missing.csv"))

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("failed import should stay on the screen")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/decks/a.csv"); got != filepath.Join(home, "decks/a.csv") {
		t.Errorf("expandHome = %q", got)
	}
	if got := expandHome("/abs/a.csv"); got != "/abs/a.csv" {
		t.Errorf("expandHome = %q", got)
	}
}
