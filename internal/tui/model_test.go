package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"syncphotos/internal/domain"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func TestModelPhases(t *testing.T) {
	m := NewModel(Config{SourceDir: "/media/card", TargetDir: "/photos"})
	if m.Phase != PhaseScanning {
		t.Fatalf("expected scanning, got %v", m.Phase)
	}
	if !strings.Contains(m.View(), "Scanning photos") {
		t.Fatalf("expected scanning view, got %q", m.View())
	}

	m, _ = update(t, m, ScanDoneMsg{Total: 4})
	if m.Phase != PhaseSyncing {
		t.Fatalf("expected syncing, got %v", m.Phase)
	}

	m, _ = update(t, m, SyncProgressMsg{Current: 2, Total: 4, File: "dcim/img_0001.jpg"})
	view := m.View()
	if !strings.Contains(view, "2/4 files") || !strings.Contains(view, "dcim/img_0001.jpg") {
		t.Fatalf("expected progress in view, got %q", view)
	}

	m, cmd := update(t, m, SyncDoneMsg{Counters: domain.Counters{Copied: 3, Failed: 1, Bytes: 2048}})
	if m.Phase != PhaseDone || cmd == nil {
		t.Fatalf("expected done phase with quit command")
	}
	view = m.View()
	if !strings.Contains(view, "1 failures") || !strings.Contains(view, "3 files") {
		t.Fatalf("expected completion stats, got %q", view)
	}
}

func TestModelDryRunCompletion(t *testing.T) {
	m := NewModel(Config{DryRun: true})
	m, _ = update(t, m, SyncDoneMsg{Counters: domain.Counters{WouldCopy: 5}})
	view := m.View()
	if !strings.Contains(view, "Dry run") || !strings.Contains(view, "Would copy:") {
		t.Fatalf("expected dry-run completion, got %q", view)
	}
}

func TestModelError(t *testing.T) {
	m := NewModel(Config{})
	m, cmd := update(t, m, ErrorMsg{Err: errors.New("source vanished")})
	if m.Phase != PhaseError || cmd == nil {
		t.Fatalf("expected error phase with quit command")
	}
	if !strings.Contains(m.View(), "source vanished") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel(Config{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.Quitting || cmd == nil {
		t.Fatalf("expected quitting model")
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after quit")
	}
}

func TestRunReturnsJobCounters(t *testing.T) {
	job := func(ctx context.Context, onScan func(int), onProgress func(int, int, string)) (domain.Counters, error) {
		onScan(2)
		onProgress(1, 2, "a.jpg")
		onProgress(2, 2, "b.jpg")
		return domain.Counters{Candidates: 2, Copied: 2}, nil
	}

	counters, err := Run(context.Background(), Config{}, job, tea.WithInput(nil), tea.WithOutput(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counters.Copied != 2 {
		t.Fatalf("expected 2 copied, got %+v", counters)
	}
}

func TestRunReturnsJobError(t *testing.T) {
	boom := errors.New("boom")
	job := func(ctx context.Context, onScan func(int), onProgress func(int, int, string)) (domain.Counters, error) {
		return domain.Counters{}, boom
	}

	done := make(chan error, 1)
	go func() {
		_, err := Run(context.Background(), Config{}, job, tea.WithInput(nil), tea.WithOutput(io.Discard))
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("expected job error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return")
	}
}
