package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typingcat/internal/model"
	"github.com/verte-zerg/typingcat/internal/speed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "settings.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadPrefsEmpty(t *testing.T) {
	st := openTestStore(t)
	prefs, err := st.LoadPrefs(context.Background())
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs.Metric != nil || prefs.ShowSpeed != nil || prefs.Mirror != nil || prefs.Clickable != nil {
		t.Fatalf("expected empty prefs, got %+v", prefs)
	}
}

func TestSaveAndLoadPrefs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	s := model.DefaultSettings()
	s.Metric = speed.CPM
	s.Mirror = true
	if err := st.SavePrefs(ctx, model.PrefsFrom(s)); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	// Second save overwrites rather than duplicating.
	s.Metric = speed.CPS
	if err := st.SavePrefs(ctx, model.PrefsFrom(s)); err != nil {
		t.Fatalf("save prefs again: %v", err)
	}

	prefs, err := st.LoadPrefs(ctx)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	got := prefs.Apply(model.DefaultSettings())
	if got.Metric != speed.CPS || !got.Mirror || !got.ShowSpeed || got.Clickable {
		t.Fatalf("unexpected prefs: %+v", got)
	}

	rows, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Key != KeyClickable || rows[3].Key != KeyMetric {
		t.Fatalf("expected rows ordered by key, got %+v", rows)
	}
	if rows[0].UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at to be set")
	}
}

func TestSavePartialPrefs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	show := false
	if err := st.SavePrefs(ctx, model.DisplayPrefs{ShowSpeed: &show}); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	prefs, err := st.LoadPrefs(ctx)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs.ShowSpeed == nil || *prefs.ShowSpeed {
		t.Fatalf("expected show-speed=false, got %+v", prefs.ShowSpeed)
	}
	if prefs.Metric != nil {
		t.Fatalf("expected metric to stay unset")
	}
}

func TestLoadPrefsRejectsMalformedValue(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
		KeyMirror, "sideways", "2024-01-01T00:00:00Z"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.LoadPrefs(ctx); err == nil {
		t.Fatalf("expected error for malformed value")
	}
}

func TestReset(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.SavePrefs(ctx, model.PrefsFrom(model.DefaultSettings())); err != nil {
		t.Fatalf("save prefs: %v", err)
	}
	if err := st.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rows, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows after reset, got %d", len(rows))
	}
}
