package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/napolitain/techtree/internal/savegame"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saves.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func blob(t *testing.T, turn int, c savegame.Compression) []byte {
	t.Helper()
	b, err := savegame.Encode(&savegame.Game{Turn: turn, Seed: 1, Realms: []savegame.Realm{{Name: "north"}}}, c)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPutAndLatest(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	first := blob(t, 1, savegame.CompressionNone)
	second := blob(t, 2, savegame.CompressionNone)
	if _, err := s.Put(ctx, "campaign", 1, first); err != nil {
		t.Fatal(err)
	}
	id, err := s.Put(ctx, "campaign", 2, second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "other", 9, blob(t, 9, savegame.CompressionNone)); err != nil {
		t.Fatal(err)
	}

	e, data, err := s.Latest(ctx, "campaign")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != id || e.Turn != 2 || e.Name != "campaign" {
		t.Errorf("Latest = %+v", e)
	}
	if !bytes.Equal(data, second) {
		t.Error("Latest returned a different blob")
	}
	if e.Size != len(second) {
		t.Errorf("Size = %d, want %d", e.Size, len(second))
	}

	g, err := savegame.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if g.Turn != 2 {
		t.Errorf("decoded turn %d", g.Turn)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	for turn, name := range []string{"a", "b", "a"} {
		if _, err := s.Put(ctx, name, turn, blob(t, turn, savegame.CompressionNone)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		want  int
		first int // turn of newest entry
	}{
		{"", 3, 2},
		{"a", 2, 2},
		{"b", 1, 1},
		{"missing", 0, 0},
	}
	for _, tt := range tests {
		t.Run("name="+tt.name, func(t *testing.T) {
			entries, err := s.List(ctx, tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != tt.want {
				t.Fatalf("got %d entries, want %d", len(entries), tt.want)
			}
			if tt.want > 0 && entries[0].Turn != tt.first {
				t.Errorf("newest turn = %d, want %d", entries[0].Turn, tt.first)
			}
		})
	}
}

func TestNoSave(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	if _, _, err := s.Latest(ctx, "nothing"); !errors.Is(err, ErrNoSave) {
		t.Errorf("Latest err = %v", err)
	}
	if _, err := s.Get(ctx, 42); !errors.Is(err, ErrNoSave) {
		t.Errorf("Get err = %v", err)
	}
	if err := s.Delete(ctx, 42); !errors.Is(err, ErrNoSave) {
		t.Errorf("Delete err = %v", err)
	}
}

func TestGetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	b := blob(t, 3, savegame.CompressionZstd)
	id, err := s.Put(ctx, "x", 3, b)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, id)
	if err != nil || !bytes.Equal(got, b) {
		t.Fatalf("Get = %v, %v", len(got), err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNoSave) {
		t.Errorf("after delete err = %v", err)
	}
}

func TestPutRejectsGarbage(t *testing.T) {
	s := testStore(t)
	if _, err := s.Put(context.Background(), "bad", 1, []byte("not a save")); !errors.Is(err, savegame.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestPutRejectsUnknownCompression(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	if _, err := s.Put(ctx, "good", 1, blob(t, 1, savegame.CompressionZstd)); err != nil {
		t.Fatal(err)
	}

	tagged := blob(t, 2, savegame.CompressionNone)
	tagged[5] = 7
	if _, err := s.Put(ctx, "bad", 2, tagged); !errors.Is(err, savegame.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}

	entries, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("List after rejected put: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "good" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestReopenKeepsSaves(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "saves.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "keep", 5, blob(t, 5, savegame.CompressionLZ4)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	e, _, err := s.Latest(ctx, "keep")
	if err != nil {
		t.Fatal(err)
	}
	if e.Turn != 5 {
		t.Errorf("turn = %d", e.Turn)
	}
}
