package spill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

type entry struct {
	key string
	n   int
}

func collect(t *testing.T, b *Bag) []entry {
	t.Helper()
	var out []entry
	err := b.Each(context.Background(), func(key string, n int) error {
		out = append(out, entry{key, n})
		return nil
	})
	if err != nil {
		t.Fatalf("Each() failed: %v", err)
	}
	return out
}

func TestBag_InMemorySortedCounts(t *testing.T) {
	ctx := context.Background()
	b := New(Options{Dir: t.TempDir()})
	defer b.Close()

	for _, k := range []string{"c", "a", "b", "a", "c", "a"} {
		if err := b.Add(ctx, k, 1); err != nil {
			t.Fatalf("Add(%q) failed: %v", k, err)
		}
	}

	got := collect(t, b)
	want := []entry{{"a", 3}, {"b", 1}, {"c", 2}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if b.Spilled() {
		t.Error("small bag should not spill")
	}
	if b.Total() != 6 {
		t.Errorf("Total() = %d, want 6", b.Total())
	}
}

func TestBag_SpillsAndMergesCounts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b := New(Options{Dir: dir, MaxInMemory: 3})

	keys := []string{"k05", "k01", "k03", "k01", "k04", "k02", "k05", "k01", "k00\x00x"}
	for _, k := range keys {
		if err := b.Add(ctx, k, 1); err != nil {
			t.Fatalf("Add(%q) failed: %v", k, err)
		}
	}
	if !b.Spilled() {
		t.Fatal("bag should have spilled")
	}

	got := collect(t, b)
	want := []entry{{"k00\x00x", 1}, {"k01", 3}, {"k02", 1}, {"k03", 1}, {"k04", 1}, {"k05", 2}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	files, _ := filepath.Glob(filepath.Join(dir, "rdfpipe-spill-*"))
	if len(files) != 0 {
		t.Errorf("spill files left behind: %v", files)
	}
}

func TestBag_IgnoresNonPositiveCounts(t *testing.T) {
	b := New(Options{})
	defer b.Close()
	if err := b.Add(context.Background(), "x", 0); err != nil {
		t.Fatal(err)
	}
	if got := collect(t, b); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestBag_ClosedErrors(t *testing.T) {
	b := New(Options{})
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if err := b.Add(context.Background(), "x", 1); err != ErrClosed {
		t.Errorf("Add after Close = %v, want ErrClosed", err)
	}
	if _, err := b.Cursor(context.Background()); err != ErrClosed {
		t.Errorf("Cursor after Close = %v, want ErrClosed", err)
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckDir(dir); err != nil {
		t.Errorf("CheckDir(%s) = %v", dir, err)
	}

	if err := CheckDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing dir should fail")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckDir(file); err == nil {
		t.Error("regular file should fail")
	}
}

func TestBag_SpillToUnusableDirFails(t *testing.T) {
	b := New(Options{Dir: filepath.Join(t.TempDir(), "missing"), MaxInMemory: 1})
	defer b.Close()
	if err := b.Add(context.Background(), "x", 1); err == nil {
		t.Error("spilling into a missing directory should fail")
	}
}
