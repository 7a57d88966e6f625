package spill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// DefaultMaxInMemory is the distinct-key bound used when Options leaves it unset.
const DefaultMaxInMemory = 1 << 20

// ErrClosed is returned by operations on a closed Bag.
var ErrClosed = errors.New("spill: bag closed")

// Options configures where and when a Bag spills.
type Options struct {
	// Dir receives spill files. Empty means os.TempDir().
	Dir string

	// MaxInMemory is the number of distinct keys held in memory before the
	// Bag moves them to disk. Zero or negative means DefaultMaxInMemory.
	MaxInMemory int

	// Logger receives spill events. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) dir() string {
	if o.Dir == "" {
		return os.TempDir()
	}
	return o.Dir
}

// CheckDir verifies that spill files can be created in dir.
func CheckDir(dir string) error {
	if dir == "" {
		dir = os.TempDir()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, "rdfpipe-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Bag is a sorted multiset of string keys.
//
// A Bag has a single owner: it is not safe for concurrent use.
type Bag struct {
	opts   Options
	mem    *redblacktree.Tree
	disk   *store
	total  int64
	closed bool
}

// New creates an empty Bag. No file is created until the Bag spills.
func New(opts Options) *Bag {
	if opts.MaxInMemory <= 0 {
		opts.MaxInMemory = DefaultMaxInMemory
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Bag{opts: opts, mem: redblacktree.NewWithStringComparator()}
}

// Add records n more occurrences of key.
func (b *Bag) Add(ctx context.Context, key string, n int) error {
	if b.closed {
		return ErrClosed
	}
	if n <= 0 {
		return nil
	}
	if cur, ok := b.mem.Get(key); ok {
		b.mem.Put(key, cur.(int)+n)
	} else {
		b.mem.Put(key, n)
	}
	b.total += int64(n)

	if b.mem.Size() >= b.opts.MaxInMemory {
		return b.flush(ctx)
	}
	return nil
}

// Total returns the number of occurrences added, counting duplicates.
func (b *Bag) Total() int64 { return b.total }

// Spilled reports whether the Bag has moved to disk.
func (b *Bag) Spilled() bool { return b.disk != nil }

// flush moves the in-memory tier into the spill file.
func (b *Bag) flush(ctx context.Context) error {
	if b.mem.Empty() {
		return nil
	}
	if b.disk == nil {
		disk, err := openStore(b.opts.dir())
		if err != nil {
			return err
		}
		b.disk = disk
		b.opts.Logger.Debug("spilling occurrence table", "path", disk.path, "keys", b.mem.Size())
	}
	err := b.disk.merge(ctx, func(yield func(string, int) bool) {
		it := b.mem.Iterator()
		for it.Next() {
			if !yield(it.Key().(string), it.Value().(int)) {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	b.mem.Clear()
	return nil
}

// Cursor returns an iterator over distinct keys in ascending byte order.
// The Bag must not be modified while a cursor is open.
func (b *Bag) Cursor(ctx context.Context) (Cursor, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if b.disk == nil {
		return &memCursor{it: b.mem.Iterator()}, nil
	}
	if err := b.flush(ctx); err != nil {
		return nil, err
	}
	rows, err := b.disk.rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("spill: query: %w", err)
	}
	return &diskCursor{rows: rows}, nil
}

// Each calls fn for every distinct key in ascending order.
func (b *Bag) Each(ctx context.Context, fn func(key string, n int) error) error {
	cur, err := b.Cursor(ctx)
	if err != nil {
		return err
	}
	defer cur.Close()
	for cur.Next() {
		if err := fn(cur.Key(), cur.Count()); err != nil {
			return err
		}
	}
	return cur.Err()
}

// Close releases memory and deletes the spill file, if any.
// Close is idempotent.
func (b *Bag) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.mem.Clear()
	if b.disk != nil {
		return b.disk.close()
	}
	return nil
}

// Cursor iterates the distinct keys of a Bag.
type Cursor interface {
	Next() bool
	Key() string
	Count() int
	Err() error
	Close() error
}

type memCursor struct {
	it redblacktree.Iterator
}

func (c *memCursor) Next() bool   { return c.it.Next() }
func (c *memCursor) Key() string  { return c.it.Key().(string) }
func (c *memCursor) Count() int   { return c.it.Value().(int) }
func (c *memCursor) Err() error   { return nil }
func (c *memCursor) Close() error { return nil }

type diskCursor struct {
	rows *sql.Rows
	key  string
	n    int
	err  error
}

func (c *diskCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}
	var key []byte
	if err := c.rows.Scan(&key, &c.n); err != nil {
		c.err = fmt.Errorf("spill: scan: %w", err)
		return false
	}
	c.key = string(key)
	return true
}

func (c *diskCursor) Key() string { return c.key }
func (c *diskCursor) Count() int  { return c.n }

func (c *diskCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *diskCursor) Close() error { return c.rows.Close() }
