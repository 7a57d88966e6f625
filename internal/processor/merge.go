package processor

import (
	"context"
	"strings"

	"github.com/emirpasic/gods/trees/binaryheap"

	"github.com/roach88/rdfpipe/internal/spill"
)

type mergeCursor struct {
	branch int
	cur    spill.Cursor
}

// mergeBags performs an N-way merge of the bags' sorted keys and calls fn
// once per distinct key with the key's count in each bag.
func mergeBags(ctx context.Context, bags []*spill.Bag, fn func(key string, counts []int) error) error {
	heap := binaryheap.NewWith(func(a, b interface{}) int {
		ca, cb := a.(*mergeCursor), b.(*mergeCursor)
		if c := strings.Compare(ca.cur.Key(), cb.cur.Key()); c != 0 {
			return c
		}
		return ca.branch - cb.branch
	})

	var cursors []spill.Cursor
	defer func() {
		for _, c := range cursors {
			c.Close()
		}
	}()

	for i, bag := range bags {
		cur, err := bag.Cursor(ctx)
		if err != nil {
			return err
		}
		cursors = append(cursors, cur)
		if cur.Next() {
			heap.Push(&mergeCursor{branch: i, cur: cur})
		} else if err := cur.Err(); err != nil {
			return err
		}
	}

	counts := make([]int, len(bags))
	for !heap.Empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		top, _ := heap.Peek()
		key := top.(*mergeCursor).cur.Key()

		clear(counts)
		for {
			v, ok := heap.Peek()
			if !ok || v.(*mergeCursor).cur.Key() != key {
				break
			}
			heap.Pop()
			mc := v.(*mergeCursor)
			counts[mc.branch] += mc.cur.Count()
			if mc.cur.Next() {
				heap.Push(mc)
			} else if err := mc.cur.Err(); err != nil {
				return err
			}
		}

		if err := fn(key, counts); err != nil {
			return err
		}
	}
	return nil
}
