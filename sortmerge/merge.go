package sortmerge

import (
	"errors"
	"io"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/dalign/overlap"
	"github.com/grailbio/dalign/seedkey"
	"v.io/x/lib/vlog"
)

// mergeLeaf is one active stream's current head record, ordered in the
// tree by (aread,bread,comp,abpos) with the source index as a tiebreaker
// so distinct streams never collide as duplicate tree keys.
type mergeLeaf struct {
	seq    int
	key    seedkey.OverlapKey
	rec    overlap.Record
	reader *ShardReader
	done   bool
}

func (l *mergeLeaf) Compare(c llrb.Comparable) int {
	o := c.(*mergeLeaf)
	if d := l.key.Compare(o.key); d != 0 {
		return d
	}
	return l.seq - o.seq
}

func newMergeLeaf(seq int, r *ShardReader) (*mergeLeaf, error) {
	rec, err := r.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return &mergeLeaf{seq: seq, key: recordKey(rec), rec: rec, reader: r}, nil
}

func (l *mergeLeaf) advance() (bool, error) {
	rec, err := l.reader.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			l.done = true
			return false, nil
		}
		return false, err
	}
	l.rec = rec
	l.key = recordKey(rec)
	return true, nil
}

// Merge performs a k-way merge of up to 252 sorted, uncompressed overlap
// files into outPath, preserving the strict (aread,bread,comp,abpos)
// order I5 requires. The merge engine is an llrb.Tree ordered min
// structure: the tree's minimum is always the next record to emit, the
// same shape this lineage's BAM coordinate-sort merge uses instead of a
// binary heap.
func Merge(paths []string, outPath string, tspace int32) error {
	readers := make([]*ShardReader, 0, len(paths))
	defer func() {
		for _, r := range readers {
			r.Close()
		}
	}()
	tree := llrb.Tree{}
	for i, p := range paths {
		r, err := OpenShardReader(p, false)
		if err != nil {
			return err
		}
		readers = append(readers, r)
		leaf, err := newMergeLeaf(i, r)
		if err != nil {
			return err
		}
		if leaf != nil {
			tree.Insert(leaf)
		}
	}

	out, err := createPlain(outPath, tspace)
	if err != nil {
		return err
	}
	vlog.VI(1).Infof("sortmerge.Merge: %d-way merge of %v into %s", len(readers), paths, outPath)

	var emitted int64
	for tree.Len() > 0 {
		var top, next *mergeLeaf
		n := 0
		tree.Do(func(item llrb.Comparable) bool {
			n++
			switch n {
			case 1:
				top = item.(*mergeLeaf)
				return false
			case 2:
				next = item.(*mergeLeaf)
				return true
			default:
				return false
			}
		})
		for {
			if err := out.Write(top.rec); err != nil {
				out.Close()
				return err
			}
			emitted++
			ok, err := top.advance()
			if err != nil {
				out.Close()
				return err
			}
			if !ok || (next != nil && next.key.LT(top.key)) {
				break
			}
		}
		tree.DeleteMin()
		if !top.done {
			tree.Insert(top)
		}
	}
	vlog.VI(1).Infof("sortmerge.Merge: %s: %d records written", outPath, emitted)
	return out.Close()
}
