package sortmerge

import (
	"errors"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/grailbio/dalign/overlap"
	"github.com/grailbio/dalign/seedkey"
)

func recordKey(r overlap.Record) seedkey.OverlapKey {
	return seedkey.OverlapKey{
		ARead: r.ARead,
		BRead: r.BRead,
		Comp:  r.Flags&overlap.FlagComplement != 0,
		ABPos: r.ABPos,
	}
}

// sortChunk reorders records by seedkey.OverlapKey using an indirection
// array of indices rather than sorting the records themselves in place,
// the same way the chunk sort avoids copying variable-length trace
// payloads around during comparisons.
func sortChunk(records []overlap.Record) []overlap.Record {
	keys := make([]seedkey.OverlapKey, len(records))
	idx := make([]int, len(records))
	for i, r := range records {
		keys[i] = recordKey(r)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]].LT(keys[idx[b]]) })
	out := make([]overlap.Record, len(records))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}

// ExternalSort reads the unsorted shard at inPath in chunks of at most
// chunkRecords, sorts each chunk by (aread,bread,comp,abpos), and either
// writes the single resulting chunk directly to outPath or k-way merges
// multiple chunks into it. Intermediate chunk files are removed before
// returning.
func ExternalSort(inPath, outPath string, chunkRecords int, compress bool) error {
	in, err := OpenShardReader(inPath, compress)
	if err != nil {
		return err
	}
	defer in.Close()

	var chunkPaths []string
	defer func() {
		for _, p := range chunkPaths {
			os.Remove(p)
		}
	}()

	buf := make([]overlap.Record, 0, chunkRecords)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		sorted := sortChunk(buf)
		path := outPath + ".chunk" + strconv.Itoa(len(chunkPaths))
		w, err := createPlain(path, in.Tspace)
		if err != nil {
			return err
		}
		for _, r := range sorted {
			if err := w.Write(r); err != nil {
				w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
		chunkPaths = append(chunkPaths, path)
		buf = buf[:0]
		return nil
	}

	for {
		rec, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		buf = append(buf, rec)
		if len(buf) >= chunkRecords {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if len(chunkPaths) == 0 {
		w, err := createPlain(outPath, in.Tspace)
		if err != nil {
			return err
		}
		return w.Close()
	}
	if len(chunkPaths) == 1 {
		return os.Rename(chunkPaths[0], outPath)
	}
	return Merge(chunkPaths, outPath, in.Tspace)
}

// createPlain opens an uncompressed plain overlap file for writing, the
// external-sort chunk and final .S/.las representation.
func createPlain(path string, tspace int32) (*ShardWriter, error) {
	return CreateShardWriter(path, tspace, false)
}
