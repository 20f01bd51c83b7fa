package sortmerge

import (
	"errors"
	"io"

	farm "github.com/dgryski/go-farm"
)

// PartitionRange is one bucket's half-open a-read index range
// [Lo, Hi) from a block's partition descriptor.
type PartitionRange struct {
	Lo, Hi int32
}

// SplitByCount partitions the sorted file at inPath into n output files of
// roughly equal record count, the inverse of Merge's count-balanced
// union.
func SplitByCount(inPath string, outPaths []string, tspace int32) error {
	in, err := OpenShardReader(inPath, false)
	if err != nil {
		return err
	}
	defer in.Close()

	n := int64(len(outPaths))
	if n == 0 {
		return nil
	}
	perFile := in.Novl / n
	if perFile == 0 {
		perFile = 1
	}

	writers := make([]*ShardWriter, len(outPaths))
	for i, p := range outPaths {
		w, err := createPlain(p, tspace)
		if err != nil {
			return err
		}
		writers[i] = w
	}
	cur := 0
	for {
		rec, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if cur < len(writers)-1 && writers[cur].count >= perFile {
			cur++
		}
		if err := writers[cur].Write(rec); err != nil {
			return err
		}
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

// SplitByHash buckets inPath's records across outPaths by a fast
// non-cryptographic hash of the read pair, the same fingerprint-based
// assignment this lineage's k-mer index uses to bucket k-mers into
// shards — useful when downstream merge workers want a stable
// deterministic shard assignment rather than a count- or range-based one.
func SplitByHash(inPath string, outPaths []string, tspace int32) error {
	in, err := OpenShardReader(inPath, false)
	if err != nil {
		return err
	}
	defer in.Close()

	n := uint64(len(outPaths))
	if n == 0 {
		return nil
	}
	writers := make([]*ShardWriter, len(outPaths))
	for i, p := range outPaths {
		w, err := createPlain(p, tspace)
		if err != nil {
			return err
		}
		writers[i] = w
	}
	for {
		rec, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		h := farm.Hash64WithSeed(nil, uint64(rec.ARead)<<32|uint64(uint32(rec.BRead)))
		if err := writers[h%n].Write(rec); err != nil {
			return err
		}
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

// SplitByPartition buckets the sorted file at inPath by a-read index
// range, using a block's partition descriptor rather than a fixed record
// count. Records whose aread does not fall in any range are dropped.
func SplitByPartition(inPath string, ranges []PartitionRange, outPaths []string, tspace int32) error {
	if len(ranges) != len(outPaths) {
		return errMismatchedPartition
	}
	in, err := OpenShardReader(inPath, false)
	if err != nil {
		return err
	}
	defer in.Close()

	writers := make([]*ShardWriter, len(outPaths))
	for i, p := range outPaths {
		w, err := createPlain(p, tspace)
		if err != nil {
			return err
		}
		writers[i] = w
	}
	for {
		rec, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		for i, r := range ranges {
			if rec.ARead >= r.Lo && rec.ARead < r.Hi {
				if err := writers[i].Write(rec); err != nil {
					return err
				}
				break
			}
		}
	}
	for _, w := range writers {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
