// Package sortmerge implements the sort/merge pipeline (C8): per-worker
// unsorted overlap shards, an external-sort pass into strictly sorted
// .S files, a k-way merge of sorted files, and a partition split. Grounded
// on the sortshard/sorter pair of this lineage's BAM coordinate sorter:
// snappy-compressed temporary shards for worker output, and an llrb.Tree
// used as the N-way merge's ordered min structure (the tree, not a binary
// heap, is the merge engine the teacher itself uses).
package sortmerge

import (
	"errors"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/grailbio/dalign/overlap"
)

var errMismatchedPartition = errors.New("sortmerge: partition ranges and output paths have different lengths")

// ShardWriter is a worker's unsorted output stream: a plain header
// followed by a snappy-compressed body, so per-pair output stays cheap to
// write and small on disk even before it is ever sorted.
type ShardWriter struct {
	f        *os.File
	sw       *snappy.Writer
	w        io.Writer
	tspace   int32
	count    int64
}

// CreateShardWriter opens path for unsorted worker output. When compress
// is false the body is written uncompressed, matching NoCompressTmpFiles.
func CreateShardWriter(path string, tspace int32, compress bool) (*ShardWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := overlap.WriteHeader(f, 0, tspace); err != nil {
		f.Close()
		return nil, err
	}
	s := &ShardWriter{f: f, tspace: tspace, w: f}
	if compress {
		s.sw = snappy.NewBufferedWriter(f)
		s.w = s.sw
	}
	return s, nil
}

// Write appends one record.
func (s *ShardWriter) Write(rec overlap.Record) error {
	if err := overlap.WriteRecord(s.w, rec, s.tspace); err != nil {
		return err
	}
	s.count++
	return nil
}

// Close flushes the body and patches the header with the final record
// count.
func (s *ShardWriter) Close() error {
	if s.sw != nil {
		if err := s.sw.Close(); err != nil {
			return err
		}
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := overlap.WriteHeader(s.f, s.count, s.tspace); err != nil {
		return err
	}
	return s.f.Close()
}

// ShardReader reads back a ShardWriter's output in order.
type ShardReader struct {
	f      *os.File
	sr     *snappy.Reader
	r      io.Reader
	Novl   int64
	Tspace int32
	read   int64
}

// OpenShardReader opens path, which must have been written by
// CreateShardWriter with the same compress setting.
func OpenShardReader(path string, compress bool) (*ShardReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	novl, tspace, err := overlap.ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s := &ShardReader{f: f, Novl: novl, Tspace: tspace, r: f}
	if compress {
		s.sr = snappy.NewReader(f)
		s.r = s.sr
	}
	return s, nil
}

// Next returns the next record, or io.EOF once Novl records have been
// read.
func (s *ShardReader) Next() (overlap.Record, error) {
	if s.read >= s.Novl {
		return overlap.Record{}, io.EOF
	}
	rec, err := overlap.ReadRecord(s.r, s.Tspace)
	if err != nil {
		return rec, err
	}
	s.read++
	return rec, nil
}

// Close releases the underlying file.
func (s *ShardReader) Close() error { return s.f.Close() }
