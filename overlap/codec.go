// Package overlap implements the overlap codec (C7): binary record
// framing, 8/16-bit trace compression, and trace-point validation.
// Grounded on the fixed-binary-header-followed-by-variable-payload idiom
// this lineage's BAM marshaler uses (a length field sized before the
// variable bytes are appended) and on the Compress_TraceTo8/
// Decompress_TraceTo16 routines of the original aligner's trace codec.
// Framing is hand-written encoding/binary rather than a schema-driven
// codec because the wire layout is pinned exactly by the legacy .las
// format (see DESIGN.md).
package overlap

import (
	"encoding/binary"
	"io"

	"github.com/grailbio/dalign/errtype"
)

// Flags bits in a Record.
type Flags int32

const (
	FlagComplement Flags = 1 << iota
	FlagChainStart
	FlagChainContinuation
	FlagBestOfChain
)

// Record is one overlap: a pair of reads, orientation, endpoints, and a
// compact delta_b trace. Diffs is the path-level aggregate edit count;
// per-segment diff counts are not persisted on disk, matching the legacy
// .las layout.
type Record struct {
	ARead, BRead         int32
	ALen, BLen           int32
	Flags                Flags
	Diffs                int32
	ABPos, BBPos         int32
	AEPos, BEPos         int32
	Trace                []uint16
}

var order = binary.LittleEndian

// WriteHeader writes the file-level header: novl, tspace.
func WriteHeader(w io.Writer, novl int64, tspace int32) error {
	var buf [12]byte
	order.PutUint64(buf[0:8], uint64(novl))
	order.PutUint32(buf[8:12], uint32(tspace))
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads the file-level header. A negative novl in the stored
// bytes signals the legacy big-endian variant; the magnitude is returned.
func ReadHeader(r io.Reader) (novl int64, tspace int32, err error) {
	var buf [12]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, 0, err
	}
	n := int64(binary.LittleEndian.Uint64(buf[0:8]))
	if n < 0 {
		n = int64(binary.BigEndian.Uint64(buf[0:8]))
		tspace = int32(binary.BigEndian.Uint32(buf[8:12]))
		return -n, tspace, nil
	}
	tspace = int32(binary.LittleEndian.Uint32(buf[8:12]))
	return n, tspace, nil
}

// WriteRecord writes one Record using tbytes-sized trace values (1 byte if
// 0 < tspace <= 125, else 2).
func WriteRecord(w io.Writer, rec Record, tspace int32) error {
	tbytes := traceBytes(tspace)
	hdr := make([]byte, 4*9)
	order.PutUint32(hdr[0:4], uint32(rec.ARead))
	order.PutUint32(hdr[4:8], uint32(rec.BRead))
	order.PutUint32(hdr[8:12], uint32(rec.ALen))
	order.PutUint32(hdr[12:16], uint32(rec.BLen))
	order.PutUint32(hdr[16:20], uint32(rec.Flags))
	order.PutUint32(hdr[20:24], uint32(len(rec.Trace)))
	order.PutUint32(hdr[24:28], uint32(rec.Diffs))
	order.PutUint32(hdr[28:32], uint32(rec.ABPos))
	order.PutUint32(hdr[32:36], uint32(rec.BBPos))
	// aepos/bepos appended below, for a flat 44-byte fixed header.
	tail := make([]byte, 8)
	order.PutUint32(tail[0:4], uint32(rec.AEPos))
	order.PutUint32(tail[4:8], uint32(rec.BEPos))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if _, err := w.Write(tail); err != nil {
		return err
	}

	payload := make([]byte, len(rec.Trace)*tbytes)
	if tbytes == 1 {
		u8 := make([]byte, len(rec.Trace))
		for i, v := range rec.Trace {
			if v > 255 {
				return errtype.CorruptFile
			}
			u8[i] = byte(v)
		}
		copy(payload, u8)
	} else {
		for i, v := range rec.Trace {
			order.PutUint16(payload[i*2:i*2+2], v)
		}
	}
	_, err := w.Write(payload)
	return err
}

// ReadRecord reads one Record.
func ReadRecord(r io.Reader, tspace int32) (Record, error) {
	var rec Record
	hdr := make([]byte, 4*9)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return rec, err
	}
	rec.ARead = int32(order.Uint32(hdr[0:4]))
	rec.BRead = int32(order.Uint32(hdr[4:8]))
	rec.ALen = int32(order.Uint32(hdr[8:12]))
	rec.BLen = int32(order.Uint32(hdr[12:16]))
	rec.Flags = Flags(order.Uint32(hdr[16:20]))
	tlen := int(order.Uint32(hdr[20:24]))
	rec.Diffs = int32(order.Uint32(hdr[24:28]))
	rec.ABPos = int32(order.Uint32(hdr[28:32]))
	rec.BBPos = int32(order.Uint32(hdr[32:36]))

	tail := make([]byte, 8)
	if _, err := io.ReadFull(r, tail); err != nil {
		return rec, err
	}
	rec.AEPos = int32(order.Uint32(tail[0:4]))
	rec.BEPos = int32(order.Uint32(tail[4:8]))

	tbytes := traceBytes(tspace)
	payload := make([]byte, tlen*tbytes)
	if _, err := io.ReadFull(r, payload); err != nil {
		return rec, err
	}
	rec.Trace = make([]uint16, tlen)
	if tbytes == 1 {
		for i := 0; i < tlen; i++ {
			rec.Trace[i] = uint16(payload[i])
		}
	} else {
		for i := 0; i < tlen; i++ {
			rec.Trace[i] = order.Uint16(payload[i*2 : i*2+2])
		}
	}
	return rec, nil
}

func traceBytes(tspace int32) int {
	if tspace > 0 && tspace <= 125 {
		return 1
	}
	return 2
}

// CompressTraceTo8 narrows every u16 trace value to a u8, asserting none
// exceeds 255. It fails with CorruptFile (the "CorruptTrace" condition) if
// any value is out of range.
func CompressTraceTo8(trace []uint16) ([]byte, error) {
	out := make([]byte, len(trace))
	for i, v := range trace {
		if v > 255 {
			return nil, errtype.CorruptFile
		}
		out[i] = byte(v)
	}
	return out, nil
}

// DecompressTraceTo16 expands a u8 trace back to u16 in a newly allocated
// slice; compressed is left unchanged. DecompressInPlace is the variant
// whose source and destination share one buffer.
func DecompressTraceTo16(compressed []byte) []uint16 {
	out := make([]uint16, len(compressed))
	for i := len(compressed) - 1; i >= 0; i-- {
		out[i] = uint16(compressed[i])
	}
	return out
}

// DecompressInPlace expands buf[:tlen] (u8 trace values) into buf[:tlen*2]
// (u16 LE trace values) within the same backing array, walking from the
// high index down so the read of buf[i] always precedes any write that
// could clobber it.
func DecompressInPlace(buf []byte, tlen int) error {
	if len(buf) < tlen*2 {
		return errtype.ResourceExhausted
	}
	for i := tlen - 1; i >= 0; i-- {
		v := uint16(buf[i])
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	return nil
}

// CheckTracePoints validates I4-style consistency of a record's trace
// against its path header: the number of segments implied by the A span
// at spacing tspace must equal tlen, and the trace's b-deltas must sum to
// exactly bepos-bbpos.
func CheckTracePoints(rec Record, tspace int32) error {
	expected := (rec.AEPos-1)/tspace - rec.ABPos/tspace
	if expected != int32(len(rec.Trace))-1 {
		return errtype.CorruptFile
	}
	var sum int32
	for _, v := range rec.Trace {
		sum += int32(v)
	}
	if sum != rec.BEPos-rec.BBPos {
		return errtype.CorruptFile
	}
	return nil
}
