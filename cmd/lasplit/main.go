// lasplit buckets a sorted overlap file by record count or by an a-read
// partition table, driving C8's split operations as a standalone tool.
//
// Usage:
//   lasplit [flags] <in.las> <out0.las> <out1.las> ...
//   lasplit -partition <file> [flags] <in.las> <out0.las> <out1.las> ...
//   lasplit -hash [flags] <in.las> <out0.las> <out1.las> ...
//
// Without -partition or -hash the records are split by count into as many
// roughly equal files as output paths are given.
//
// The partition file is a sequence of "lo hi" lines, one per output,
// giving the half-open [lo,hi) a-read index range routed to that file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/dalign/errtype"
	"github.com/grailbio/dalign/sortmerge"
	"v.io/x/lib/vlog"
)

var (
	tspaceFlag    = flag.Int("s", 100, "trace point spacing of the input, in A bases")
	partitionFlag = flag.String("partition", "", "a-read partition table (lo hi per line); one line per output file")
	hashFlag      = flag.Bool("hash", false, "route records by a hash of the read pair instead of by count or partition")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  lasplit [flags] <in.las> <out0.las> <out1.las> ...\n\nFlags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func readPartitions(path string, n int) ([]sortmerge.PartitionRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ranges []sortmerge.PartitionRange
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var lo, hi int32
		if _, err := fmt.Sscanf(sc.Text(), "%d %d", &lo, &hi); err != nil {
			continue
		}
		ranges = append(ranges, sortmerge.PartitionRange{Lo: lo, Hi: hi})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(ranges) != n {
		return nil, errtype.UserError
	}
	return ranges, nil
}

func main() {
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()

	if flag.NArg() < 2 {
		usage()
	}
	in := flag.Arg(0)
	outs := flag.Args()[1:]

	var err error
	switch {
	case *partitionFlag != "":
		var ranges []sortmerge.PartitionRange
		ranges, err = readPartitions(*partitionFlag, len(outs))
		if err == nil {
			err = sortmerge.SplitByPartition(in, ranges, outs, int32(*tspaceFlag))
		}
	case *hashFlag:
		err = sortmerge.SplitByHash(in, outs, int32(*tspaceFlag))
	default:
		err = sortmerge.SplitByCount(in, outs, int32(*tspaceFlag))
	}
	if err != nil {
		vlog.Errorf("lasplit: %v", err)
		os.Exit(errtype.ExitCode(err))
	}
	vlog.Infof("lasplit: split %s into %d files", in, len(outs))
}
