// lasort sorts a single unsorted overlap shard into strict I5 order
// (a-read, b-read, complement flag, a-position), driving C8's external-sort path
// as a standalone tool.
//
// Usage: lasort [flags] <in.las> <out.las>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/dalign/errtype"
	"github.com/grailbio/dalign/sortmerge"
	"v.io/x/lib/vlog"
)

var (
	chunkFlag    = flag.Int("chunk-records", 1<<20, "records per in-memory sort chunk")
	compressFlag = flag.Bool("compress", true, "input shard is snappy-compressed (the sorted output is always written uncompressed)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  lasort [flags] <in.las> <out.las>\n\nFlags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()

	if flag.NArg() != 2 {
		usage()
	}
	in, out := flag.Arg(0), flag.Arg(1)
	if err := sortmerge.ExternalSort(in, out, *chunkFlag, *compressFlag); err != nil {
		vlog.Errorf("lasort: %v", err)
		os.Exit(errtype.ExitCode(err))
	}
	vlog.Infof("lasort: sorted %s -> %s", in, out)
}
