// lamerge k-way merges already-sorted overlap files into one strictly
// ordered output, driving C8's llrb.Tree-based merge as a standalone
// tool.
//
// Usage: lamerge [flags] <out.las> <in1.las> <in2.las> ...
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

var tspaceFlag = flag.Int("s", 100, "trace point spacing of the inputs, in A bases")

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  lamerge [flags] <out.las> <in1.las> <in2.las> ...\n\nFlags:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()

	if flag.NArg() < 3 {
		usage()
	}
	out := flag.Arg(0)
	ins := flag.Args()[1:]
	if err := sortmerge.Merge(ins, out, int32(*tspaceFlag)); err != nil {
		vlog.Errorf("lamerge: %v", err)
		os.Exit(errtype.ExitCode(err))
	}
	vlog.Infof("lamerge: merged %d files -> %s", len(ins), out)
}
