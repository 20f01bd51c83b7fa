// daligner compares two read blocks (or one block against itself) and
// writes the discovered overlaps to an unsorted .las shard. It is the
// direct analogue of this lineage's cmd/bio-fusion driver: open the
// inputs, build indices once, run the seed/filter/align chain, and report
// a summary line when done.
//
// Usage: daligner [flags] <x-block> <y-block> <out.las>
//
// Comparing a block against itself (x == y) enables the strict
// bread>aread self-comparison ordering so that no overlap is reported
// twice.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/dalign/diagfilter"
	"github.com/grailbio/dalign/errtype"
	"github.com/grailbio/dalign/kmerseed"
	"github.com/grailbio/dalign/pipeline"
	"github.com/grailbio/dalign/wavefront"
	"v.io/x/lib/vlog"
)

var (
	threadsFlag     = flag.Int("T", 4, "number of comparison threads")
	kmerFlag        = flag.Int("k", kmerseed.DefaultOpts.KmerLength, "k-mer length")
	binWidthFlag    = flag.Int("w", diagfilter.DefaultOpts.BinWidth, "log2 diagonal bin width")
	hitThreshFlag   = flag.Int("h", diagfilter.DefaultOpts.HitThreshold, "minimum diagonal hit coverage, in bases")
	correlationFlag = flag.Float64("e", wavefront.DefaultOpts.Correlation, "average correlation rate expected between reads")
	minLengthFlag   = flag.Int("l", int(wavefront.DefaultOpts.MinLength), "minimum overlap length reported")
	traceSpaceFlag  = flag.Int("s", int(wavefront.DefaultOpts.TraceSpacing), "trace point spacing, in A bases")
	memGBFlag       = flag.Int("M", 1, "memory budget for seed-pair staging, in GB")
	maskFlag        = flag.String("m", "", "repeat/low-complexity mask file (tab-separated aread start end), applied to the X block")
	biasedFlag      = flag.Bool("b", kmerseed.DefaultOpts.Biased, "use biased (GC-compensated) k-mer emission")
	minALenFlag     = flag.Int("H", 0, "discard reads shorter than this, in both blocks, before comparison")
	compressFlag    = flag.Bool("compress-tmp", true, "snappy-compress the output shard")
)

func usage() {
	fmt.Fprintf(os.Stderr, `daligner compares two read blocks and writes discovered overlaps.

Usage:
  daligner [flags] <x-block> <y-block> <out.las>

Flags:
`)
	flag.PrintDefaults()
	os.Exit(1)
}

func loadMasks(path string) (map[int][]kmerseed.Interval, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	masks := map[int][]kmerseed.Interval{}
	var aread int
	var start, end int32
	for {
		n, err := fmt.Fscan(f, &aread, &start, &end)
		if n == 0 || err != nil {
			break
		}
		masks[aread] = append(masks[aread], kmerseed.Interval{Start: start, End: end})
	}
	return masks, nil
}

func run(xRoot, yRoot, outPath string) error {
	masks, err := loadMasks(*maskFlag)
	if err != nil {
		return err
	}
	opts := pipeline.DefaultOpts
	opts.Kmer.KmerLength = *kmerFlag
	opts.Kmer.Biased = *biasedFlag
	opts.Kmer.NThread = *threadsFlag
	opts.Diag.BinWidth = *binWidthFlag
	opts.Diag.HitThreshold = *hitThreshFlag
	opts.Diag.KmerLength = *kmerFlag
	opts.Align.Correlation = *correlationFlag
	opts.Align.MinLength = int32(*minLengthFlag)
	opts.Align.TraceSpacing = int32(*traceSpaceFlag)
	opts.MemoryBudget = int64(*memGBFlag) << 30
	opts.NThread = *threadsFlag
	opts.CompressTmp = *compressFlag
	opts.Masks = masks
	opts.TrimCutoff = int32(*minALenFlag)

	ctx := vcontext.Background()
	if *minALenFlag > 0 {
		vlog.VI(1).Infof("daligner: trimming %s and %s to reads >= %d bases", xRoot, yRoot, *minALenFlag)
	}
	n, err := pipeline.ComparePair(ctx, xRoot, yRoot, outPath, opts)
	if err != nil {
		return err
	}
	vlog.Infof("daligner: %s x %s -> %d overlaps written to %s", xRoot, yRoot, n, outPath)
	return nil
}

func main() {
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()

	if flag.NArg() != 3 {
		usage()
	}
	args := flag.Args()
	if err := run(args[0], args[1], args[2]); err != nil {
		vlog.Errorf("daligner: %v", err)
		os.Exit(errtype.ExitCode(err))
	}
}
