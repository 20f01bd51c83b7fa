package kmerseed

// Opts controls k-mer emission for Build. It mirrors the small
// configuration-struct-with-documented-defaults idiom this lineage uses for
// its tunables.
type Opts struct {
	// KmerLength is k, the number of bases folded into one code. Must be
	// in [1,32] since a code is a 64-bit 2-bit-per-base integer.
	KmerLength int

	// Biased switches on GC-compensated variable-length-window emission
	// (spec's "biased" mode); when false every full-length window is
	// emitted unconditionally ("unbiased" mode, the default).
	Biased bool

	// FrequencyCap, if > 0, drops every k-mer occurring more than this
	// many times in the sorted output. If 0, the cap is instead derived
	// from a memory budget by AdaptiveCap once both sides of a comparison
	// have been built.
	FrequencyCap int

	// NThread is the worker count used to partition the scan across
	// reads.
	NThread int
}

// DefaultOpts matches the aligner's published defaults (k=14 is the
// standard seed length for ~15% identity long reads).
var DefaultOpts = Opts{
	KmerLength: 14,
	Biased:     false,
	NThread:    4,
}

// Interval is a half-open [Start,End) range to skip when scanning a read,
// used for repeat/low-complexity masking (spec §4.2's "masking").
type Interval struct {
	Start, End int32
}
