package readdb

// Pack2Bit packs a slice of base codes (values 0..3; a terminal sentinel of
// 4 must not be passed in) into the MSB-first 2-bit-per-base layout used by
// the .bps store: the first base of the read occupies the top two bits of
// the first output byte. This mirrors Compress_Read in the database this
// format descends from.
func Pack2Bit(codes []byte) []byte {
	out := make([]byte, (len(codes)+3)/4)
	for i, c := range codes {
		out[i/4] |= (c & 3) << uint(6-2*(i%4))
	}
	return out
}

// Unpack2Bit expands n MSB-first packed bases from packed into a freshly
// allocated slice of base codes (values 0..3).
func Unpack2Bit(packed []byte, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b := packed[i/4]
		out[i] = (b >> uint(6-2*(i%4))) & 3
	}
	return out
}
