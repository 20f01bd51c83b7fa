// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import (
	"github.com/grailbio/base/simd"
)

// ReverseComp2UnsafeInplace reverse-complements acgt8[], assuming that it's
// encoded with one byte per base, ACGT=0123.
//
// WARNING: This is a function designed to be used in inner loops, which makes
// assumptions about length and capacity which aren't checked at runtime.  Use
// the safe version of this function when that's a problem.
// These assumptions are always satisfied when the last
// potentially-size-increasing operation on acgt8[] is simd.{Re}makeUnsafe(),
// ResizeUnsafe(), or XcapUnsafe().
//
// 1. Capacity of acgt8[] is at least RoundUpPow2(len(acgt8) + 1, bytesPerVec).
//
// 2. The caller does not care if a few bytes past the end of acgt8[] are
// changed.
func ReverseComp2UnsafeInplace(acgt8 []byte) {
	simd.Reverse8Inplace(acgt8)
	simd.XorConst8Inplace(acgt8, 3)
}

// ReverseComp2Inplace reverse-complements acgt8[], assuming that it's encoded
// with one byte per base, ACGT=0123.
func ReverseComp2Inplace(acgt8 []byte) {
	simd.Reverse8Inplace(acgt8)
	simd.XorConst8Inplace(acgt8, 3)
}

// ReverseComp2Unsafe saves the reverse-complement of src[] to dst[], assuming
// that they're encoded with one byte per base, ACGT=0123.
//
// WARNING: This is a function designed to be used in inner loops, which makes
// assumptions about length and capacity which aren't checked at runtime.  Use
// the safe version of this function when that's a problem.
// Assumptions #2-3 are always satisfied when the last
// potentially-size-increasing operation on src[] is simd.{Re}makeUnsafe(),
// ResizeUnsafe(), or XcapUnsafe(), and the same is true of dst[].
//
// 1. len(src) == len(dst).
//
// 2. Capacity of src is at least RoundUpPow2(len(src) + 1, bytesPerVec), and
// the same is true of dst.
//
// 3. The caller does not care if a few bytes past the end of dst[] are
// changed.
func ReverseComp2Unsafe(dst, src []byte) {
	simd.Reverse8(dst, src)
	simd.XorConst8Inplace(dst, 3)
}

// ReverseComp2 saves the reverse-complement of src[] to dst[], assuming that
// they're encoded with one byte per base, ACGT=0123.
// It panics if len(dst) != len(src).
func ReverseComp2(dst, src []byte) {
	if len(dst) != len(src) {
		panic("ReverseComp2() requires len(dst) == len(src).")
	}
	simd.Reverse8(dst, src)
	simd.XorConst8Inplace(dst, 3)
}
