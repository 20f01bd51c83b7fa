// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/base/simd"
	"github.com/grailbio/dalign/biosimd"
)

func reverseComp2Slow(main []byte) {
	nByte := len(main)
	nByteDiv2 := nByte >> 1
	for idx, invIdx := 0, nByte-1; idx != nByteDiv2; idx, invIdx = idx+1, invIdx-1 {
		main[idx], main[invIdx] = 3-main[invIdx], 3-main[idx]
	}
	if nByte&1 == 1 {
		main[nByteDiv2] = 3 - main[nByteDiv2]
	}
}

func TestReverseComp2(t *testing.T) {
	maxSize := 500
	nIter := 200
	main1Arr := simd.MakeUnsafe(maxSize)
	main2Arr := simd.MakeUnsafe(maxSize)
	main3Arr := simd.MakeUnsafe(maxSize)
	main4Arr := simd.MakeUnsafe(maxSize)
	main5Arr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		main1Slice := main1Arr[sliceStart:sliceEnd]
		main2Slice := main2Arr[sliceStart:sliceEnd]
		main3Slice := main3Arr[sliceStart:sliceEnd]
		main4Slice := main4Arr[sliceStart:sliceEnd]
		main5Slice := main5Arr[sliceStart:sliceEnd]
		for ii := range main1Slice {
			main1Slice[ii] = byte(rand.Intn(4))
		}
		copy(main3Slice, main1Slice)
		sentinel := byte(rand.Intn(256))
		main3Arr[sliceEnd] = sentinel
		main5Arr[sliceEnd] = sentinel
		biosimd.ReverseComp2Unsafe(main4Slice, main1Slice)
		biosimd.ReverseComp2Unsafe(main2Slice, main4Slice)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("ReverseComp2Unsafe isn't its own inverse.")
		}
		copy(main2Slice, main1Slice)
		biosimd.ReverseComp2(main5Slice, main1Slice)
		reverseComp2Slow(main1Slice)
		biosimd.ReverseComp2UnsafeInplace(main2Slice)
		biosimd.ReverseComp2Inplace(main3Slice)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("Mismatched ReverseComp2UnsafeInplace result.")
		}
		if !bytes.Equal(main1Slice, main3Slice) {
			t.Fatal("Mismatched ReverseComp2Inplace result.")
		}
		if main3Arr[sliceEnd] != sentinel {
			t.Fatal("ReverseComp2Inplace clobbered an extra byte.")
		}
		if !bytes.Equal(main1Slice, main4Slice) {
			t.Fatal("Mismatched ReverseComp2Unsafe result.")
		}
		if !bytes.Equal(main1Slice, main5Slice) {
			t.Fatal("Mismatched ReverseComp2 result.")
		}
		if main5Arr[sliceEnd] != sentinel {
			t.Fatal("ReverseComp2 clobbered an extra byte.")
		}
	}
}
