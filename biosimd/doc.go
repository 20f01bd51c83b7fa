// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides byte-array operations on the 2-bit ACGT=0123
// read encoding that the compiler cannot be trusted to autovectorize.
//
// See base/simd/doc.go for more comments on the overall design.
package biosimd
