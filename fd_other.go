// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !unix

package agecube

// closeFD is a no-op where kernel buffers cannot be exported.
func closeFD(int) error { return nil }
