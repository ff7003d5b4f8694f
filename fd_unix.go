// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build unix

package agecube

import "golang.org/x/sys/unix"

func closeFD(fd int) error {
	return unix.Close(fd)
}
