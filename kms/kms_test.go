// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kms

import "testing"

func TestAlign(t *testing.T) {
	tests := []struct{ v, a, want int }{
		{250, 16, 256},
		{256, 16, 256},
		{1, 16, 16},
		{0, 16, 0},
		{17, 64, 64},
	}
	for _, tt := range tests {
		if got := Align(tt.v, tt.a); got != tt.want {
			t.Errorf("Align(%d, %d) = %d, want %d", tt.v, tt.a, got, tt.want)
		}
	}
}

func TestFourCC(t *testing.T) {
	if FormatRGBA8888 != 0x34324152 {
		t.Errorf("RGBA8888 = %#x, want 0x34324152", FormatRGBA8888)
	}
	if got := FormatName(FormatABGR8888); got != "AB24" {
		t.Errorf("FormatName = %q, want AB24", got)
	}
}

func TestChannelOrder(t *testing.T) {
	order, ok := ChannelOrder(FormatRGBA8888)
	if !ok || order != [4]int{3, 2, 1, 0} {
		t.Errorf("RGBA8888 order = %v %v", order, ok)
	}
	if _, ok := ChannelOrder(FourCC('N', 'V', '1', '2')); ok {
		t.Error("NV12 reported as 32-bit RGB")
	}
}
