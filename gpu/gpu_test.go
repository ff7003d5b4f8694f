// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDrawCallValidate(t *testing.T) {
	pos := VertexAttrib{Location: LocationPosition, Format: gputypes.VertexFormatFloat32x2, Data: make([]float32, 6)}

	tests := []struct {
		name string
		call DrawCall
		ok   bool
	}{
		{"triangle", DrawCall{Attribs: []VertexAttrib{pos}, Count: 3}, true},
		{"zero count", DrawCall{Attribs: []VertexAttrib{pos}}, false},
		{"not a triangle list", DrawCall{Attribs: []VertexAttrib{pos}, Count: 2}, false},
		{"short data", DrawCall{Attribs: []VertexAttrib{pos}, First: 3, Count: 3}, false},
		{"unknown format", DrawCall{Attribs: []VertexAttrib{{Data: make([]float32, 6)}}, Count: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDraw) {
				t.Fatalf("Validate() = %v, want ErrInvalidDraw", err)
			}
		})
	}
}

func TestDrawCallAttrib(t *testing.T) {
	call := DrawCall{Attribs: []VertexAttrib{{Location: LocationTexCoord}}}
	if _, ok := call.Attrib(LocationPosition); ok {
		t.Error("found position attribute that was never set")
	}
	if _, ok := call.Attrib(LocationTexCoord); !ok {
		t.Error("texcoord attribute not found")
	}
}

func TestFramebufferStatusString(t *testing.T) {
	for s := FramebufferComplete; s <= FramebufferIncompleteDimensions+1; s++ {
		if s.String() == "" {
			t.Errorf("status %d has empty description", s)
		}
	}
	if !FramebufferComplete.Complete() || FramebufferUnsupported.Complete() {
		t.Error("Complete() mismatch")
	}
}
