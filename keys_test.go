package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  []key
	}{
		{"plain", "jk", []key{'j', 'k'}},
		{"arrow up", "\x1b[A", []key{keyArrowUp}},
		{"arrow app mode", "\x1bOD", []key{keyArrowLeft}},
		{"lone escape", "\x1b", []key{keyEsc}},
		{"escape then key", "\x1bj", []key{keyEsc, 'j'}},
		{"delete", "\x1b[3~", []key{keyDelete}},
		{"page up then text", "\x1b[5~x", []key{keyPageUp, 'x'}},
		{"home and end", "\x1b[H\x1b[4~", []key{keyHome, keyEnd}},
		{"arrows back to back", "\x1b[B\x1b[B", []key{keyArrowDown, keyArrowDown}},
		{"unknown final byte dropped", "\x1b[Zq", []key{'q'}},
		{"modified arrow dropped", "\x1b[1;5Cq", []key{'q'}},
		{"unknown tilde dropped", "\x1b[2~", nil},
		{"truncated sequence", "\x1b[", []key{keyEsc, '['}},
		{"control", "\x11", []key{ctrl('q')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeKeys([]byte(tt.chunk)))
		})
	}
}
