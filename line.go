package main

import (
	"fmt"
)

const (
	lineStep    = 32
	defaultTabs = 8
)

// line is a single line of the file: the raw bytes plus their rendering with
// tabs expanded. Every mutation marks the rendering stale and render rebuilds
// it on the next read, so callers may batch edits freely.
type line struct {
	chars    vec[byte]
	rendered []byte
	stale    bool
	tabWidth int
}

func newline(tabWidth int, content ...byte) *line {
	if tabWidth < 1 {
		tabWidth = defaultTabs
	}
	l := &line{chars: newVec[byte](lineStep), tabWidth: tabWidth, stale: true}
	l.chars.push(content...)
	return l
}

func (l *line) String() string {
	return string(l.chars.items())
}

func (l *line) width() int {
	return l.chars.len()
}

func (l *line) bytes() []byte {
	return l.chars.items()
}

func (l *line) insert(at int, b byte) error {
	if at < 0 || at > l.width() {
		return fmt.Errorf("insert at %d in line of %d: %w", at, l.width(), errOutOfRange)
	}
	l.chars.insert(at, b)
	l.stale = true
	return nil
}

func (l *line) deleteChar(at int) error {
	if at < 0 || at >= l.width() {
		return fmt.Errorf("delete at %d in line of %d: %w", at, l.width(), errOutOfRange)
	}
	l.chars.remove(at)
	l.stale = true
	return nil
}

// extend appends other's content.
func (l *line) extend(other *line) {
	l.chars.push(other.bytes()...)
	l.stale = true
}

// split cuts the line at pos, keeps [0,pos) and returns [pos,width) as a new line.
func (l *line) split(pos int) (*line, error) {
	if pos < 0 || pos > l.width() {
		return nil, fmt.Errorf("split at %d in line of %d: %w", pos, l.width(), errOutOfRange)
	}
	tail := newline(l.tabWidth, l.bytes()[pos:]...)
	l.chars.truncate(pos)
	l.stale = true
	return tail, nil
}

// render rebuilds the tab-expanded form if the content changed since the last call.
func (l *line) render() []byte {
	if !l.stale {
		return l.rendered
	}

	out := l.rendered[:0]
	for _, c := range l.bytes() {
		if c != '\t' {
			out = append(out, c)
			continue
		}
		out = append(out, ' ')
		for len(out)%l.tabWidth != 0 {
			out = append(out, ' ')
		}
	}

	l.rendered = out
	l.stale = false
	return l.rendered
}
