package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const bufferStep = 64

var (
	errOutOfRange = errors.New("position out of range")
	errLastLine   = errors.New("cannot delete the only line")
)

// buffer is the whole file as an ordered list of lines. It never holds fewer
// than one line.
type buffer struct {
	lines    vec[*line]
	tabWidth int
}

func newBuffer(tabWidth int) *buffer {
	b := &buffer{lines: newVec[*line](bufferStep), tabWidth: tabWidth}
	b.lines.push(newline(tabWidth))
	return b
}

func (b *buffer) count() int {
	return b.lines.len()
}

func (b *buffer) line(i int) *line {
	return b.lines.at(i)
}

func (b *buffer) insertLine(at int, l *line) error {
	if at < 0 || at > b.count() {
		return fmt.Errorf("insert line %d of %d: %w", at, b.count(), errOutOfRange)
	}
	b.lines.insert(at, l)
	return nil
}

func (b *buffer) deleteLine(at int) error {
	if at < 0 || at >= b.count() {
		return fmt.Errorf("delete line %d of %d: %w", at, b.count(), errOutOfRange)
	}
	if b.count() == 1 {
		return errLastLine
	}
	b.lines.remove(at)
	return nil
}

// absorbNext appends line at+1 to line at and removes it.
func (b *buffer) absorbNext(at int) error {
	if at < 0 || at+1 >= b.count() {
		return fmt.Errorf("join line %d of %d: %w", at, b.count(), errOutOfRange)
	}
	b.line(at).extend(b.line(at + 1))
	b.lines.remove(at + 1)
	return nil
}

// breakAt splits line at on pos and inserts the tail right below it.
func (b *buffer) breakAt(at, pos int) error {
	if at < 0 || at >= b.count() {
		return fmt.Errorf("break line %d of %d: %w", at, b.count(), errOutOfRange)
	}
	tail, err := b.line(at).split(pos)
	if err != nil {
		return err
	}
	b.lines.insert(at+1, tail)
	return nil
}

// readFrom replaces the content with r split on '\n'. A last line without a
// trailing newline is kept as is.
func (b *buffer) readFrom(r io.Reader) (int64, error) {
	lines := newVec[*line](bufferStep)
	reader := bufio.NewReader(r)
	var n int64
	for {
		chunk, err := reader.ReadBytes('\n')
		n += int64(len(chunk))
		if len(chunk) > 0 {
			lines.push(newline(b.tabWidth, bytes.TrimSuffix(chunk, []byte{'\n'})...))
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return n, fmt.Errorf("read lines: %w", err)
		}
	}

	if lines.len() == 0 {
		lines.push(newline(b.tabWidth))
	}

	b.lines = lines
	return n, nil
}

// writeTo writes every line followed by '\n', including the last one.
func (b *buffer) writeTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, l := range b.lines.items() {
		m, err := bw.Write(l.bytes())
		n += int64(m)
		if err != nil {
			return n, fmt.Errorf("write line: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, fmt.Errorf("write line: %w", err)
		}
		n++
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush lines: %w", err)
	}
	return n, nil
}
