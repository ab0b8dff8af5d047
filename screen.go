package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	statusColor  = color.New(color.FgBlack, color.BgWhite)
	insertColor  = color.New(color.FgBlack, color.BgGreen, color.Bold)
	messageColor = color.New(color.FgYellow, color.Bold)
	tildeColor   = color.New(color.FgBlue)
)

// frame collects the escape sequences and text of one redraw so that it can
// be flushed with a single write.
type frame struct {
	bytes.Buffer
}

func (f *frame) refresh() {
	f.WriteString("\x1b[2J")
}

func (f *frame) clearline() {
	f.WriteString("\x1b[K")
}

func (f *frame) movecursor(x, y int) {
	fmt.Fprintf(f, "\x1b[%d;%dH", y+1, x+1)
}

func (f *frame) hidecursor() {
	f.WriteString("\x1b[?25l")
}

func (f *frame) showcursor() {
	f.WriteString("\x1b[?25h")
}

// draw composes a full redraw: every visible row, the status row and the cursor.
func (e *editor) draw(clear bool) *frame {
	f := &frame{}
	f.hidecursor()
	if clear {
		f.refresh()
	}
	f.movecursor(0, 0)

	v := e.view
	for y := range v.rows {
		idx := v.offset.row + y
		switch {
		case idx >= e.buf.count():
			f.WriteString(tildeColor.Sprint("~"))

		default:
			r := e.buf.line(idx).render()
			start := 0
			if idx == v.currentLineIndex() {
				start = min(v.offset.col, len(r))
			}
			f.Write(r[start:min(len(r), start+v.cols)])
		}
		f.clearline()
		f.WriteString("\r\n")
	}

	e.drawStatus(f)

	f.movecursor(v.cursor.col, v.cursor.row)
	f.showcursor()
	return f
}

// drawStatus writes the bottom row: mode, file name and modification flag on
// the left, the cursor position on the right, a pending message in between.
func (e *editor) drawStatus(f *frame) {
	cols := e.view.cols

	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	left := fmt.Sprintf(" %s %s", e.mode, name)
	if e.dirty {
		left += " [+]"
	}
	if e.count != countUnset {
		left += fmt.Sprintf(" %d", e.count)
	}
	right := fmt.Sprintf("%d/%d:%d ", e.view.currentLineIndex()+1, e.buf.count(), e.view.rawcol+1)

	msg := ""
	if e.messageVisible() {
		msg = "  " + e.message
	}

	left = truncate(left, cols)
	msg = truncate(msg, cols-len(left))
	pad := cols - len(left) - len(msg) - len(right)
	if pad < 0 {
		right = ""
		pad = cols - len(left) - len(msg)
	}

	c := statusColor
	if e.mode == insert {
		c = insertColor
	}
	f.WriteString(c.Sprint(left))
	f.WriteString(messageColor.Sprint(msg))
	f.WriteString(statusColor.Sprint(strings.Repeat(" ", pad) + right))
	f.clearline()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
