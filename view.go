package main

// cursorpos is a (row, col) pair; for the cursor it is relative to the top
// left of the text window.
type cursorpos struct {
	row, col int
}

// view maps the buffer onto the window. The raw column of the cursor is
// authoritative; the screen column is always derived through expand.
type view struct {
	buf *buffer

	// text area size, the status and message rows excluded.
	rows, cols int

	cursor cursorpos
	// offset.row is the first visible line, offset.col the first visible
	// rendered column of the cursor's line.
	offset cursorpos
	rawcol int
}

func newView(buf *buffer, rows, cols int) *view {
	return &view{buf: buf, rows: max(rows, 1), cols: max(cols, 1)}
}

// expand returns the rendered width of s[:col].
func expand(s []byte, col, tabWidth int) int {
	w := 0
	for i := 0; i < col && i < len(s); i++ {
		if s[i] == '\t' {
			w += tabWidth - w%tabWidth
			continue
		}
		w++
	}
	return w
}

func (v *view) currentLineIndex() int {
	return v.offset.row + v.cursor.row
}

func (v *view) currentLine() *line {
	return v.buf.line(v.currentLineIndex())
}

// renderedCol is the cursor's column in the rendered line.
func (v *view) renderedCol() int {
	return expand(v.currentLine().bytes(), v.rawcol, v.buf.tabWidth)
}

// scrollX keeps the cursor inside the window horizontally. Overflow past
// either edge moves the pan by exactly the overflow.
func (v *view) scrollX() {
	rx := v.renderedCol()
	if rx < v.offset.col {
		v.offset.col = rx
	}
	if rx-v.offset.col >= v.cols {
		v.offset.col = rx - v.cols + 1
	}
	v.cursor.col = rx - v.offset.col
}

// repan recomputes the pan from scratch for a freshly entered line.
func (v *view) repan() {
	v.offset.col = 0
	v.scrollX()
}

func (v *view) clampCol() {
	v.rawcol = min(v.rawcol, v.currentLine().width())
}

type direction int

const (
	up direction = iota + 1
	down
	left
	right
	wordNext
	wordPrev
	lineStart
	lineEnd
	fileStart
	fileEnd
	pageUp
	pageDown
)

var directionNames = map[direction]string{
	up:        "up",
	down:      "down",
	left:      "left",
	right:     "right",
	wordNext:  "word-next",
	wordPrev:  "word-prev",
	lineStart: "line-start",
	lineEnd:   "line-end",
	fileStart: "file-start",
	fileEnd:   "file-end",
	pageUp:    "page-up",
	pageDown:  "page-down",
}

func (d direction) String() string {
	return directionNames[d]
}

// move applies n single steps in the given direction and stops early at an
// edge. It reports whether the cursor moved at all.
func (v *view) move(d direction, n int) bool {
	moved := false
	for range n {
		if !v.step(d) {
			break
		}
		moved = true
	}
	return moved
}

func (v *view) step(d direction) bool {
	switch d {
	case up:
		if v.currentLineIndex() == 0 {
			return false
		}
		if v.cursor.row == 0 {
			// the cursor stays on the top row, the content scrolls
			v.offset.row--
		} else {
			v.cursor.row--
		}
		v.clampCol()
		v.repan()
		return true

	case down:
		if v.currentLineIndex() == v.buf.count()-1 {
			return false
		}
		if v.cursor.row == v.rows-1 {
			v.offset.row++
		} else {
			v.cursor.row++
		}
		v.clampCol()
		v.repan()
		return true

	case left:
		if v.rawcol == 0 {
			return false
		}
		v.rawcol--
		v.scrollX()
		return true

	case right:
		if v.rawcol >= v.currentLine().width() {
			return false
		}
		v.rawcol++
		v.scrollX()
		return true

	case wordNext:
		l := v.currentLine()
		if v.rawcol >= l.width() {
			return false
		}
		v.rawcol += nextWord(l.bytes()[v.rawcol:], l.width()-v.rawcol)
		v.scrollX()
		return true

	case wordPrev:
		if v.rawcol == 0 {
			return false
		}
		v.rawcol = prevWord(v.currentLine().bytes(), v.rawcol)
		v.scrollX()
		return true

	case lineStart:
		if v.rawcol == 0 {
			return false
		}
		v.rawcol = 0
		v.scrollX()
		return true

	case lineEnd:
		if v.rawcol == v.currentLine().width() {
			return false
		}
		v.rawcol = v.currentLine().width()
		v.scrollX()
		return true

	case fileStart:
		if v.currentLineIndex() == 0 {
			return false
		}
		v.gotoLine(0)
		return true

	case fileEnd:
		if v.currentLineIndex() == v.buf.count()-1 {
			return false
		}
		v.gotoLine(v.buf.count() - 1)
		return true

	case pageUp:
		return v.move(up, v.rows)

	case pageDown:
		return v.move(down, v.rows)

	default:
		panic("invalid direction is passed")
	}
}

// gotoLine puts the cursor on line idx, scrolling only as much as needed.
func (v *view) gotoLine(idx int) {
	idx = max(0, min(idx, v.buf.count()-1))
	switch {
	case idx < v.offset.row:
		v.offset.row = idx
	case idx >= v.offset.row+v.rows:
		v.offset.row = idx - v.rows + 1
	}
	v.cursor.row = idx - v.offset.row
	v.clampCol()
	v.repan()
}

// gotoCol puts the cursor on raw column col of the current line.
func (v *view) gotoCol(col int) {
	v.rawcol = max(0, min(col, v.currentLine().width()))
	v.scrollX()
}

// resize adopts a new text area size. The cursor keeps its line; when the
// window got shorter than the cursor row the content scrolls instead.
func (v *view) resize(rows, cols int) {
	v.rows = max(rows, 1)
	v.cols = max(cols, 1)

	if v.cursor.row > v.rows-1 {
		v.offset.row += v.cursor.row - (v.rows - 1)
		v.cursor.row = v.rows - 1
	}
	v.clampCol()
	v.repan()
}

// sync re-validates the cursor after the buffer changed underneath it.
func (v *view) sync() {
	last := v.buf.count() - 1
	if v.currentLineIndex() > last {
		v.gotoLine(last)
		return
	}
	v.clampCol()
	v.scrollX()
}
