package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hidetatz/turtle/ted/internal/config"
	"github.com/hidetatz/turtle/ted/internal/logger"
)

type mode int

const (
	normal mode = iota + 1
	insert
)

func (m mode) String() string {
	switch m {
	case normal:
		return "NORMAL"
	case insert:
		return "INSERT"
	default:
		return "UNKNOWN"
	}
}

const (
	// countUnset marks "no repeat count typed", which differs from a typed 0.
	countUnset = -1
	maxCount   = math.MaxInt32

	spareTimeLayout = "01-02_15-04-05"
)

type editor struct {
	term terminal
	cfg  *config.Config

	mode     mode
	buf      *buffer
	view     *view
	filename string
	dirty    bool

	// quit requests left before a quit goes through; 1 while the buffer is clean.
	quitLeft int
	quit     bool

	count int

	message   string
	messageAt time.Time

	resized  <-chan os.Signal
	repaint  bool
	statusOn bool

	now func() time.Time
}

func newEditor(t terminal, cfg *config.Config, resized <-chan os.Signal) (*editor, error) {
	rows, cols, err := t.windowsize()
	if err != nil {
		return nil, err
	}

	buf := newBuffer(cfg.TabWidth)
	return &editor{
		term:     t,
		cfg:      cfg,
		mode:     normal, // normal mode on startup
		buf:      buf,
		view:     newView(buf, rows-1, cols),
		quitLeft: 1,
		count:    countUnset,
		resized:  resized,
		repaint:  true,
		now:      time.Now,
	}, nil
}

// open loads filename. A missing file gives an empty buffer that is created
// on the first save.
func (e *editor) open(filename string) error {
	e.filename = filename

	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("new file", "path", filename)
		e.setMessage("%q [New]", filename)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	n, err := e.buf.readFrom(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	e.view.sync()
	logger.Info("file opened", "path", filename, "lines", e.buf.count(), "bytes", n)
	e.setMessage("%q %dL, %s", filename, e.buf.count(), humanize.Bytes(uint64(n)))
	return nil
}

func (e *editor) setMessage(format string, a ...any) {
	e.message = fmt.Sprintf(format, a...)
	e.messageAt = e.now()
}

func (e *editor) messageVisible() bool {
	return e.message != "" && e.now().Sub(e.messageAt) < e.cfg.MessageTimeout
}

func (e *editor) markDirty() {
	if !e.dirty {
		e.dirty = true
		e.quitLeft = e.cfg.QuitTimes
	}
}

/*
 * repeat count
 */

func (e *editor) pushDigit(d int) {
	if e.count == countUnset {
		e.count = d
		return
	}

	if e.count > (maxCount-d)/10 {
		// too large to be meant, forget it
		e.count = countUnset
		return
	}

	e.count = e.count*10 + d
}

// takeCount consumes the pending count, defaulting to 1.
func (e *editor) takeCount() int {
	n := e.count
	e.count = countUnset
	if n == countUnset {
		return 1
	}
	return n
}

/*
 * key dispatch
 */

type handler func(e *editor, n int)

func moveBy(d direction) handler {
	return func(e *editor, n int) {
		if !e.view.move(d, n) {
			logger.Debug("motion blocked", "direction", d.String(), "count", n)
		}
	}
}

// shared holds the keys that act the same in both modes.
var shared = map[key]handler{
	keyArrowLeft:  moveBy(left),
	keyArrowRight: moveBy(right),
	keyArrowUp:    moveBy(up),
	keyArrowDown:  moveBy(down),
	keyHome:       moveBy(lineStart),
	keyEnd:        moveBy(lineEnd),
	keyPageUp:     moveBy(pageUp),
	keyPageDown:   moveBy(pageDown),
	ctrl('s'):     func(e *editor, _ int) { e.save() },
	ctrl('q'):     func(e *editor, _ int) { e.requestQuit() },
	ctrl('l'):     func(e *editor, _ int) { e.repaint = true },
}

var normalKeys = map[key]handler{
	'h':       moveBy(left),
	'j':       moveBy(down),
	'k':       moveBy(up),
	'l':       moveBy(right),
	'w':       moveBy(wordNext),
	'b':       moveBy(wordPrev),
	'^':       moveBy(lineStart),
	'$':       moveBy(lineEnd),
	'g':       moveBy(fileStart),
	'G':       moveBy(fileEnd),
	ctrl('b'): moveBy(pageUp),
	ctrl('f'): moveBy(pageDown),
	'i':       insertAfter(nil),
	'a':       insertAfter(moveBy(right)),
	'A':       insertAfter(moveBy(lineEnd)),
	'I':       insertAfter(moveBy(lineStart)),
	'o':       (*editor).openBelow,
	'O':       (*editor).openAbove,
	'x':       (*editor).deleteUnder,
	keyDelete: (*editor).deleteUnder,
	'd':       (*editor).deleteLines,
	'J':       (*editor).joinLines,
	keyEsc:    func(*editor, int) {},
}

// insertAfter switches to insert mode once the motion, if any, is done.
// The motion always moves once, whatever count was typed.
func insertAfter(motion handler) handler {
	return func(e *editor, _ int) {
		if motion != nil {
			motion(e, 1)
		}
		e.mode = insert
	}
}

func (e *editor) process(k key) {
	switch e.mode {
	case normal:
		e.processNormal(k)
	case insert:
		e.processInsert(k)
	default:
		panic("unknown mode")
	}
}

func (e *editor) processNormal(k key) {
	if isDigit(k) {
		e.pushDigit(int(k - '0'))
		return
	}

	n := e.takeCount()
	if h, ok := normalKeys[k]; ok {
		h(e, n)
		return
	}
	if h, ok := shared[k]; ok {
		h(e, n)
		return
	}
	logger.Debug("key dropped", "mode", e.mode, "key", int(k))
}

func (e *editor) processInsert(k key) {
	switch {
	case k == keyEsc:
		e.mode = normal

	case k == keyEnter:
		e.insertNewline()

	case k == keyBackspace || k == ctrl('h'):
		e.backspace()

	case k == keyDelete:
		e.deleteForward()

	case k == keyTab || isPrintable(k):
		e.insertChar(byte(k))

	default:
		if h, ok := shared[k]; ok {
			h(e, 1)
			return
		}
		logger.Debug("key dropped", "mode", e.mode, "key", int(k))
	}
}

/*
 * editing
 */

// guard reports a rejected operation in the status row.
func (e *editor) guard(err error) {
	logger.Debug("operation rejected", "error", err)
	switch {
	case errors.Is(err, errLastLine):
		e.setMessage("Cannot delete the only line")
	default:
		e.setMessage("Invalid position: %v", err)
	}
}

func (e *editor) insertChar(c byte) {
	v := e.view
	if err := v.currentLine().insert(v.rawcol, c); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	v.move(right, 1)
}

func (e *editor) insertNewline() {
	v := e.view
	if err := e.buf.breakAt(v.currentLineIndex(), v.rawcol); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	v.move(down, 1)
	v.gotoCol(0)
}

func (e *editor) backspace() {
	v := e.view
	if v.rawcol > 0 {
		if err := v.currentLine().deleteChar(v.rawcol - 1); err != nil {
			e.guard(err)
			return
		}
		e.markDirty()
		v.move(left, 1)
		return
	}

	idx := v.currentLineIndex()
	if idx == 0 {
		return
	}
	prev := e.buf.line(idx - 1).width()
	if err := e.buf.absorbNext(idx - 1); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	v.move(up, 1)
	v.gotoCol(prev)
}

func (e *editor) deleteForward() {
	v := e.view
	if v.rawcol < v.currentLine().width() {
		if err := v.currentLine().deleteChar(v.rawcol); err != nil {
			e.guard(err)
			return
		}
		e.markDirty()
		v.scrollX()
		return
	}

	if v.currentLineIndex() == e.buf.count()-1 {
		return
	}
	if err := e.buf.absorbNext(v.currentLineIndex()); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	v.scrollX()
}

func (e *editor) openBelow(_ int) {
	v := e.view
	if err := e.buf.insertLine(v.currentLineIndex()+1, newline(e.buf.tabWidth)); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	v.move(down, 1)
	v.gotoCol(0)
	e.mode = insert
}

func (e *editor) openAbove(_ int) {
	v := e.view
	if err := e.buf.insertLine(v.currentLineIndex(), newline(e.buf.tabWidth)); err != nil {
		e.guard(err)
		return
	}
	e.markDirty()
	// the cursor row now shows the new line
	v.gotoCol(0)
	e.mode = insert
}

func (e *editor) deleteUnder(n int) {
	v := e.view
	for range n {
		if v.rawcol >= v.currentLine().width() {
			break
		}
		if err := v.currentLine().deleteChar(v.rawcol); err != nil {
			e.guard(err)
			break
		}
		e.markDirty()
	}
	v.sync()
}

func (e *editor) deleteLines(n int) {
	v := e.view
	for range n {
		if err := e.buf.deleteLine(v.currentLineIndex()); err != nil {
			e.guard(err)
			break
		}
		e.markDirty()
		v.sync()
	}
	v.gotoCol(0)
}

func (e *editor) joinLines(n int) {
	v := e.view
	for range n {
		if v.currentLineIndex() == e.buf.count()-1 {
			break
		}
		if err := e.buf.absorbNext(v.currentLineIndex()); err != nil {
			e.guard(err)
			break
		}
		e.markDirty()
	}
	v.sync()
}

/*
 * save & quit
 */

func (e *editor) requestQuit() {
	e.quitLeft--
	if e.quitLeft <= 0 {
		e.quit = true
		return
	}
	e.setMessage("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitLeft)
}

func (e *editor) writeFile(path string) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, err
	}

	n, err := e.buf.writeTo(f)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// sparePath is where the buffer goes when the original path cannot be written.
func (e *editor) sparePath() string {
	name := fmt.Sprintf("%s_%s", filepath.Base(e.filename), e.now().Format(spareTimeLayout))
	return filepath.Join(e.cfg.SpareDir, name)
}

func (e *editor) saved() {
	e.dirty = false
	e.quitLeft = 1
}

// save writes the buffer to its file, falling back to the spare directory.
// Failures never stop the editor; the buffer just stays modified.
func (e *editor) save() {
	n, err := e.writeFile(e.filename)
	if err == nil {
		e.saved()
		logger.Info("file saved", "path", e.filename, "bytes", n)
		e.setMessage("%q %dL, %s written", e.filename, e.buf.count(), humanize.Bytes(uint64(n)))
		return
	}
	logger.Warn("save failed", "path", e.filename, "error", err)

	spare := e.sparePath()
	n, spareErr := e.writeFile(spare)
	if spareErr != nil {
		logger.Error("spare save failed", "path", spare, "error", spareErr)
		e.setMessage("Can't save! I/O error: %v", err)
		return
	}

	e.saved()
	logger.Info("file saved to spare path", "path", spare, "bytes", n)
	e.setMessage("Can't write %q, saved to %s", e.filename, spare)
}

/*
 * main loop
 */

func (e *editor) handleResize() {
	rows, cols, err := e.term.windowsize()
	if err != nil {
		logger.Warn("resize ignored", "error", err)
		return
	}
	logger.Debug("window resized", "rows", rows, "cols", cols)
	e.view.resize(rows-1, cols)
	e.repaint = true
}

// flush sends one frame to the terminal.
func (e *editor) flush() error {
	f := e.draw(e.repaint)
	e.repaint = false
	e.statusOn = e.messageVisible()
	if _, err := e.term.Write(f.Bytes()); err != nil {
		return fmt.Errorf("flush screen: %w", err)
	}
	return nil
}

// run processes keys until the user quits. The key read times out regularly,
// which is when pending resizes and expired messages are taken care of.
func (e *editor) run() error {
	if err := e.flush(); err != nil {
		return err
	}

	chunk := make([]byte, 64)
	for !e.quit {
		changed := false
		select {
		case <-e.resized:
			e.handleResize()
			changed = true
		default:
		}

		n, err := e.term.Read(chunk)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read key: %w", err)
		}

		for _, k := range decodeKeys(chunk[:n]) {
			e.process(k)
			changed = true
			if e.quit {
				break
			}
		}

		if e.statusOn && !e.messageVisible() {
			changed = true
		}

		if changed && !e.quit {
			if err := e.flush(); err != nil {
				return err
			}
		}
	}

	return nil
}
