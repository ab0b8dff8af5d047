package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidetatz/turtle/ted/internal/config"
)

/*
 * test
 */

const gopher = `package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

func main() {
	scanner := bufio.NewScanner(strings.NewReader("gopher"))
	for scanner.Scan() {
		fmt.Println(len(scanner.Bytes()) == 6)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "shouldn't see an error scanning a string")
	}
}`

func Test_editor(t *testing.T) {
	term := newvirtterm(8, 10)
	e, path := newTestEditor(t, term, gopher)

	term.input("j", "j", "j", "\x11")
	require.NoError(t, e.run())

	assert.True(t, e.quit)
	assert.Equal(t, 0, term.curX)
	assert.Equal(t, 3, term.curY)
	assert.Contains(t, term.lastFrame(), "import (")

	// nothing was changed, so nothing was written
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, gopher, string(data))
}

func Test_editor_editAndSave(t *testing.T) {
	term := newvirtterm(8, 40)
	e, path := newTestEditor(t, term, "world\n")

	term.input("ihello ", "\x1b", "\x13", "\x11")
	require.NoError(t, e.run())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
	assert.False(t, e.dirty)
}

func Test_editor_arrowKeys(t *testing.T) {
	term := newvirtterm(8, 40)
	e, _ := newTestEditor(t, term, gopher)

	// both sequences arrive in one chunk
	term.input("\x1b[B\x1b[B\x1b[C", "\x11")
	require.NoError(t, e.run())

	assert.Equal(t, 2, e.view.currentLineIndex())
	assert.Equal(t, 1, e.view.rawcol)
}

func Test_editor_resize(t *testing.T) {
	term := newvirtterm(8, 40)
	resized := make(chan os.Signal, 1)
	e, _ := newTestEditor(t, term, gopher)
	e.resized = resized

	e.view.move(down, 6)
	require.Equal(t, 6, e.view.cursor.row)

	term.onRead = func(n int) {
		if n == 1 {
			term.row = 4
			resized <- syscall.SIGWINCH
		}
	}
	term.input("l", "l", "\x11")
	require.NoError(t, e.run())

	assert.Equal(t, 3, e.view.rows)
	assert.Equal(t, 2, e.view.cursor.row)
	assert.Equal(t, 6, e.view.currentLineIndex())
	assert.Contains(t, term.frames[len(term.frames)-1], "\x1b[2J")
}

func Test_editor_readError(t *testing.T) {
	term := newvirtterm(8, 40)
	e, _ := newTestEditor(t, term, gopher)
	term.err = io.ErrClosedPipe

	err := e.run()
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func Test_rootCmd_args(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{"a.txt", "b.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, out.String(), "Usage:")
		})
	}
}

/*
 * test utilities
 */

func newTestEditor(t *testing.T, term *virtterm, content string) (*editor, string) {
	t.Helper()

	cfg := config.Default()
	cfg.SpareDir = t.TempDir()

	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	e, err := newEditor(term, cfg, nil)
	require.NoError(t, err)
	e.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	require.NoError(t, e.open(path))
	return e, path
}

// virtual terminal on memory
type virtterm struct {
	row, col   int
	curX, curY int

	script []string
	reads  int
	onRead func(n int)
	err    error

	frames []string
}

func newvirtterm(row, col int) *virtterm {
	return &virtterm{row: row, col: col}
}

func (t *virtterm) init() (func(), error) {
	if t.row == 0 || t.col == 0 {
		panic("row, col must be set before init")
	}
	return func() {}, nil
}

func (t *virtterm) windowsize() (int, int, error) {
	return t.row, t.col, nil
}

// input queues chunks, each returned by one Read.
func (t *virtterm) input(chunks ...string) {
	t.script = append(t.script, chunks...)
}

func (t *virtterm) Read(p []byte) (int, error) {
	t.reads++
	if t.onRead != nil {
		t.onRead(t.reads)
	}
	if t.err != nil {
		return 0, t.err
	}
	if len(t.script) == 0 {
		// behaves like a raw mode read timing out
		return 0, io.EOF
	}
	n := copy(p, t.script[0])
	t.script = t.script[1:]
	return n, nil
}

var cursorMove = regexp.MustCompile(`\x1b\[(\d+);(\d+)H`)

func (t *virtterm) Write(data []byte) (int, error) {
	t.frames = append(t.frames, string(data))
	moves := cursorMove.FindAllStringSubmatch(string(data), -1)
	if len(moves) > 0 {
		last := moves[len(moves)-1]
		y, _ := strconv.Atoi(last[1])
		x, _ := strconv.Atoi(last[2])
		t.curX, t.curY = x-1, y-1
	}
	return len(data), nil
}

func (t *virtterm) lastFrame() string {
	if len(t.frames) == 0 {
		return ""
	}
	return t.frames[len(t.frames)-1]
}
