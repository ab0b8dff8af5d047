package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// terminal is everything the editor needs from the outside world. Reads time
// out after a short while so that the main loop gets to poll for resizes;
// a timeout is reported as (0, nil) or (0, io.EOF). Each call to Write
// carries a whole frame.
type terminal interface {
	io.ReadWriter
	// init switches to raw mode and returns a function restoring the
	// original settings.
	init() (func(), error)
	windowsize() (rows, cols int, err error)
}

type tty struct {
	in  *os.File
	out *os.File
}

func newTTY(in, out *os.File) *tty {
	return &tty{in: in, out: out}
}

func (t *tty) init() (func(), error) {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("standard input is not a terminal")
	}

	orig, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}

	conf := *orig

	// see https://github.com/antirez/kilo/blob/master/kilo.c#L226-L239
	conf.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	conf.Oflag &^= unix.OPOST
	conf.Cflag |= unix.CS8
	conf.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// return from read after 100ms even without input
	conf.Cc[unix.VMIN] = 0
	conf.Cc[unix.VTIME] = 1
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &conf); err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}

	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlSetTermios, orig)
	}, nil
}

func (t *tty) windowsize() (int, int, error) {
	cols, rows, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("get window size: %w", err)
	}
	return rows, cols, nil
}

func (t *tty) Read(p []byte) (int, error) {
	return t.in.Read(p)
}

func (t *tty) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// notifyResize delivers SIGWINCH into a channel with room for one pending
// notification. The channel is the only thing the signal touches; the main
// loop drains it and does the actual work.
func notifyResize() (<-chan os.Signal, func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, unix.SIGWINCH)
	return c, func() { signal.Stop(c) }
}
