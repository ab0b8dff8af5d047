package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hidetatz/turtle/ted/internal/config"
	"github.com/hidetatz/turtle/ted/internal/logger"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ted <file>",
		Short: "A small modal text editor for the terminal",
		Long: `ted opens a single file for editing with vi-like NORMAL and INSERT modes.

  i / Esc      enter / leave INSERT mode
  h j k l      move (prefix with a count, e.g. 12j)
  w b ^ $ g G  word, line and file motions
  x d J o O    delete char, delete line, join, open line
  Ctrl-S       save
  Ctrl-Q       quit`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// arguments are fine from here on, failures are not usage errors
			cmd.SilenceUsage = true
			return edit(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default ~/.config/ted/config.yaml)")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	cmd.Flags().Int("tab-width", 8, "tab stop width")
	cmd.Flags().Int("quit-times", 3, "quit requests needed to abandon unsaved changes")
	cmd.Flags().String("spare-dir", os.TempDir(), "directory for saves that fail on the original path")
	cmd.Flags().String("log-file", "", "log file path (default ~/.config/ted/ted.log)")

	return cmd
}

func edit(cmd *cobra.Command, filename string) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logLevel := logger.LevelInfo
	if cfg.Debug {
		logLevel = logger.LevelDebug
	}
	logger.InitLogger(logLevel, cfg.LogFile)
	defer logger.Close()

	t := newTTY(os.Stdin, os.Stdout)
	restore, err := t.init()
	if err != nil {
		return err
	}

	// restore termios original setting at exit
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[2J\x1b[H")
		restore()
	}()

	resized, stop := notifyResize()
	defer stop()

	e, err := newEditor(t, cfg, resized)
	if err != nil {
		logger.Error("editor setup failed", "error", err)
		return err
	}

	if err := e.open(filename); err != nil {
		logger.Error("open failed", "path", filename, "error", err)
		return err
	}

	if err := e.run(); err != nil {
		logger.Error("editor aborted", "error", err)
		return err
	}

	logger.Info("editor exited", "path", filename, "dirty", e.dirty)
	return nil
}
