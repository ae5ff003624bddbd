// Package tuitest drives a terminal program inside a PTY and records
// what it draws, so integration tests can script a reading session,
// rewrite the document on disk mid-run, and assert on the frames.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 10 * time.Second

	waitPollInterval = 25 * time.Millisecond
)

// Step is one scripted action against the running program. Fields are
// applied in order: wait Delay, run Do, block on WaitFor, write Input.
// Any subset may be set.
type Step struct {
	Delay   time.Duration
	Do      func() error
	WaitFor string
	Input   []byte
}

// Config configures how the harness spawns and drives the program.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run executes the configured command inside a PTY, replays the script,
// and captures every byte written to the terminal.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	width := cfg.Width
	if width <= 0 {
		width = defaultWidth
	}
	height := cfg.Height
	if height <= 0 {
		height = defaultHeight
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	allowedCodes := map[int]struct{}{0: {}}
	for _, code := range cfg.AllowedExitCodes {
		allowedCodes[code] = struct{}{}
	}

	winsize := &pty.Winsize{Rows: uint16(height), Cols: uint16(width)}
	ptmx, err := pty.StartWithSize(cmd, winsize)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	var screen screenLog
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newQueryResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				responder.Process(chunk)
				screen.Append(chunk)
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	for _, step := range cfg.Steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("tuitest: context cancelled before script finished: %w", ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.Do != nil {
			if err := step.Do(); err != nil {
				return nil, fmt.Errorf("tuitest: step action: %w", err)
			}
		}
		if step.WaitFor != "" {
			if err := waitForText(ctx, &screen, step.WaitFor); err != nil {
				return nil, err
			}
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	select {
	case err := <-waitErr:
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				if _, ok := allowedCodes[exitErr.ExitCode()]; ok {
					break
				}
			}
			if cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
				break
			}
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	// Closing the PTY lets the reader goroutine finish draining.
	_ = ptmx.Close()
	<-copyDone

	raw := screen.Bytes()
	return &Recording{
		Raw:      raw,
		Frames:   parseFrames(raw),
		Duration: time.Since(start),
	}, nil
}

// waitForText polls the captured stream until the wanted text shows up.
// Escape sequences are stripped before matching, so tests can wait on
// what a reader would see.
func waitForText(ctx context.Context, screen *screenLog, text string) error {
	for {
		if screen.ContainsPlain(text) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("tuitest: timed out waiting for %q on screen: %w", text, ctx.Err())
		case <-time.After(waitPollInterval):
		}
	}
}

// screenLog accumulates the terminal stream. The PTY reader appends
// while script steps poll, so access goes through a lock.
type screenLog struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *screenLog) Append(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(chunk)
}

func (s *screenLog) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func (s *screenLog) ContainsPlain(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Contains(stripANSI(s.buf.String()), text)
}

func buildEnv(extra []string) []string {
	env := os.Environ()
	env = append(env, extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyEsc leaves the jump box or closes overlays.
	KeyEsc = []byte{27}
	// KeyRight and KeyLeft are the arrow navigation keys.
	KeyRight = []byte("\x1b[C")
	KeyLeft  = []byte("\x1b[D")
)

// Type returns a step that writes s with no delay.
func Type(s string) Step { return Step{Input: []byte(s)} }

// Press returns a step that sends one key.
func Press(key []byte) Step { return Step{Input: key} }

// Wait returns a step that pauses the script.
func Wait(d time.Duration) Step { return Step{Delay: d} }
