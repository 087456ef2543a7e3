package backend

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/go-cmd/cmd"
	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
)

// maxLineSize bounds one reply line; package lists can be large.
const maxLineSize = 4 << 20

// Transport carries newline-delimited messages to and from the worker.
type Transport interface {
	Send(line []byte) error
	// Lines yields incoming lines and is closed when the worker goes away.
	Lines() <-chan string
	Close() error
}

// StreamTransport runs the protocol over a reader/writer pair.
type StreamTransport struct {
	w     io.WriteCloser
	lines chan string
	mu    sync.Mutex
	once  sync.Once
}

// NewStreamTransport starts reading lines from r.
func NewStreamTransport(r io.Reader, w io.WriteCloser) *StreamTransport {
	t := &StreamTransport{w: w, lines: make(chan string, 16)}
	go func() {
		defer close(t.lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), maxLineSize)
		for sc.Scan() {
			t.lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			logger.Warnf("worker stream: %v", err)
		}
	}()
	return t
}

func (t *StreamTransport) Send(line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(append(line, '\n')); err != nil {
		return errors.Wrap(errors.ErrWorkerUnavailable, err.Error())
	}
	return nil
}

func (t *StreamTransport) Lines() <-chan string { return t.lines }

func (t *StreamTransport) Close() error {
	var err error
	t.once.Do(func() { err = t.w.Close() })
	return err
}

// ProcessTransport runs the worker as a child process and speaks to it over
// its stdin and stdout. Stderr is forwarded to the debug log.
type ProcessTransport struct {
	c      *cmd.Cmd
	stdin  *os.File
	status <-chan cmd.Status
	mu     sync.Mutex
	once   sync.Once
}

// StartProcess launches the worker command.
func StartProcess(ctx context.Context, name string, args ...string) (*ProcessTransport, error) {
	if name == "" {
		return nil, errors.Wrap(errors.ErrWorkerUnavailable, "no worker command configured")
	}
	// an *os.File stdin is handed to the child directly, so exec does not
	// keep a copy goroutine alive after the worker exits
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrWorkerUnavailable, err.Error())
	}
	c := cmd.NewCmdOptions(cmd.Options{
		Buffered:       false,
		Streaming:      true,
		LineBufferSize: maxLineSize,
	}, name, args...)

	t := &ProcessTransport{c: c, stdin: pw}
	t.status = c.StartWithStdin(pr)

	go func() {
		for line := range c.Stderr {
			logger.Debugf("worker: %s", line)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = t.Close()
		case st := <-t.status:
			if st.Error != nil {
				logger.Errorf("worker %s exited: %v", name, st.Error)
			} else {
				logger.Debugf("worker %s exited with %d", name, st.Exit)
			}
			_ = pw.Close()
		}
		_ = pr.Close()
	}()
	return t, nil
}

func (t *ProcessTransport) Send(line []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.stdin.Write(append(line, '\n')); err != nil {
		return errors.Wrap(errors.ErrWorkerUnavailable, err.Error())
	}
	return nil
}

func (t *ProcessTransport) Lines() <-chan string { return t.c.Stdout }

func (t *ProcessTransport) Close() error {
	t.once.Do(func() {
		_ = t.stdin.Close()
		_ = t.c.Stop()
	})
	return nil
}
