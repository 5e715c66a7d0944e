// Package capture adapts external event sources (a QR/barcode reader, an
// SMS relay) to the callbacks the linking and verification services expose.
//
// Decoding itself happens outside the process: keyboard-wedge scanners and
// SMS forwarders both deliver plain text lines, so a Scanner only has to
// produce the next decoded string or report why it could not.
package capture

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Scanner yields one decoded value per call.
type Scanner interface {
	Scan(ctx context.Context) (string, error)
}

// Acquire reads one value from sc and hands it to onSuccess, or hands the
// acquisition error to onFailure. It returns whichever error occurred.
func Acquire(
	ctx context.Context,
	sc Scanner,
	onSuccess func(ctx context.Context, decoded string) error,
	onFailure func(err error),
) error {
	text, err := sc.Scan(ctx)
	if err != nil {
		onFailure(err)
		return err
	}
	return onSuccess(ctx, text)
}

// Static always yields the same value; an empty value is an acquisition failure.
type Static string

func (s Static) Scan(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", errors.New("capture: no value supplied")
	}
	return string(s), nil
}

type lineResult struct {
	text string
	err  error
}

// LineScanner yields the non-blank lines of r, trimmed. The reader is
// consumed by a background goroutine started on first use, so Scan honours
// ctx even while the underlying read blocks. Close stops the goroutine once
// its current read returns.
type LineScanner struct {
	r     io.Reader
	once  sync.Once
	lines chan lineResult

	stopOnce sync.Once
	stop     chan struct{}
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{r: r, lines: make(chan lineResult), stop: make(chan struct{})}
}

// Close releases the scanner. Later calls to Scan return io.EOF.
func (s *LineScanner) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Scan returns the next non-blank line. It returns io.EOF once r is drained.
func (s *LineScanner) Scan(ctx context.Context) (string, error) {
	select {
	case <-s.stop:
		return "", io.EOF
	default:
	}
	s.once.Do(func() { go s.pump() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.stop:
		return "", io.EOF
	case res, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

func (s *LineScanner) pump() {
	defer close(s.lines)
	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !s.send(lineResult{text: line}) {
			return
		}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	s.send(lineResult{err: errors.Wrap(err, "capture: read")})
}

// send hands res to Scan, or reports false once the scanner is closed.
func (s *LineScanner) send(res lineResult) bool {
	select {
	case s.lines <- res:
		return true
	case <-s.stop:
		return false
	}
}
