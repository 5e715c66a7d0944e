package capture_test

import (
	"context"
	"errors"
	"io"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardlink/internal/capture"
)

func TestLineScanner_SkipsBlankLines(t *testing.T) {
	sc := capture.NewLineScanner(strings.NewReader("\n  ABC123  \n\n123456\n"))
	ctx := context.Background()

	got, err := sc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ABC123", got)

	got, err = sc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456", got)

	_, err = sc.Scan(ctx)
	assert.ErrorIs(t, err, io.EOF)

	_, err = sc.Scan(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineScanner_CloseStopsReader(t *testing.T) {
	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		sc := capture.NewLineScanner(strings.NewReader("ABC123\n482913\nextra\n"))
		got, err := sc.Scan(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ABC123", got)
		require.NoError(t, sc.Close())

		_, err = sc.Scan(context.Background())
		assert.ErrorIs(t, err, io.EOF)
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
}

func TestLineScanner_HonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	sc := capture.NewLineScanner(r)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sc.Scan(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAcquire_RoutesCallbacks(t *testing.T) {
	ctx := context.Background()

	var decoded string
	var failed error
	onSuccess := func(_ context.Context, s string) error { decoded = s; return nil }
	onFailure := func(err error) { failed = err }

	require.NoError(t, capture.Acquire(ctx, capture.Static("ABC123"), onSuccess, onFailure))
	assert.Equal(t, "ABC123", decoded)
	assert.NoError(t, failed)

	err := capture.Acquire(ctx, capture.Static(""), onSuccess, onFailure)
	require.Error(t, err)
	assert.Equal(t, err, failed)
}

func TestAcquire_PropagatesHandlerError(t *testing.T) {
	want := errors.New("link failed")
	err := capture.Acquire(context.Background(), capture.Static("ABC123"),
		func(context.Context, string) error { return want },
		func(error) { t.Fatal("failure callback must not run") },
	)
	assert.Equal(t, want, err)
}
