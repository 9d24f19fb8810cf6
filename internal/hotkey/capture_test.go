package hotkey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitAttached(t *testing.T, src *ChanSource) {
	t.Helper()
	require.Eventually(t, src.Attached, time.Second, time.Millisecond)
}

func TestCapture_FinalizesAndDetaches(t *testing.T) {
	src := NewChanSource()
	r := NewRecorder()

	result := make(chan string, 1)
	go func() {
		combo, err := r.Capture(context.Background(), src)
		assert.NoError(t, err)
		result <- combo
	}()

	waitAttached(t, src)
	src.Send(press("Alt", Modifiers{Option: true}))
	src.Send(press(" ", Modifiers{Option: true}))
	src.Send(release(" ", Modifiers{Option: true}))

	select {
	case combo := <-result:
		assert.Equal(t, "Option+Space", combo)
	case <-time.After(time.Second):
		t.Fatal("Capture did not finish")
	}
	assert.False(t, src.Attached())
	assert.False(t, r.Recording())
}

func TestCapture_CancelDetaches(t *testing.T) {
	src := NewChanSource()
	r := NewRecorder()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := r.Capture(ctx, src)
		errc <- err
	}()

	waitAttached(t, src)
	src.Send(press("x", Modifiers{Control: true}))
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Capture did not return after cancel")
	}
	assert.False(t, src.Attached())
	assert.False(t, r.Recording())
	assert.False(t, src.Send(press("y", Modifiers{})))
}

type closingSource struct {
	detached bool
}

func (c *closingSource) Attach() (<-chan KeyEvent, func(), error) {
	ch := make(chan KeyEvent)
	close(ch)
	return ch, func() { c.detached = true }, nil
}

func TestCapture_SourceClosed(t *testing.T) {
	src := &closingSource{}
	r := NewRecorder()

	_, err := r.Capture(context.Background(), src)

	assert.ErrorIs(t, err, ErrSourceClosed)
	assert.True(t, src.detached)
}

func TestChanSource_SingleListener(t *testing.T) {
	src := NewChanSource()
	_, detach, err := src.Attach()
	require.NoError(t, err)

	_, _, err = src.Attach()
	assert.Error(t, err)

	detach()
	detach()
	_, detach2, err := src.Attach()
	require.NoError(t, err)
	detach2()
}
