package tasks

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingSweeper struct {
	calls atomic.Int64
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestJanitorSweepsAndStops(t *testing.T) {
	sweeper := &countingSweeper{}
	janitor := NewJanitor(sweeper, 5*time.Millisecond, zap.NewNop())

	janitor.Start()
	time.Sleep(40 * time.Millisecond)
	janitor.Stop()

	swept := sweeper.calls.Load()
	assert.Positive(t, swept)

	// No more sweeps after Stop returns.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, swept, sweeper.calls.Load())
}
