package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedAdvance(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clk := NewFixed(start)

	assert.Equal(t, start, clk.Now())
	clk.Advance(40 * time.Second)
	assert.Equal(t, start.Add(40*time.Second), clk.Now())
}

func TestFixedConcurrentReaders(t *testing.T) {
	clk := NewFixed(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = clk.Now()
			}
		}()
	}
	for i := 0; i < 100; i++ {
		clk.Advance(time.Second)
	}
	wg.Wait()

	assert.Equal(t, time.Date(2026, 3, 14, 10, 1, 40, 0, time.UTC), clk.Now())
}
