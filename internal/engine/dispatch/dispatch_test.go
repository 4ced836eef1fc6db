package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrainRunsInPostingOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}

	assert.Equal(t, 5, q.Len())
	assert.Equal(t, 5, q.Drain())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.Drain())
}

func TestPostNil(t *testing.T) {
	q := NewQueue()
	assert.False(t, q.Post(nil))
	assert.Equal(t, 0, q.Len())
}

func TestPostDuringDrainDefers(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})

	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 2, ran)
}

func TestConcurrentPost(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Post(func() {})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Drain())
}
