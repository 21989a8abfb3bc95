package latest

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot(t *testing.T) {
	t.Run("empty slot loads nil", func(t *testing.T) {
		var s Slot[string]
		assert.Nil(t, s.Load())
	})

	t.Run("latest ticket publishes", func(t *testing.T) {
		var s Slot[string]
		tk := s.Issue()
		v := "first"

		assert.True(t, s.Publish(tk, &v))
		assert.Equal(t, "first", *s.Load())
	})

	t.Run("late result of superseded ticket is dropped", func(t *testing.T) {
		var s Slot[string]
		t1 := s.Issue()
		t2 := s.Issue()

		v2 := "second"
		assert.True(t, s.Publish(t2, &v2))

		v1 := "first"
		assert.False(t, s.Publish(t1, &v1))
		assert.Equal(t, "second", *s.Load())
	})

	t.Run("superseded ticket cannot publish even if it arrives first", func(t *testing.T) {
		var s Slot[string]
		t1 := s.Issue()
		_ = s.Issue()

		v1 := "first"
		assert.False(t, s.Publish(t1, &v1))
		assert.Nil(t, s.Load())
		assert.False(t, s.IsLatest(t1))
	})

	t.Run("concurrent issuers leave the highest ticket published", func(t *testing.T) {
		var s Slot[int]
		var wg sync.WaitGroup
		tickets := make(chan Ticket, 64)

		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tk := s.Issue()
				v := int(tk)
				s.Publish(tk, &v)
				tickets <- tk
			}()
		}
		wg.Wait()
		close(tickets)

		var highest Ticket
		for tk := range tickets {
			if tk > highest {
				highest = tk
			}
		}
		assert.Equal(t, Ticket(64), highest)
		got := s.Load()
		if assert.NotNil(t, got) {
			assert.Equal(t, 64, *got)
		}
	})
}
