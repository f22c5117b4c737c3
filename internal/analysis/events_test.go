package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToSessionWatchers(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe("abc")
	defer cancel()
	other, cancelOther := b.Subscribe("other")
	defer cancelOther()

	b.Publish(Event{SessionID: "abc", Type: EventQuestion, Step: 1})

	select {
	case ev := <-ch:
		assert.Equal(t, EventQuestion, ev.Type)
		assert.Equal(t, 1, ev.Step)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case ev := <-other:
		t.Fatalf("watcher of another session received %+v", ev)
	default:
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe("abc")
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancel must not panic or block.
	b.Publish(Event{SessionID: "abc", Type: EventDeleted})
	cancel() // idempotent
}

func TestBrokerDropsWhenWatcherStalls(t *testing.T) {
	b := NewBroker()

	ch, cancel := b.Subscribe("abc")
	defer cancel()

	// Overflow the buffer; Publish must never block the interview.
	for i := 0; i < 100; i++ {
		b.Publish(Event{SessionID: "abc", Type: EventQuestion, Step: i})
	}

	assert.Equal(t, 16, len(ch))
}
