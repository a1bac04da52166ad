package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqtepa/fastfood-storefront/internal/kvstore"
	"github.com/oqtepa/fastfood-storefront/internal/model"
)

func recvUpdate(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case up, ok := <-ch:
		require.True(t, ok, "channel closed")
		return up
	case <-time.After(2 * time.Second):
		t.Fatalf("no update received")
		return Update{}
	}
}

func TestSubscriberReceivesMutations(t *testing.T) {
	bc := NewBroadcaster(4, 0)
	s := New(kvstore.New(t.TempDir()), bc)
	ch, cancel := bc.Subscribe()
	defer cancel()

	require.True(t, s.Add(model.Product{
		ID: "new-item", Name: model.LocalizedText{"en": "New"},
		Price: 1000, Category: "drinks", Stock: 1,
	}))
	up := recvUpdate(t, ch)
	assert.Equal(t, s.List(), up.Products)
	assert.False(t, up.Timestamp.IsZero())
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	bc := NewBroadcaster(1, 0)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bc.Publish(nil)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked")
	}
}

func TestSlowSubscriberStillSeesLatest(t *testing.T) {
	bc := NewBroadcaster(1, 0)
	ch, cancel := bc.Subscribe()
	defer cancel()

	// Fill and overflow the buffer without consuming.
	for i := 0; i < 10; i++ {
		bc.Publish([]model.Product{{ID: "v", Stock: int64(i)}})
	}
	up := recvUpdate(t, ch)
	require.Len(t, up.Products, 1)
	assert.Equal(t, int64(9), up.Products[0].Stock, "latest update wins")
}

func TestCancelUnsubscribes(t *testing.T) {
	bc := NewBroadcaster(4, 0)
	ch, cancel := bc.Subscribe()
	require.Equal(t, 1, bc.SubscriberCount())
	cancel()
	assert.Equal(t, 0, bc.SubscriberCount())
	_, open := <-ch
	assert.False(t, open)
	cancel() // safe to call twice
}

func TestDelayedRepeatReachesLateSubscriber(t *testing.T) {
	bc := NewBroadcaster(4, 20*time.Millisecond)
	bc.Publish([]model.Product{{ID: "x"}})

	// Subscribe after the immediate broadcast already fired.
	ch, cancel := bc.Subscribe()
	defer cancel()
	up := recvUpdate(t, ch)
	require.Len(t, up.Products, 1)
	assert.Equal(t, "x", up.Products[0].ID)
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	bc := NewBroadcaster(4, 0)
	ch, _ := bc.Subscribe()
	bc.Close()
	_, open := <-ch
	assert.False(t, open)
	bc.Publish(nil) // dropped, no panic
	late, _ := bc.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
