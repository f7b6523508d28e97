package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(advertiserID uint) *Client {
	return &Client{AdvertiserID: advertiserID, Send: make(chan []byte, 8)}
}

func TestBroadcastToAdvertiser(t *testing.T) {
	hub := NewHub()
	mine := newTestClient(1)
	other := newTestClient(2)
	hub.Register(mine)
	hub.Register(other)

	hub.BroadcastToAdvertiser(1, DeliveryEvent{
		Type:          "impression",
		AdID:          5,
		WalletAddress: "0xwallet",
		Timestamp:     1234,
	})

	select {
	case data := <-mine.Send:
		var evt DeliveryEvent
		require.NoError(t, json.Unmarshal(data, &evt))
		assert.Equal(t, "impression", evt.Type)
		assert.Equal(t, uint(5), evt.AdID)
	default:
		t.Fatal("expected event for advertiser 1")
	}

	select {
	case <-other.Send:
		t.Fatal("advertiser 2 must not receive advertiser 1 events")
	default:
	}
}

func TestBroadcastSkipsSlowConsumer(t *testing.T) {
	hub := NewHub()
	c := &Client{AdvertiserID: 1, Send: make(chan []byte)} // unbuffered, nobody reading
	hub.Register(c)

	// Must not block.
	hub.BroadcastToAdvertiser(1, DeliveryEvent{Type: "interaction"})
}

func TestCloseUnregisters(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1)
	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	c.Close()
	assert.Equal(t, 0, hub.ClientCount())

	// Double close is harmless.
	c.Close()
	hub.BroadcastToAdvertiser(1, DeliveryEvent{Type: "impression"})
}

func TestBroadcastRacesWithClose(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			hub.BroadcastToAdvertiser(1, DeliveryEvent{Type: "interaction", AdID: 1})
		}
	}()

	// Closing a client between the broadcast snapshot and the send must never
	// panic the broadcaster.
	for i := 0; i < 10000; i++ {
		c := newTestClient(1)
		hub.Register(c)
		c.Close()
	}
	<-done
	assert.Equal(t, 0, hub.ClientCount())
}
