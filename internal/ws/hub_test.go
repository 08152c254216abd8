package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyQueuesEncodedEvent(t *testing.T) {
	h := NewHub()
	h.Notify(Event{Type: "stock_update", Action: "stock_adjusted", Data: map[string]int{"stock": 7}})

	require.Len(t, h.Broadcast, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
	assert.Equal(t, "stock_update", got["type"])
	assert.Equal(t, "stock_adjusted", got["action"])
}

func TestNotifyDropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < cap(h.Broadcast)+5; i++ {
		h.Notify(Event{Type: "stock_update", Action: "item_added"})
	}
	assert.Len(t, h.Broadcast, cap(h.Broadcast))
}
