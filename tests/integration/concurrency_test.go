package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentSettlement fires many capture confirmations for the same
// approved transaction at once. Exactly one must win; the ledger must be
// debited exactly once.
func TestConcurrentSettlement(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	code, body := app.pay(t, "BestBuy", 1200, "Gaming Laptop")
	require.Equal(t, http.StatusOK, code)
	txID := data(t, body)["transaction_id"].(string)

	concurrency := 50
	var successes atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]string{
				"transaction_id": txID,
				"order_id":       fmt.Sprintf("ORDER-%03d", n),
			})
			resp, err := http.Post(app.server.URL+"/v1/agent/complete_payment", "application/json", bytes.NewReader(payload))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				successes.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load())

	// Spend moved by exactly one transaction amount: 1000 + 1200.
	code, body = app.getJSON(t, "/config")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2200", data(t, body)["spent"])
}

// TestConcurrentReplayedSettlement replays the same order reference from
// many clients at once. One settles, the rest get the duplicate error.
func TestConcurrentReplayedSettlement(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	code, body := app.pay(t, "BestBuy", 300, "Monitor")
	require.Equal(t, http.StatusOK, code)
	txID := data(t, body)["transaction_id"].(string)

	concurrency := 30
	var successes, conflicts atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]string{
				"transaction_id": txID,
				"order_id":       "ORDER-SAME",
			})
			resp, err := http.Post(app.server.URL+"/v1/agent/complete_payment", "application/json", bytes.NewReader(payload))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusOK:
				successes.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(concurrency-1), conflicts.Load())
}

// TestConcurrentAuthorizations checks that parallel payment requests each
// get their own recorded transaction.
func TestConcurrentAuthorizations(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	concurrency := 40
	ids := make(chan string, concurrency)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payload, _ := json.Marshal(map[string]interface{}{
				"agent_id":         "agent-1",
				"merchant_name":    "BestBuy",
				"amount":           10,
				"item_description": fmt.Sprintf("USB cable %d", n),
			})
			resp, err := http.Post(app.server.URL+"/v1/agent/pay", "application/json", bytes.NewReader(payload))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return
			}
			var parsed struct {
				Data struct {
					TransactionID string `json:"transaction_id"`
				} `json:"data"`
			}
			if json.NewDecoder(resp.Body).Decode(&parsed) == nil {
				ids <- parsed.Data.TransactionID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, concurrency)

	code, body := app.getJSON(t, "/v1/admin/transactions")
	require.Equal(t, http.StatusOK, code)
	list, ok := body["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, list, concurrency)
}
