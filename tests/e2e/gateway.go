//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"time"

	"booking-engine/internal/infra/gateway"
)

// FakeGateway answers checkout and refund calls the way the hosted provider does.
type FakeGateway struct {
	server *nethttptest.Server

	mu       sync.Mutex
	seq      int
	sessions map[string]map[string]string // session id -> metadata
	byKey    map[string]string            // idempotency key -> session id
	refunds  []string
}

func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{
		sessions: map[string]map[string]string{},
		byKey:    map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/checkout/sessions", g.createSession)
	mux.HandleFunc("POST /v1/refunds", g.refund)
	g.server = nethttptest.NewServer(mux)
	return g
}

func (g *FakeGateway) URL() string { return g.server.URL }

func (g *FakeGateway) Close() { g.server.Close() }

func (g *FakeGateway) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":{"type":"invalid_request","message":"bad json"}}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	key := r.Header.Get("Idempotency-Key")
	id, seen := g.byKey[key]
	if !seen || key == "" {
		g.seq++
		id = fmt.Sprintf("cs_test_%d", g.seq)
		g.sessions[id] = body.Metadata
		if key != "" {
			g.byKey[key] = id
		}
	}
	g.mu.Unlock()

	writeJSON(w, map[string]string{"id": id, "url": "https://checkout.example/" + id})
}

func (g *FakeGateway) refund(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PaymentReference string `json:"payment_reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":{"type":"invalid_request","message":"bad json"}}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.refunds = append(g.refunds, body.PaymentReference)
	id := fmt.Sprintf("re_test_%d", len(g.refunds))
	g.mu.Unlock()

	writeJSON(w, map[string]string{"id": id})
}

// SessionFor returns the last session opened for a booking and purpose.
func (g *FakeGateway) SessionFor(bookingID, purpose string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	found := ""
	for i := 1; i <= g.seq; i++ {
		id := fmt.Sprintf("cs_test_%d", i)
		md := g.sessions[id]
		if md["booking_id"] == bookingID && md["purpose"] == purpose {
			found = id
		}
	}
	return found, found != ""
}

func (g *FakeGateway) Refunds() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.refunds...)
}

// SignedEvent builds a webhook body and header the app's verifier accepts.
func SignedEvent(secret, eventID, eventType, reference string) ([]byte, http.Header) {
	body, _ := json.Marshal(map[string]any{
		"id":      eventID,
		"type":    eventType,
		"created": time.Now().Unix(),
		"data": map[string]any{
			"object": map[string]string{"id": reference},
		},
	})
	header := http.Header{}
	header.Set(gateway.SignatureHeader, gateway.SignatureFor(secret, time.Now(), body))
	return body, header
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
