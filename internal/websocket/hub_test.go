package chatws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/miwaszko990/ugc-travel-connect/internal/models"
	"github.com/miwaszko990/ugc-travel-connect/internal/services"
)

func TestEnqueueOnClosedClientIsRejected(t *testing.T) {
	client := NewClient(nil, nil, "1")
	client.closeSend()

	if client.enqueue([]byte("late")) {
		t.Fatal("expected enqueue to report false after close")
	}

	// A second close must be a no-op, the unregister and slow-consumer
	// paths can both reach it.
	client.closeSend()
}

func TestEnqueueSurvivesConcurrentClose(t *testing.T) {
	client := NewClient(nil, nil, "1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			client.enqueue([]byte("payload"))
		}
	}()
	go func() {
		defer wg.Done()
		client.closeSend()
	}()
	wg.Wait()
}

func TestEnqueueReportsFullBuffer(t *testing.T) {
	client := NewClient(nil, nil, "1")

	payload := []byte("x")
	for i := 0; i < cap(client.send); i++ {
		if !client.enqueue(payload) {
			t.Fatalf("expected enqueue %d to fit the buffer", i)
		}
	}
	if client.enqueue(payload) {
		t.Fatal("expected enqueue to report false once the buffer is full")
	}
}

func TestNotifyMessageReachesBothParticipants(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	brand := NewClient(hub, nil, "10")
	creator := NewClient(hub, nil, "20")
	hub.Register(brand)
	hub.Register(creator)

	hub.NotifyMessage(&services.ChatDelivery{
		Conversation: &models.Conversation{ID: 5, BrandID: 10, CreatorID: 20},
		Message: &models.ChatMessage{
			ID:             42,
			ConversationID: 5,
			SenderID:       10,
			Kind:           models.MessageKindSystem,
			Content:        "Payment received",
			CreatedAt:      time.Now().UTC(),
		},
		RecipientID: 20,
	})

	for _, client := range []*Client{brand, creator} {
		select {
		case payload := <-client.send:
			var frame Message
			if err := json.Unmarshal(payload, &frame); err != nil {
				t.Fatalf("unmarshal frame for %s: %v", client.userID, err)
			}
			if frame.Type != "message" || frame.MessageID != "42" {
				t.Fatalf("unexpected frame for %s: %+v", client.userID, frame)
			}
			if frame.Kind != models.MessageKindSystem {
				t.Fatalf("expected system kind, got %q", frame.Kind)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no frame delivered to user %s", client.userID)
		}
	}
}
