package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

func TestMemoryStoreAppendAndGet(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	history, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}

	if err := store.Append(ctx, "s1", contractx.UserMessage("hi"), contractx.AssistantMessage("hello")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := store.Append(ctx, "s1", contractx.UserMessage("bye")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	history, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(history) != 3 || history[0].Content != "hi" || history[2].Content != "bye" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if LastUserMessage(history) != "bye" {
		t.Fatalf("unexpected last user message: %q", LastUserMessage(history))
	}

	history[0].Content = "mutated"
	again, _ := store.Get(ctx, "s1")
	if again[0].Content != "hi" {
		t.Fatal("Get must return a copy")
	}
}

func TestMemoryStoreRejectsEmptySession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Get() error = %v, want ErrInvalidSession", err)
	}
	if err := store.Append(context.Background(), "", contractx.UserMessage("x")); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Append() error = %v, want ErrInvalidSession", err)
	}
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			for j := 0; j < 10; j++ {
				_ = store.Append(ctx, id, contractx.UserMessage(fmt.Sprintf("%d", j)))
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Fatalf("expected 20 sessions, got %d", store.Len())
	}
	for i := 0; i < 20; i++ {
		history, _ := store.Get(ctx, fmt.Sprintf("session-%d", i))
		if len(history) != 10 {
			t.Fatalf("session-%d: expected 10 messages, got %d", i, len(history))
		}
		for j, msg := range history {
			if msg.Content != fmt.Sprintf("%d", j) {
				t.Fatalf("session-%d: out of order message %d: %q", i, j, msg.Content)
			}
		}
	}
}

func TestLastUserMessageEmpty(t *testing.T) {
	t.Parallel()

	if got := LastUserMessage([]contractx.Message{contractx.AssistantMessage("x")}); got != "" {
		t.Fatalf("unexpected message: %q", got)
	}
}
