package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

type recordedCommands struct {
	mu       sync.Mutex
	commands [][]any
}

func (r *recordedCommands) add(cmd []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func newUpstashTestServer(t *testing.T, rec *recordedCommands, reply func(cmd []any) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		rec.add(cmd)
		fmt.Fprint(w, reply(cmd))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestUpstashRedisStoreRedisKey(t *testing.T) {
	t.Parallel()

	store := &UpstashRedisStore{keyPrefix: defaultStoreKeyPrefix}
	got, err := store.redisKey("abc")
	if err != nil {
		t.Fatalf("redisKey() error = %v", err)
	}
	if got != "zus:chat:session:abc" {
		t.Fatalf("redisKey() = %q", got)
	}
	if _, err := store.redisKey("   "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("redisKey() error = %v, want ErrInvalidSession", err)
	}
}

func TestUpstashRedisStoreAppendPushesAndRefreshesTTL(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashTestServer(t, rec, func([]any) string { return `{"result":2}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(90*time.Minute),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	if err := store.Append(context.Background(), "s1", contractx.UserMessage("hi"), contractx.AssistantMessage("hello")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if len(rec.commands) != 2 {
		t.Fatalf("expected 2 commands, got %#v", rec.commands)
	}
	push := rec.commands[0]
	if push[0] != "RPUSH" || push[1] != "zus:chat:session:s1" || len(push) != 4 {
		t.Fatalf("unexpected push command: %#v", push)
	}
	var first contractx.Message
	if err := json.Unmarshal([]byte(push[2].(string)), &first); err != nil {
		t.Fatalf("decode pushed message: %v", err)
	}
	if first.Role != contractx.RoleUser || first.Content != "hi" {
		t.Fatalf("unexpected pushed message: %+v", first)
	}

	expire := rec.commands[1]
	if expire[0] != "EXPIRE" || expire[2] != float64(5400) {
		t.Fatalf("unexpected expire command: %#v", expire)
	}
}

func TestUpstashRedisStoreAppendWithoutTTL(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashTestServer(t, rec, func([]any) string { return `{"result":1}` })

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		WithHTTPClient(server.Client()),
		WithTTL(0),
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	if err := store.Append(context.Background(), "s1", contractx.UserMessage("hi")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if len(rec.commands) != 1 {
		t.Fatalf("expected only RPUSH, got %#v", rec.commands)
	}
}

func TestUpstashRedisStoreGet(t *testing.T) {
	t.Parallel()

	user, _ := json.Marshal(contractx.UserMessage("What is 2 + 2?"))
	assistant, _ := json.Marshal(contractx.AssistantMessage("What is 2 + 2? is 4"))
	encoded, _ := json.Marshal([]string{string(user), string(assistant)})

	rec := &recordedCommands{}
	server := newUpstashTestServer(t, rec, func([]any) string {
		return fmt.Sprintf(`{"result":%s}`, encoded)
	})

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}

	history, err := store.Get(context.Background(), "s2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(history) != 2 || history[1].Role != contractx.RoleAssistant {
		t.Fatalf("unexpected history: %+v", history)
	}

	cmd := rec.commands[0]
	if cmd[0] != "LRANGE" || cmd[1] != "zus:chat:session:s2" || cmd[2] != float64(0) || cmd[3] != float64(-1) {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestUpstashRedisStoreGetUnknownSession(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashTestServer(t, rec, func([]any) string { return `{"result":[]}` })

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	history, err := store.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %+v", history)
	}
}

func TestUpstashRedisStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	rec := &recordedCommands{}
	server := newUpstashTestServer(t, rec, func([]any) string {
		return `{"error":"WRONGTYPE Operation against a key holding the wrong kind of value"}`
	})

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "s3"); err == nil {
		t.Fatal("expected redis error")
	}
}

func TestNewUpstashRedisStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "token"}); err == nil {
		t.Fatal("expected missing url error")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("expected missing token error")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("expected negative ttl error")
	}
}
