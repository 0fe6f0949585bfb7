package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	store.Save(app.NewSession("s1", memory.ReferenceQuiz()))
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("quiz:session:s1"); ttl != 6*time.Minute {
		t.Fatalf("expected ttl of time limit plus grace, got %s", ttl)
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session held locally")
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session dropped")
	}
}
