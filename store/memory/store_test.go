package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	redisq "github.com/Renuu007/RedisQ"
	"github.com/Renuu007/RedisQ/store/memory"
)

func TestPushPop_FIFO(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	want := []string{"first", "second", "third"}
	for _, payload := range want {
		if err := s.Push(ctx, "q", []byte(payload)); err != nil {
			t.Fatalf("push %q: %v", payload, err)
		}
	}

	for _, wantPayload := range want {
		got, err := s.Pop(ctx, "q", time.Second)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if string(got) != wantPayload {
			t.Errorf("pop = %q, want %q", got, wantPayload)
		}
	}
	if s.Len("q") != 0 {
		t.Errorf("Len = %d after draining, want 0", s.Len("q"))
	}
}

func TestPop_EmptyTimesOut(t *testing.T) {
	s := memory.New()

	start := time.Now()
	_, err := s.Pop(context.Background(), "empty", 50*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, redisq.ErrEmpty) {
		t.Fatalf("pop on empty queue = %v, want ErrEmpty", err)
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("pop returned after %v, should have blocked for the timeout", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("pop blocked for %v, far past the timeout", elapsed)
	}
}

func TestPop_UnblocksOnPush(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Push(ctx, "q", []byte("late"))
	}()

	got, err := s.Pop(ctx, "q", time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if string(got) != "late" {
		t.Errorf("pop = %q, want %q", got, "late")
	}
}

func TestPop_ContextCanceled(t *testing.T) {
	s := memory.New()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := s.Pop(ctx, "q", time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("pop = %v, want context.Canceled", err)
	}
}

func TestQueues_Independent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if err := s.Push(ctx, "q1", []byte("only-in-q1")); err != nil {
		t.Fatalf("push: %v", err)
	}

	if _, err := s.Pop(ctx, "q2", 50*time.Millisecond); !errors.Is(err, redisq.ErrEmpty) {
		t.Fatalf("pop on q2 = %v, want ErrEmpty", err)
	}
}

func TestClose(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	unblocked := make(chan error, 1)
	go func() {
		_, err := s.Pop(ctx, "q", time.Minute)
		unblocked <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case err := <-unblocked:
		if !errors.Is(err, redisq.ErrStoreClosed) {
			t.Errorf("blocked pop after close = %v, want ErrStoreClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked pop did not return after close")
	}

	if err := s.Push(ctx, "q", []byte("x")); !errors.Is(err, redisq.ErrStoreClosed) {
		t.Errorf("push after close = %v, want ErrStoreClosed", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, redisq.ErrStoreClosed) {
		t.Errorf("ping after close = %v, want ErrStoreClosed", err)
	}
}

func TestConcurrentPushPop(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	const n = 100
	go func() {
		for i := 0; i < n; i++ {
			_ = s.Push(ctx, "q", []byte{byte(i)})
		}
	}()

	for i := 0; i < n; i++ {
		got, err := s.Pop(ctx, "q", time.Second)
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if got[0] != byte(i) {
			t.Fatalf("pop %d = %d, out of order", i, got[0])
		}
	}
}
