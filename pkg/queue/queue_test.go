package queue

import (
	"sync"
	"testing"
	"time"
)

func TestFIFOOrder(t *testing.T) {
	q := New[int](8)
	for i := 0; i < 5; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		v, err := q.Pop()
		if err != nil {
			t.Fatalf("pop %d: %v", i, err)
		}
		if v != i {
			t.Errorf("pop = %d, want %d", v, i)
		}
	}
}

func TestTryPushFull(t *testing.T) {
	q := New[int](2)
	if err := q.TryPush(1); err != nil {
		t.Fatal(err)
	}
	if err := q.TryPush(2); err != nil {
		t.Fatal(err)
	}
	if err := q.TryPush(3); err != ErrFull {
		t.Errorf("TryPush on full queue = %v, want ErrFull", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}
}

func TestPushBlocksUntilSpace(t *testing.T) {
	q := New[int](1)
	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}

	unblocked := make(chan struct{})
	go func() {
		q.Push(2) // blocks until the consumer makes room
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("Push should have blocked on a full queue")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := q.Pop(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-unblocked:
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after Pop")
	}
}

// TestCloseDrainsBufferedItems pins down the shutdown contract: everything
// accepted before Close is still delivered, and only then does Pop report
// exhaustion.
func TestCloseDrainsBufferedItems(t *testing.T) {
	q := New[int](16)
	for i := 0; i < 10; i++ {
		if err := q.Push(i); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()

	if err := q.Push(99); err != ErrClosed {
		t.Errorf("Push after Close = %v, want ErrClosed", err)
	}
	if err := q.TryPush(99); err != ErrClosed {
		t.Errorf("TryPush after Close = %v, want ErrClosed", err)
	}

	for i := 0; i < 10; i++ {
		v, err := q.Pop()
		if err != nil {
			t.Fatalf("pop %d after close: %v", i, err)
		}
		if v != i {
			t.Errorf("drained %d, want %d", v, i)
		}
	}
	if _, err := q.Pop(); err != ErrClosed {
		t.Errorf("Pop on drained closed queue = %v, want ErrClosed", err)
	}
}

func TestCloseUnblocksWaitingConsumer(t *testing.T) {
	q := New[int](4)
	done := make(chan error, 1)
	go func() {
		_, err := q.Pop()
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		if err != ErrClosed {
			t.Errorf("Pop = %v, want ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock consumer")
	}
}

func TestConcurrentProducersConsumers(t *testing.T) {
	const producers = 4
	const perProducer = 500
	q := New[int](32)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Push(i); err != nil {
					t.Errorf("push: %v", err)
					return
				}
			}
		}()
	}

	var consumed sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for c := 0; c < 2; c++ {
		consumed.Add(1)
		go func() {
			defer consumed.Done()
			for {
				_, err := q.Pop()
				if err != nil {
					return
				}
				mu.Lock()
				total++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	q.Close()
	consumed.Wait()

	if total != producers*perProducer {
		t.Errorf("consumed %d items, want %d", total, producers*perProducer)
	}
}
