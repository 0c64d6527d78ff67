package events

import (
	"sync"
	"testing"
	"time"
)

func TestNotifier_DeliversInPublishOrder(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	var mu sync.Mutex
	var got []int

	n.Subscribe("get_companies", func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, evt.Payload["seq"].(int))
	})

	for i := 0; i < 100; i++ {
		n.Publish(Event{
			Type:    "get_companies",
			Payload: map[string]any{"seq": i},
		})
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(got) != 100 {
		t.Fatalf("delivered %d events, want 100", len(got))
	}
	for i, seq := range got {
		if seq != i {
			t.Fatalf("event %d delivered out of order (seq %d)", i, seq)
		}
	}
}

func TestNotifier_NoSubscribersIsNoop(t *testing.T) {
	n := NewNotifier(DefaultConfig())
	defer n.Close()

	// Must not panic or block.
	n.Publish(Event{Type: "delete_companies"})
}

func TestNotifier_ExactTypeMatch(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	var mu sync.Mutex
	counts := map[string]int{}

	subscribe := func(eventType string) {
		n.Subscribe(eventType, func(evt Event) {
			mu.Lock()
			defer mu.Unlock()
			counts[eventType]++
		})
	}
	subscribe("get_companies")
	subscribe("get_assets")

	n.Publish(Event{Type: "get_companies"})
	n.Publish(Event{Type: "get_companies"})
	n.Publish(Event{Type: "request_error"})

	n.Close()

	mu.Lock()
	defer mu.Unlock()

	if counts["get_companies"] != 2 {
		t.Errorf("get_companies handler ran %d times, want 2", counts["get_companies"])
	}
	if counts["get_assets"] != 0 {
		t.Errorf("get_assets handler ran %d times, want 0", counts["get_assets"])
	}
}

func TestNotifier_RegistrationOrder(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	var mu sync.Mutex
	var order []string

	n.Subscribe("post_companies", func(Event) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "first")
	})
	n.Subscribe("post_companies", func(Event) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "second")
	})

	n.Publish(Event{Type: "post_companies"})
	n.Close()

	mu.Lock()
	defer mu.Unlock()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("handlers ran as %v, want [first second]", order)
	}
}

func TestNotifier_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	var mu sync.Mutex
	survived := 0

	n.Subscribe("get_articles", func(Event) {
		panic("handler bug")
	})
	n.Subscribe("get_articles", func(Event) {
		mu.Lock()
		defer mu.Unlock()
		survived++
	})

	n.Publish(Event{Type: "get_articles"})
	n.Publish(Event{Type: "get_articles"})
	n.Close()

	mu.Lock()
	defer mu.Unlock()

	if survived != 2 {
		t.Errorf("second handler ran %d times, want 2", survived)
	}
}

func TestNotifier_PublishAfterCloseDropped(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	var mu sync.Mutex
	delivered := 0
	n.Subscribe("get_uploads", func(Event) {
		mu.Lock()
		defer mu.Unlock()
		delivered++
	})

	n.Close()
	n.Publish(Event{Type: "get_uploads"})

	// Give a would-be stray delivery time to happen.
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if delivered != 0 {
		t.Errorf("delivered %d events after Close, want 0", delivered)
	}
}

func TestNotifier_PublishRacingCloseNeverPanics(t *testing.T) {
	// Publishers racing Close must either enqueue or drop, never send on
	// the closed queue.
	for i := 0; i < 200; i++ {
		cfg := DefaultConfig()
		cfg.QueueSize = 4
		cfg.Shutdown = Drop
		n := NewNotifier(cfg)

		panics := make(chan any, 8)
		start := make(chan struct{})

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						panics <- r
					}
				}()
				<-start
				for j := 0; j < 50; j++ {
					n.Publish(Event{Type: "request_error"})
				}
			}()
		}

		close(start)
		n.Close()
		wg.Wait()

		select {
		case r := <-panics:
			t.Fatalf("Publish panicked while racing Close: %v", r)
		default:
		}
	}
}

func TestNotifier_CloseIdempotent(t *testing.T) {
	n := NewNotifier(DefaultConfig())

	if err := n.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestNotifier_DrainDeliversBacklog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GracePeriod = 2 * time.Second
	n := NewNotifier(cfg)

	var mu sync.Mutex
	delivered := 0

	n.Subscribe("get_relations", func(Event) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		delivered++
	})

	for i := 0; i < 50; i++ {
		n.Publish(Event{Type: "get_relations"})
	}
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if delivered != 50 {
		t.Errorf("drain policy delivered %d events, want 50", delivered)
	}
}

func TestNotifier_DropPolicyDiscardsBacklog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shutdown = Drop
	n := NewNotifier(cfg)

	var mu sync.Mutex
	delivered := 0

	block := make(chan struct{})
	n.Subscribe("get_passwords", func(Event) {
		<-block
		mu.Lock()
		defer mu.Unlock()
		delivered++
	})

	for i := 0; i < 20; i++ {
		n.Publish(Event{Type: "get_passwords"})
	}

	// Worker is stuck on the first event. Close flips the drop signal, then
	// unblocking the handler lets the worker discard the backlog.
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(block)
	}()
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if delivered >= 20 {
		t.Errorf("drop policy delivered all %d events, expected backlog discarded", delivered)
	}
}

func TestNotifier_OverflowDropsInsteadOfBlocking(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	n := NewNotifier(cfg)
	defer n.Close()

	block := make(chan struct{})
	defer close(block)
	n.Subscribe("get_layouts", func(Event) {
		<-block
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			n.Publish(Event{Type: "get_layouts"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
