package web

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

func TestBroadcaster_SubscribeAndReceive(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Broadcast("info", "hello")

	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Msg != "hello" {
			t.Errorf("msg = %q, want \"hello\"", evt.Msg)
		}
		if evt.Level != "info" {
			t.Errorf("level = %q, want \"info\"", evt.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	b := NewStatusBroadcaster()
	ch1, unsub1 := b.Subscribe()
	defer unsub1()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	b.Broadcast("info", "multi")

	for i, ch := range []<-chan string{ch1, ch2} {
		select {
		case msg := <-ch:
			var evt StatusEvent
			if err := json.Unmarshal([]byte(msg), &evt); err != nil {
				t.Fatalf("subscriber %d: unmarshal: %v", i, err)
			}
			if evt.Msg != "multi" {
				t.Errorf("subscriber %d: msg = %q, want \"multi\"", i, evt.Msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timeout", i)
		}
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	unsub()

	// Channel should be closed after unsubscribe
	_, ok := <-ch
	if ok {
		t.Error("expected channel to be closed after unsubscribe")
	}
}

func TestBroadcaster_FullChannelDropsMessage(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	// Fill the channel buffer (64 messages)
	for i := 0; i < 64; i++ {
		b.Broadcast("info", "fill")
	}

	// This should not panic or block; the message should be silently dropped
	b.Broadcast("info", "overflow")

	// Drain and count messages
	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			goto done
		}
	}
done:
	if count != 64 {
		t.Errorf("expected 64 buffered messages, got %d", count)
	}
}

func TestBroadcaster_CoverageChanged(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	b.CoverageChanged("cam-1")

	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Kind != KindCoverage {
			t.Errorf("kind = %q, want %q", evt.Kind, KindCoverage)
		}
		if evt.Camera != "cam-1" {
			t.Errorf("camera = %q, want \"cam-1\"", evt.Camera)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestBroadcaster_Clients(t *testing.T) {
	b := NewStatusBroadcaster()
	_, unsub1 := b.Subscribe()
	_, unsub2 := b.Subscribe()
	if n := b.Clients(); n != 2 {
		t.Errorf("clients = %d, want 2", n)
	}
	unsub1()
	unsub1() // second call is a no-op
	unsub2()
	if n := b.Clients(); n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
}

func TestBroadcastWriter_Write(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	w := BroadcastWriter(b)
	n, err := w.Write([]byte("  trimmed message  \n"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if n != len("  trimmed message  \n") {
		t.Errorf("n = %d, want %d", n, len("  trimmed message  \n"))
	}

	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Msg != "trimmed message" {
			t.Errorf("msg = %q, want \"trimmed message\"", evt.Msg)
		}
		if evt.Level != "info" {
			t.Errorf("level = %q, want \"info\"", evt.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestBroadcastWriter_EmptyWriteIgnored(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	w := BroadcastWriter(b)
	w.Write([]byte("   \n"))

	select {
	case <-ch:
		t.Error("expected no message for whitespace-only write")
	case <-time.After(50 * time.Millisecond):
		// expected: no message
	}
}

// nextEvent waits for the next event on ch.
func nextEvent(t *testing.T, ch <-chan string, wait time.Duration) StatusEvent {
	t.Helper()
	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Time == "" {
			t.Error("event should have a timestamp")
		}
		return evt
	case <-time.After(wait):
		t.Fatal("timeout")
	}
	return StatusEvent{}
}

func TestWorkspace_ResizeReleasePublishesPanelThenWalls(t *testing.T) {
	b := NewStatusBroadcaster()
	ws, err := NewWorkspace(testOptions(), b)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	cam := ws.Plan.AddCamera("cam-1", "", geometry.Point{}, nil)
	ws.Engine.RecomputeCoverage(cam, false)

	ch, unsub := b.Subscribe()
	defer unsub()

	err = ws.Do(func() error {
		if err := ws.Controller.PointerDown(cam, cam.Handles[1], cam.Handles[1].Pos); err != nil {
			return err
		}
		ws.Controller.PointerUp()
		return nil
	})
	if err != nil {
		t.Fatalf("drag: %v", err)
	}

	evt := nextEvent(t, ch, time.Second)
	if evt.Kind != KindPanel || evt.Camera != "cam-1" {
		t.Errorf("first event = %+v, want panel for cam-1", evt)
	}
	evt = nextEvent(t, ch, time.Second)
	if evt.Kind != KindWalls {
		t.Errorf("second event kind = %q, want %q", evt.Kind, KindWalls)
	}
	if !ws.Scene.WallsInteractive() {
		t.Error("walls should be interactive once the walls event is out")
	}
}

func TestWorkspace_RotateReleaseDoesNotPublishWalls(t *testing.T) {
	b := NewStatusBroadcaster()
	ws, err := NewWorkspace(testOptions(), b)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	cam := ws.Plan.AddCamera("cam-1", "", geometry.Point{}, nil)
	ws.Engine.RecomputeCoverage(cam, false)

	ch, unsub := b.Subscribe()
	defer unsub()

	rotate := cam.Handles[2]
	if err := ws.Controller.PointerDown(cam, rotate, rotate.Pos); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	ws.Controller.PointerUp()

	if evt := nextEvent(t, ch, time.Second); evt.Kind != KindPanel {
		t.Errorf("kind = %q, want %q", evt.Kind, KindPanel)
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected event after rotate: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastWriter_ErrorLevel(t *testing.T) {
	b := NewStatusBroadcaster()
	ch, unsub := b.Subscribe()
	defer unsub()

	BroadcastWriter(b).Write([]byte("error web: boom\n"))

	select {
	case msg := <-ch:
		var evt StatusEvent
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if evt.Level != "error" {
			t.Errorf("level = %q, want \"error\"", evt.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}
