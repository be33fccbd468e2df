package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/DoyleJ11/iem-roster/internal/roster"
	"github.com/DoyleJ11/iem-roster/internal/view"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// helper: receive one snapshot with a timeout so tests never hang
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("display outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvClosed(t *testing.T, ch <-chan Snapshot, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("outbox was not closed within %v", within)
		}
	}
}

func sampleRoster() []roster.Entry {
	return roster.Sort([]roster.Entry{
		{Name: "Ben", Classification: "Bass"},
		{Name: "Ana", Classification: "Vox 1"},
	})
}

func TestBoard_JoinGetsLoadingSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{})
	out := make(chan Snapshot, 2)
	b.Inbox() <- Join{ClientID: "d1", Outbox: out}

	first := recvSnapshot(t, out, 100*time.Millisecond)
	if first.Version != 0 || !first.State.Loading {
		t.Fatalf("after join: want version 0 loading, got %+v", first)
	}
}

func TestBoard_ReportBroadcastsAndVersionIncrements(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{})
	out := make(chan Snapshot, 4)
	b.Inbox() <- Join{ClientID: "d1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	b.Report(view.Result{Entries: sampleRoster()})
	next := recvSnapshot(t, out, 100*time.Millisecond)
	if next.Version != 1 {
		t.Fatalf("want version 1, got %d", next.Version)
	}
	if next.State.Loading || len(next.State.Roster) != 2 || next.State.Roster[0].Name != "Ana" {
		t.Fatalf("unexpected state %+v", next.State)
	}
}

func TestBoard_ErrorAfterSuccessRetainsRoster(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{})
	b.Report(view.Result{Entries: sampleRoster()})
	b.Report(view.Result{Err: errors.New("Failed to fetch classifications")})

	v, ok := b.State()
	if !ok {
		t.Fatalf("board stopped")
	}
	if v.Version != 2 || len(v.State.Roster) != 2 {
		t.Fatalf("roster not retained: %+v", v)
	}
	if page := view.Render(v.State); page.Mode != view.ModeError {
		t.Fatalf("want error page, got %s", page.Mode)
	}
}

func TestBoard_ClearErrorOnSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{ClearErrorOnSuccess: true})
	b.Report(view.Result{Err: errors.New("down")})
	b.Report(view.Result{Entries: sampleRoster()})

	v, _ := b.State()
	if v.State.Err != "" {
		t.Fatalf("want error cleared, got %q", v.State.Err)
	}
}

func TestBoard_LeaveStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{})
	out := make(chan Snapshot, 4)
	b.Inbox() <- Join{ClientID: "d1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	b.Inbox() <- Leave{ClientID: "d1"}
	b.Report(view.Result{Entries: sampleRoster()})

	v, _ := b.State()
	if v.NumClients != 0 {
		t.Fatalf("want 0 clients, got %d", v.NumClients)
	}
	select {
	case s := <-out:
		t.Fatalf("expected no snapshot after leave, got %+v", s)
	default:
	}
}

func TestBoard_SlowDisplayIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBoard(ctx, "main", Options{})
	out := make(chan Snapshot, 1)
	b.Inbox() <- Join{ClientID: "slow", Outbox: out} // join snapshot fills the buffer

	b.Report(view.Result{Entries: sampleRoster()})

	// State is served after the report, so the drop has already happened
	v, _ := b.State()
	if v.NumClients != 0 {
		t.Fatalf("slow display still registered")
	}

	// only the join snapshot was buffered; the roster update was never queued
	join := recvSnapshot(t, out, 200*time.Millisecond)
	if len(join.State.Roster) != 0 {
		t.Fatalf("join snapshot carried a roster: %+v", join.State.Roster)
	}
	select {
	case snap, ok := <-out:
		if ok {
			t.Fatalf("slow display received a second snapshot v%d", snap.Version)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("outbox was not closed")
	}
}

func TestBoard_ShutdownClosesOutboxes(t *testing.T) {
	b := NewBoard(context.Background(), "main", Options{})
	out := make(chan Snapshot, 2)
	b.Inbox() <- Join{ClientID: "d1", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	b.Inbox() <- Shutdown{}
	recvClosed(t, out, 200*time.Millisecond)

	select {
	case <-b.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("board did not stop")
	}

	// late poll results must not block
	b.Report(view.Result{Entries: sampleRoster()})
	if _, ok := b.State(); ok {
		t.Fatalf("stopped board answered a state query")
	}
}
