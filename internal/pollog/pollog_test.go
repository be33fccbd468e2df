package pollog

import (
	"context"
	"errors"
	"testing"
)

func TestOpen_EmptyDSNIsDisabled(t *testing.T) {
	_, err := Open("")
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("want ErrDisabled, got %v", err)
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	if err := r.Record(context.Background(), Record{Stage: "main", OK: true}); err != nil {
		t.Fatalf("nop recorder returned %v", err)
	}
}

func TestRecord_TableName(t *testing.T) {
	if got := (Record{}).TableName(); got != "poll_records" {
		t.Fatalf("table name = %q", got)
	}
}
