package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTaskEnabled_Defaults(t *testing.T) {
	log := zap.NewNop()
	repo := newFakeRepo()

	if !taskEnabled(context.Background(), repo, log, TaskLessonNotify) {
		t.Fatalf("unknown task must default to enabled")
	}

	repo.toggles[TaskLessonNotify] = false
	if taskEnabled(context.Background(), repo, log, TaskLessonNotify) {
		t.Fatalf("disabled toggle must be honored")
	}

	// A storage error keeps the bot notifying rather than going silent.
	repo.toggleErr = errors.New("db locked")
	if !taskEnabled(context.Background(), repo, log, TaskLessonNotify) {
		t.Fatalf("toggle read failure must fall back to enabled")
	}
}

func TestProtect(t *testing.T) {
	if err := protect(func() error { return nil }); err != nil {
		t.Fatalf("clean pass: %v", err)
	}

	want := errors.New("boom")
	if err := protect(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("error must pass through, got %v", err)
	}

	err := protect(func() error { panic("lesson index out of range") })
	if err == nil || !strings.Contains(err.Error(), "lesson index out of range") {
		t.Fatalf("panic must surface as an error, got %v", err)
	}
}

func TestWait_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if wait(ctx, time.Hour) {
		t.Fatalf("canceled context must interrupt the wait")
	}
	// Non-positive durations complete immediately regardless of ctx.
	if !wait(ctx, 0) {
		t.Fatalf("zero wait should report completion")
	}
}
