package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTask_ReturnsError(t *testing.T) {
	want := errors.New("boom")
	tk := Start(context.Background(), "fail", func(context.Context) error { return want })
	if err := tk.Wait(); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestTask_RecoversPanic(t *testing.T) {
	tk := Start(context.Background(), "panic", func(context.Context) error { panic("kaboom") })
	err := tk.Wait()
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected panic surfaced as error, got %v", err)
	}
}

func TestTask_Cancel(t *testing.T) {
	tk := Start(context.Background(), "block", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	select {
	case <-tk.Done():
		t.Fatal("task finished before cancel")
	case <-time.After(10 * time.Millisecond):
	}
	tk.Cancel()
	if err := tk.Wait(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTask_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tk := Start(ctx, "child", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	cancel()
	select {
	case <-tk.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not observe parent cancellation")
	}
	if tk.Err() != nil {
		t.Errorf("expected nil error, got %v", tk.Err())
	}
}
