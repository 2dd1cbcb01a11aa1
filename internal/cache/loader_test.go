// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type story struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

func TestLoader_FetchesOnce(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = mem.Close() }()
	l := NewLoader[[]story](mem, time.Minute)
	ctx := context.Background()

	var calls int
	fetch := func(context.Context) ([]story, error) {
		calls++
		return []story{{Name: "Dilnoza", Rating: 5}}, nil
	}

	for range 3 {
		got, err := l.Load(ctx, "success:all", fetch)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Dilnoza" {
			t.Fatalf("Load = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestLoader_ErrorIsNotCached(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = mem.Close() }()
	l := NewLoader[story](mem, time.Minute)
	ctx := context.Background()

	boom := errors.New("api down")
	if _, err := l.Load(ctx, "about", func(context.Context) (story, error) { return story{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if has, _ := mem.Has(ctx, "about"); has {
		t.Fatal("failed fetch was stored")
	}

	got, err := l.Load(ctx, "about", func(context.Context) (story, error) { return story{Name: "ok"}, nil })
	if err != nil || got.Name != "ok" {
		t.Errorf("Load = %+v, %v", got, err)
	}
}

func TestLoader_DropsUndecodableEntry(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = mem.Close() }()
	l := NewLoader[story](mem, time.Minute)
	ctx := context.Background()

	_ = mem.Set(ctx, "about", []byte("not json"), 0)

	got, err := l.Load(ctx, "about", func(context.Context) (story, error) { return story{Name: "fresh"}, nil })
	if err != nil || got.Name != "fresh" {
		t.Errorf("Load = %+v, %v", got, err)
	}
}

func TestLoader_ClosedCacheStillServes(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	_ = mem.Close()
	l := NewLoader[int](mem, time.Minute)

	got, err := l.Load(context.Background(), "n", func(context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("Load = %d, %v", got, err)
	}
}

func TestLoader_CoalescesConcurrentMisses(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = mem.Close() }()
	l := NewLoader[int](mem, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = l.Load(ctx, "courses:all", fetch)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > 2 {
		t.Errorf("fetch called %d times", n)
	}
	for i, v := range results {
		if v != 42 {
			t.Errorf("results[%d] = %d", i, v)
		}
	}
}

func TestLoader_CancelledCallerDoesNotFailOthers(t *testing.T) {
	mem := NewSimpleMemoryCache(time.Minute)
	defer func() { _ = mem.Close() }()
	l := NewLoader[int](mem, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		close(started)
		select {
		case <-release:
			return 42, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(firstCtx, "blogs:all", fetch)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := l.Load(context.Background(), "blogs:all", func(context.Context) (int, error) {
			return 0, errors.New("second fetch must not run")
		})
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(release)
	select {
	case r := <-second:
		if r.err != nil || r.v != 42 {
			t.Errorf("live caller got %d, %v", r.v, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live caller never got the shared result")
	}

	if has, _ := mem.Has(context.Background(), "blogs:all"); !has {
		t.Error("shared fetch result was not stored")
	}
}
