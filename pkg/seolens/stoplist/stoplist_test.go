package stoplist

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestServiceBasic(t *testing.T) {
	svc := New(StaticSource{"the", "از", "در"})
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if !svc.IsStop("the") {
		t.Error("'the' should be a stopword")
	}
	if !svc.IsStop("THE") {
		t.Error("lookup should be case-insensitive")
	}
	if !svc.IsStop("در") {
		t.Error("entries should be stored case-folded")
	}
	if svc.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
	if svc.IsStop("") {
		t.Error("empty word should not be a stopword")
	}
}

func TestServiceNotLoadedBeforeInitialize(t *testing.T) {
	svc := New(StaticSource{"the"})
	if svc.Loaded() {
		t.Error("service should not be loaded before Initialize")
	}
	if svc.IsStop("the") {
		t.Error("construction must not load the list")
	}
}

func TestServiceFallbackOnSourceError(t *testing.T) {
	boom := errors.New("network down")
	svc := New(SourceFunc(func(context.Context) ([]string, error) {
		return nil, boom
	}), WithLogger(quietLogger()))

	err := svc.Initialize(context.Background())
	if !errors.Is(err, internalerr.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected source error to be wrapped, got %v", err)
	}
	if !svc.Loaded() {
		t.Error("fallback load should still mark the set as loaded")
	}
	if !svc.IsStop("از") || !svc.IsStop("the") {
		t.Error("fallback list should be installed")
	}
	if svc.Len() != len(Fallback()) {
		t.Errorf("expected %d fallback stopwords, got %d", len(Fallback()), svc.Len())
	}
}

func TestLoadNeverFails(t *testing.T) {
	svc := New(SourceFunc(func(context.Context) ([]string, error) {
		return nil, errors.New("bad")
	}), WithLogger(quietLogger()))

	if !svc.Load(context.Background()) {
		t.Error("Load should report the set as loaded after falling back")
	}
}

func TestNilSourceUsesFallback(t *testing.T) {
	svc := New(nil, WithFallback([]string{"foo", "bar"}))
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("nil source should not error: %v", err)
	}
	if !reflect.DeepEqual(svc.All(), []string{"bar", "foo"}) {
		t.Errorf("unexpected stopwords: %v", svc.All())
	}
}

func TestConcurrentLoadFetchesOnce(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	svc := New(SourceFunc(func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return []string{"the"}, nil
	}))

	var wg sync.WaitGroup
	results := make([]bool, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = svc.Load(context.Background())
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1] = svc.Load(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single fetch, got %d", got)
	}
	if !results[0] || !results[1] {
		t.Errorf("both callers should see a loaded set, got %v", results)
	}
}

func TestConcurrentLoadWaitIsBounded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := New(SourceFunc(func(context.Context) ([]string, error) {
		close(started)
		<-release
		return []string{"the"}, nil
	}), WithWaitTimeout(20*time.Millisecond))

	first := make(chan bool)
	go func() {
		first <- svc.Load(context.Background())
	}()
	<-started

	if svc.Load(context.Background()) {
		t.Error("waiter should give up and report the unloaded state")
	}

	close(release)
	if !<-first {
		t.Error("first loader should finish loaded")
	}
	if !svc.Load(context.Background()) {
		t.Error("later calls should see the loaded set")
	}
}

func TestRatio(t *testing.T) {
	svc := New(StaticSource{"از", "در", "the"})
	svc.Load(context.Background())

	tests := []struct {
		phrase string
		want   float64
	}{
		{"", 0},
		{"   ", 0},
		{"تحلیل سئو", 0},
		{"از در", 1},
		{"تحلیل در", 0.5},
		{"The big house", 1.0 / 3.0},
	}

	for _, tt := range tests {
		got := svc.Ratio(tt.phrase)
		if got != tt.want {
			t.Errorf("Ratio(%q) = %v, want %v", tt.phrase, got, tt.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Ratio(%q) = %v out of [0,1]", tt.phrase, got)
		}
	}
}

func TestCountAndWithout(t *testing.T) {
	svc := New(StaticSource{"از", "در"})
	svc.Load(context.Background())

	if got := svc.Count("سفر از تهران در بهار"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	got := svc.Without([]string{"سفر", "از", "تهران"})
	if !reflect.DeepEqual(got, []string{"سفر", "تهران"}) {
		t.Errorf("Without = %v", got)
	}
}

func TestAddRemove(t *testing.T) {
	svc := New(StaticSource{"the"})
	svc.Load(context.Background())

	svc.Add("Test", "دیگر")
	if !svc.IsStop("test") || !svc.IsStop("دیگر") {
		t.Error("added words should be stopwords")
	}

	svc.Remove("TEST")
	if svc.IsStop("test") {
		t.Error("'test' should not be a stopword after removing")
	}
}

func TestClearAndReload(t *testing.T) {
	var calls int32
	svc := New(SourceFunc(func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"the"}, nil
	}))
	svc.Load(context.Background())

	svc.Clear()
	if svc.Loaded() || svc.Len() != 0 {
		t.Error("Clear should empty the set and mark it unloaded")
	}

	if err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !svc.IsStop("the") {
		t.Error("Reload should restore the list")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 fetches, got %d", got)
	}
}
