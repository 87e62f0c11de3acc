package count_test

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"testing"

	"github.com/wippyai/layerio"
	"github.com/wippyai/layerio/count"
	"github.com/wippyai/layerio/streamtest"
)

func TestStream_SyncReadCountsPartialTransferWithError(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	next.QueueRead([]byte("hello"), nil)
	next.QueueRead([]byte("wor"), errors.New("connection lost"))

	buf := make([]byte, 16)
	n, err := cs.ReadSome(buf)
	if n != 5 || err != nil {
		t.Fatalf("first read: got (%d, %v), want (5, nil)", n, err)
	}

	n, err = cs.ReadSome(buf)
	if n != 3 || err == nil {
		t.Fatalf("second read: got (%d, %v), want (3, error)", n, err)
	}

	// The error does not discard the partial transfer.
	if got := cs.BytesRead(); got != 8 {
		t.Fatalf("BytesRead() = %d, want 8", got)
	}
	if got := cs.BytesWritten(); got != 0 {
		t.Fatalf("BytesWritten() = %d, want 0", got)
	}
}

func TestStream_SyncWriteCountsPartialTransferWithError(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	next.QueueWrite(-1, nil)
	next.QueueWrite(2, errors.New("short write"))

	if n, err := cs.WriteSome([]byte("abcd")); n != 4 || err != nil {
		t.Fatalf("first write: got (%d, %v), want (4, nil)", n, err)
	}
	if n, err := cs.WriteSome([]byte("efgh")); n != 2 || err == nil {
		t.Fatalf("second write: got (%d, %v), want (2, error)", n, err)
	}

	if got := cs.BytesWritten(); got != 6 {
		t.Fatalf("BytesWritten() = %d, want 6", got)
	}
	if string(next.Written()) != "abcdef" {
		t.Fatalf("next layer received %q", next.Written())
	}
}

func TestStream_AsyncReadPartialBuffer(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	// 1024-byte buffer, next layer delivers 512 bytes without error.
	next.QueueRead(make([]byte, 512), nil)

	buf := make([]byte, 1024)
	calls := 0
	var gotErr error
	var gotN int
	err := cs.AsyncReadSome(buf, layerio.HandlerFunc(func(err error, n int) {
		calls++
		gotErr, gotN = err, n
	}))
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}
	if calls != 0 {
		t.Fatal("handler ran before the next layer completed")
	}

	ex.RunPending()

	if calls != 1 {
		t.Fatalf("expected exactly 1 invocation, got %d", calls)
	}
	if gotErr != nil || gotN != 512 {
		t.Fatalf("handler received (%v, %d), want (nil, 512)", gotErr, gotN)
	}
	if got := cs.BytesRead(); got != 512 {
		t.Fatalf("BytesRead() = %d, want 512", got)
	}
	if ex.Outstanding() != 0 {
		t.Fatalf("keep-alive holds leaked: %d outstanding", ex.Outstanding())
	}
}

func TestStream_AsyncWriteErrorKeepsPartialCount(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	next.QueueWrite(37, syscall.ECONNRESET)

	var gotErr error
	var gotN int
	err := cs.AsyncWriteSome(make([]byte, 128), layerio.HandlerFunc(func(err error, n int) {
		gotErr, gotN = err, n
	}))
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}
	ex.RunPending()

	// Error not swallowed, count not discarded.
	if !errors.Is(gotErr, syscall.ECONNRESET) {
		t.Fatalf("handler error = %v, want ECONNRESET", gotErr)
	}
	if gotN != 37 {
		t.Fatalf("handler n = %d, want 37", gotN)
	}
	if got := cs.BytesWritten(); got != 37 {
		t.Fatalf("BytesWritten() = %d, want 37", got)
	}
}

func TestStream_CounterVisibleToHandler(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	next.QueueRead([]byte("12345678"), nil)

	var observed uint64
	err := cs.AsyncReadSome(make([]byte, 32), layerio.HandlerFunc(func(err error, n int) {
		observed = cs.BytesRead()
	}))
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}
	ex.RunPending()

	if observed != 8 {
		t.Fatalf("handler observed BytesRead() = %d, want 8", observed)
	}
}

func TestStream_ConcurrentOperationsEachCompleteOnce(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	const ops = 10
	var wantRead uint64
	for i := 0; i < ops; i++ {
		payload := make([]byte, 100+i)
		next.QueueRead(payload, nil)
		wantRead += uint64(len(payload))
	}

	calls := make([]int, ops)
	for i := 0; i < ops; i++ {
		i := i
		err := cs.AsyncReadSome(make([]byte, 256), layerio.HandlerFunc(func(err error, n int) {
			calls[i]++
		}))
		if err != nil {
			t.Fatalf("initiation %d failed: %v", i, err)
		}
	}

	ex.RunPending()

	for i, c := range calls {
		if c != 1 {
			t.Fatalf("operation %d completed %d times", i, c)
		}
	}
	if got := cs.BytesRead(); got != wantRead {
		t.Fatalf("BytesRead() = %d, want %d", got, wantRead)
	}
	if ex.Started() != ops || ex.Finished() != ops {
		t.Fatalf("hold accounting: started=%d finished=%d, want %d/%d",
			ex.Started(), ex.Finished(), ops, ops)
	}
}

func TestStream_InitiationFailureAbandonsOperation(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	initErr := errors.New("refused")
	next.FailNextInit(initErr)

	called := false
	err := cs.AsyncReadSome(make([]byte, 16), layerio.HandlerFunc(func(error, int) {
		called = true
	}))
	if !errors.Is(err, initErr) {
		t.Fatalf("expected initiation error, got %v", err)
	}

	ex.RunPending()
	if called {
		t.Fatal("handler must not run for a failed initiation")
	}
	if ex.Outstanding() != 0 {
		t.Fatalf("abandoned operation leaked a hold: %d outstanding", ex.Outstanding())
	}
	if cs.BytesRead() != 0 {
		t.Fatalf("counter moved without a transfer: %d", cs.BytesRead())
	}
}

func TestStream_ExecutorAndNextLayerPassthrough(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	if cs.Executor() != ex {
		t.Fatal("Executor() should pass through to the next layer")
	}
	if cs.NextLayer() != layerio.Stream(next) {
		t.Fatal("NextLayer() should expose the wrapped stream")
	}
}

func TestStream_DecoratorStacksRecursively(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	inner := count.New(next)
	outer := count.New(inner)

	next.QueueRead([]byte("abcdef"), nil)
	next.QueueRead([]byte("xyz"), io.EOF)

	buf := make([]byte, 16)
	if _, err := outer.ReadSome(buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n, err := outer.ReadSome(buf); n != 3 || err != io.EOF {
		t.Fatalf("got (%d, %v), want (3, EOF)", n, err)
	}

	// Both layers observe the same traffic.
	if inner.BytesRead() != 9 || outer.BytesRead() != 9 {
		t.Fatalf("inner=%d outer=%d, want 9/9", inner.BytesRead(), outer.BytesRead())
	}

	if got := layerio.LowestLayer(outer); got != layerio.Stream(next) {
		t.Fatalf("LowestLayer returned %T", got)
	}
}

func TestStream_AsyncThroughStackedDecorators(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	inner := count.New(next)
	outer := count.New(inner)

	next.QueueWrite(-1, nil)

	var gotN int
	err := outer.AsyncWriteSome([]byte("payload"), layerio.HandlerFunc(func(err error, n int) {
		gotN = n
	}))
	if err != nil {
		t.Fatalf("initiation failed: %v", err)
	}
	ex.RunPending()

	if gotN != 7 {
		t.Fatalf("handler n = %d, want 7", gotN)
	}
	if inner.BytesWritten() != 7 || outer.BytesWritten() != 7 {
		t.Fatalf("inner=%d outer=%d, want 7/7", inner.BytesWritten(), outer.BytesWritten())
	}
	if ex.Outstanding() != 0 {
		t.Fatalf("holds leaked through the stack: %d", ex.Outstanding())
	}
}

func TestStream_SumsMatchReportedTransfers(t *testing.T) {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	// Mixed sync and async traffic, some calls erroring mid-transfer.
	next.QueueRead([]byte("aaaa"), nil)
	next.QueueRead([]byte("bb"), errors.New("reset"))
	next.QueueWrite(3, nil)
	next.QueueWrite(1, errors.New("full"))

	buf := make([]byte, 8)
	var wantRead, wantWritten uint64

	n, _ := cs.ReadSome(buf)
	wantRead += uint64(n)

	if err := cs.AsyncReadSome(buf, layerio.HandlerFunc(func(err error, n int) {
		wantRead += uint64(n)
	})); err != nil {
		t.Fatalf("initiation failed: %v", err)
	}

	n, _ = cs.WriteSome([]byte("12345"))
	wantWritten += uint64(n)

	if err := cs.AsyncWriteSome([]byte("678"), layerio.HandlerFunc(func(err error, n int) {
		wantWritten += uint64(n)
	})); err != nil {
		t.Fatalf("initiation failed: %v", err)
	}

	ex.RunPending()

	if cs.BytesRead() != wantRead {
		t.Fatalf("BytesRead() = %d, want %d", cs.BytesRead(), wantRead)
	}
	if cs.BytesWritten() != wantWritten {
		t.Fatalf("BytesWritten() = %d, want %d", cs.BytesWritten(), wantWritten)
	}
}

func ExampleStream() {
	ex := streamtest.NewExecutor()
	next := streamtest.NewStream(ex)
	cs := count.New(next)

	next.QueueRead([]byte("hello"), nil)

	buf := make([]byte, 16)
	_ = cs.AsyncReadSome(buf, layerio.HandlerFunc(func(err error, n int) {
		fmt.Println(n, cs.BytesRead())
	}))
	ex.RunPending()
	// Output: 5 5
}
