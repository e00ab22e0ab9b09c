package healthcheck_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/redirect-monitor/internal/alert"
	"github.com/angeloszaimis/redirect-monitor/internal/probe"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
)

type fakeProber struct {
	mutex   sync.Mutex
	calls   map[string]int
	status  map[string]int
	gate    chan struct{}
	panicOn string
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		calls:  make(map[string]int),
		status: make(map[string]int),
	}
}

func (f *fakeProber) Probe(ctx context.Context, rawURL string) probe.Outcome {
	f.mutex.Lock()
	f.calls[rawURL]++
	gate := f.gate
	code, ok := f.status[rawURL]
	panicOn := f.panicOn
	f.mutex.Unlock()

	if rawURL == panicOn {
		panic("prober exploded")
	}

	if gate != nil {
		<-gate
	}

	if !ok {
		code = 200
	}
	if code == 0 {
		return probe.Outcome{Err: "dial tcp: connection refused", Duration: time.Millisecond}
	}
	return probe.Outcome{Status: &code, Duration: time.Millisecond}
}

func (f *fakeProber) setStatus(rawURL string, code int) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.status[rawURL] = code
}

func (f *fakeProber) setGate(gate chan struct{}) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.gate = gate
}

func (f *fakeProber) callsFor(rawURL string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[rawURL]
}

func (f *fakeProber) totalCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

type recordingNotifier struct {
	mutex       sync.Mutex
	transitions []alert.Transition
}

func (n *recordingNotifier) Notify(_ context.Context, t alert.Transition) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.transitions = append(n.transitions, t)
	return nil
}

func (n *recordingNotifier) received() []alert.Transition {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]alert.Transition(nil), n.transitions...)
}

type syncBuffer struct {
	mutex sync.Mutex
	buf   bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buf.String()
}

func newTestLogger(w *syncBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testRoutes() []registry.RedirectRoute {
	return []registry.RedirectRoute{
		{Name: "A", Path: "/a/", Destination: "https://a.example.com/form"},
		{Name: "B", Path: "/b/", Destination: "https://b.example.com/form"},
		{Name: "C", Path: "/c/", Destination: "https://c.example.com/form"},
	}
}
