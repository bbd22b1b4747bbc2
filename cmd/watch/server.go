package watch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// graphFeed holds the latest DOT graph. Each publish closes the current
// changed channel, waking every waiting stream at once.
type graphFeed struct {
	mu       sync.Mutex
	dot      string
	revision int
	changed  chan struct{}
}

func newGraphFeed() *graphFeed {
	return &graphFeed{changed: make(chan struct{})}
}

func (f *graphFeed) publish(dot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dot = dot
	f.revision++
	close(f.changed)
	f.changed = make(chan struct{})
}

// snapshot returns the latest graph, its revision (0 before the first
// publish) and a channel closed on the next publish.
func (f *graphFeed) snapshot() (string, int, <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dot, f.revision, f.changed
}

func (f *graphFeed) current() string {
	dot, _, _ := f.snapshot()
	return dot
}

func newServer(feed *graphFeed, port int) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/events", handleSSE(feed))
	mux.HandleFunc("/graph.dot", handleGraph(feed))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, indexHTML); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func handleGraph(feed *graphFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		dot := feed.current()
		if dot == "" {
			http.Error(w, "graph not ready", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		io.WriteString(w, dot)
	}
}

// writeGraphEvent frames dot as one "graph" server-sent event. Every line of
// the graph becomes its own data field.
func writeGraphEvent(w io.Writer, revision int, dot string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %d\nevent: graph\n", revision)
	for _, line := range strings.Split(dot, "\n") {
		sb.WriteString("data: ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

func handleSSE(feed *graphFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		header := w.Header()
		header.Set("Content-Type", "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		sent := 0
		for {
			dot, revision, changed := feed.snapshot()
			if revision > sent && dot != "" {
				if err := writeGraphEvent(w, revision, dot); err != nil {
					return
				}
				flusher.Flush()
				sent = revision
			}

			select {
			case <-r.Context().Done():
				return
			case <-changed:
			}
		}
	}
}
