// Package progress carries the one-directional startup status stream from
// the compute context to the presentation context. The stream is strictly
// ordered and used only during startup; after the single terminal event
// (Done or Error) the frame, audio and input channels are the only active
// communication paths.
package progress

import "log/slog"

// Kind tags the variants of a progress event.
type Kind int

const (
	// KindProgress carries a completion fraction in [0, 1].
	KindProgress Kind = iota
	// KindMessage carries a human-readable stage description.
	KindMessage
	// KindError carries a startup failure message. Terminal.
	KindError
	// KindDone marks successful startup. Terminal.
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	case KindDone:
		return "done"
	}
	return "unknown"
}

// Event is one startup notification. Value is set for KindProgress, Text
// for KindMessage and KindError.
type Event struct {
	Kind  Kind
	Value float64
	Text  string
}

// Reporter is the compute-side sending half. It is used by a single
// goroutine during startup. Events sent after a terminal event are
// discarded, preserving the at-most-one-terminal invariant for consumers.
type Reporter struct {
	ch       chan Event
	finished bool
}

// NewReporter creates a reporter whose stream buffers up to depth events
// so startup never blocks on the presentation side draining promptly.
func NewReporter(depth int) *Reporter {
	if depth <= 0 {
		depth = 16
	}
	return &Reporter{ch: make(chan Event, depth)}
}

// Progress reports a completion fraction, clamped to [0, 1].
func (r *Reporter) Progress(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	r.send(Event{Kind: KindProgress, Value: v})
}

// Message reports a stage description.
func (r *Reporter) Message(text string) {
	r.send(Event{Kind: KindMessage, Text: text})
}

// Error reports a startup failure and terminates the stream.
func (r *Reporter) Error(text string) {
	if r.finished {
		slog.Debug("progress event after terminal state discarded", "kind", KindError)
		return
	}
	r.ch <- Event{Kind: KindError, Text: text}
	r.finish()
}

// Done marks startup complete and terminates the stream.
func (r *Reporter) Done() {
	if r.finished {
		slog.Debug("progress event after terminal state discarded", "kind", KindDone)
		return
	}
	r.ch <- Event{Kind: KindDone}
	r.finish()
}

func (r *Reporter) send(ev Event) {
	if r.finished {
		slog.Debug("progress event after terminal state discarded", "kind", ev.Kind)
		return
	}
	r.ch <- ev
}

func (r *Reporter) finish() {
	r.finished = true
	close(r.ch)
}

// Events is the presentation-side receive endpoint. The channel closes
// after the terminal event, so a plain range consumes the whole startup
// sequence.
func (r *Reporter) Events() <-chan Event {
	return r.ch
}
