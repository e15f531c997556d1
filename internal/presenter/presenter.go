package presenter

import (
	"io"
	"log/slog"
	"sync"

	"lectern/internal/projection"
)

// State is the display output state.
type State string

const (
	// StateHidden means no frame is on the output.
	StateHidden State = "hidden"
	// StateLive means the tracked frame is on the output.
	StateLive State = "live"
)

// Position addresses the live frame by its owning item and sub-index, not
// by flat index, so edits to other items do not silently move the pointer.
type Position struct {
	ItemID   int64
	SubIndex int
}

// Notifier is told about every state change. Implementations must not
// block; the tracker holds its lock while notifying.
type Notifier interface {
	PresentationChanged(state State, frame *projection.Frame)
}

// Tracker holds the single presentation pointer. The pointer survives
// collection edits: before every movement it is re-located in the current
// projection, and a pointer whose frame no longer exists is treated as no
// position at all.
type Tracker struct {
	mu       sync.Mutex
	state    State
	pos      *Position
	notifier Notifier
	logger   *slog.Logger
}

// NewTracker builds a Tracker starting hidden. A nil notifier is allowed;
// a nil logger discards output.
func NewTracker(notifier Notifier, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{
		state:    StateHidden,
		notifier: notifier,
		logger:   logger.With("component", "presenter"),
	}
}

// State returns the current output state and pointer. The pointer is nil
// when hidden.
func (t *Tracker) State() (State, *Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pos == nil {
		return t.state, nil
	}
	pos := *t.pos
	return t.state, &pos
}

// Present puts a specific frame live. The frame must exist in the given
// projection.
func (t *Tracker) Present(p *projection.Projection, itemID int64, subIndex int) (projection.Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	flat, ok := p.Locate(itemID, subIndex)
	if !ok {
		return projection.Frame{}, false
	}
	frame, _ := p.Frame(flat)
	t.setLive(frame)
	return frame, true
}

// Next advances to the following frame. With no usable position it starts
// at the first frame; past the last frame the output goes hidden.
func (t *Tracker) Next(p *projection.Projection) (projection.Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	flat, ok := t.locate(p)
	if !ok {
		return t.startAtFirst(p)
	}
	if flat+1 >= p.Len() {
		t.setHidden()
		return projection.Frame{}, false
	}
	frame, _ := p.Frame(flat + 1)
	t.setLive(frame)
	return frame, true
}

// Prev steps back one frame. At the first frame it stays put; with no
// usable position it does nothing.
func (t *Tracker) Prev(p *projection.Projection) (projection.Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	flat, ok := t.locate(p)
	if !ok {
		return projection.Frame{}, false
	}
	if flat == 0 {
		// Already at the first frame; nothing changes, so no notification.
		frame, _ := p.Frame(0)
		return frame, true
	}
	frame, _ := p.Frame(flat - 1)
	t.setLive(frame)
	return frame, true
}

// Clear hides the output. Clearing an already hidden output is a no-op.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateHidden && t.pos == nil {
		return
	}
	t.setHidden()
}

// locate maps the stored pointer into the projection. A stale pointer is
// dropped so the next movement starts fresh.
func (t *Tracker) locate(p *projection.Projection) (int, bool) {
	if t.state != StateLive || t.pos == nil {
		return 0, false
	}
	flat, ok := p.Locate(t.pos.ItemID, t.pos.SubIndex)
	if !ok {
		t.logger.Debug("pointer went stale", "item_id", t.pos.ItemID, "sub_index", t.pos.SubIndex)
		t.pos = nil
		t.state = StateHidden
		return 0, false
	}
	return flat, true
}

func (t *Tracker) startAtFirst(p *projection.Projection) (projection.Frame, bool) {
	frame, ok := p.Frame(0)
	if !ok {
		return projection.Frame{}, false
	}
	t.setLive(frame)
	return frame, true
}

func (t *Tracker) setLive(frame projection.Frame) {
	t.state = StateLive
	t.pos = &Position{ItemID: frame.ItemID, SubIndex: frame.SubIndex}
	t.logger.Debug("frame live", "item_id", frame.ItemID, "sub_index", frame.SubIndex, "flat", frame.FlatIndex)
	if t.notifier != nil {
		t.notifier.PresentationChanged(StateLive, &frame)
	}
}

func (t *Tracker) setHidden() {
	t.state = StateHidden
	t.pos = nil
	t.logger.Debug("output hidden")
	if t.notifier != nil {
		t.notifier.PresentationChanged(StateHidden, nil)
	}
}
