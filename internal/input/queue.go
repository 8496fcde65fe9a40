package input

import (
	"sync"
	"time"
)

type Source uint8

const (
	SourceKeyboard Source = iota
	SourceGamepad
	numSources
)

// Edge is a single press or release, stamped when it was captured rather
// than when the frame got around to looking at it.
type Edge struct {
	Lane      int
	Pressed   bool
	Source    Source
	Timestamp time.Time
}

// Queue hands edges from the capture goroutine to the update loop. A
// plain mutex FIFO is enough here: one producer, one consumer, drained
// once per frame.
type Queue struct {
	mu    sync.Mutex
	edges []Edge
}

func NewQueue() *Queue {
	return &Queue{edges: make([]Edge, 0, 32)}
}

func (q *Queue) Push(edge Edge) {
	q.mu.Lock()
	q.edges = append(q.edges, edge)
	q.mu.Unlock()
}

// Drain returns all pending edges in arrival order and empties the queue.
func (q *Queue) Drain() []Edge {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.edges) == 0 {
		return nil
	}
	out := make([]Edge, len(q.edges))
	copy(out, q.edges)
	q.edges = q.edges[:0]
	return out
}

// LaneState tracks per-source down state so a lane reads as held when any
// source holds it.
type LaneState struct {
	down [numSources][]bool
}

func NewLaneState(lanes int) *LaneState {
	s := &LaneState{}
	for i := range s.down {
		s.down[i] = make([]bool, lanes)
	}
	return s
}

// Apply records an edge and reports the lane's logical OR across sources
// before and after it.
func (s *LaneState) Apply(edge Edge) (wasDown, isDown bool) {
	wasDown = s.IsDown(edge.Lane)
	s.down[edge.Source][edge.Lane] = edge.Pressed
	return wasDown, s.IsDown(edge.Lane)
}

func (s *LaneState) IsDown(lane int) bool {
	for i := range s.down {
		if s.down[i][lane] {
			return true
		}
	}
	return false
}
