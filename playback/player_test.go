package playback

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	events  []string
	entered chan struct{}
	release chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (s *recordingSink) Speaking(speaking bool) error {
	if speaking && s.release != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if speaking {
		s.events = append(s.events, "speaking:on")
	} else {
		s.events = append(s.events, "speaking:off")
	}
	return nil
}

func (s *recordingSink) Send(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "frame:"+string(frame))
}

func (s *recordingSink) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

func clip(frames ...string) [][]byte {
	var out [][]byte
	for _, f := range frames {
		out = append(out, []byte(f))
	}
	return out
}

func TestPlayerPlaysClipsInOrder(t *testing.T) {
	sink := newRecordingSink()
	p := NewPlayer(sink)

	p.Play(clip("a1", "a2"))
	p.Play(clip("b1"))
	p.Close()

	assert.Equal(t, []string{
		"speaking:on", "frame:a1", "frame:a2", "speaking:off",
		"speaking:on", "frame:b1", "speaking:off",
	}, sink.recorded())
}

func TestPlayIgnoresEmptyClip(t *testing.T) {
	sink := newRecordingSink()
	p := NewPlayer(sink)

	p.Play(nil)
	p.Close()

	assert.Empty(t, sink.recorded())
}

func TestPlayDropsWhenQueueIsFullWithoutBlocking(t *testing.T) {
	sink := newRecordingSink()
	sink.entered = make(chan struct{}, 1)
	sink.release = make(chan struct{})

	p := NewPlayer(sink)

	// First clip parks the worker inside Speaking so the queue backs up.
	p.Play(clip("busy"))
	<-sink.entered

	for n := 0; n < queueSize; n++ {
		p.Play(clip("queued"))
	}
	// Queue is saturated now; this must return immediately and drop.
	p.Play(clip("dropped"))

	close(sink.release)
	p.Close()

	spoken := 0
	for _, event := range sink.recorded() {
		if event == "speaking:on" {
			spoken++
		}
	}
	require.Equal(t, 1+queueSize, spoken)
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewPlayer(newRecordingSink())

	p.Close()
	p.Close()
}

func TestPlayAfterCloseDropsClip(t *testing.T) {
	sink := newRecordingSink()
	p := NewPlayer(sink)
	p.Close()

	// A synthesized clip can land after the voice connection is torn down;
	// it must be dropped, not crash the process.
	p.Play(clip("late"))

	assert.Empty(t, sink.recorded())
}
