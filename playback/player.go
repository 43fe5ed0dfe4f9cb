// Package playback plays finished audio clips into a voice connection. It
// owns the ordering policy: clips queue FIFO and callers never wait for
// earlier clips to finish.
package playback

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const queueSize = 16

// Sink is the narrow slice of a voice connection the player needs.
type Sink interface {
	Speaking(bool) error
	Send(frame []byte)
}

// Player serializes queued clips onto a single sink. One Player exists per
// voice connection and is closed when the connection goes away.
type Player struct {
	sink Sink

	// mu orders Play against Close: a clip may arrive after the voice
	// connection (and this player) is gone, because synthesis runs for
	// seconds while commands and the presence watcher keep dispatching.
	mu     sync.Mutex
	closed bool
	clips  chan [][]byte
	done   chan struct{}
}

func NewPlayer(sink Sink) *Player {
	p := &Player{
		sink:  sink,
		clips: make(chan [][]byte, queueSize),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Play queues a clip and returns immediately. When the queue is full the
// clip is dropped rather than blocking the caller's event handler. A clip
// arriving after Close is dropped silently.
func (p *Player) Play(frames [][]byte) {
	if len(frames) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.clips <- frames:
	default:
		logrus.Warn("Playback queue is full, dropping clip.")
	}
}

// Close stops accepting clips, lets the queued clips finish and waits for
// the worker to exit. Safe to call more than once.
func (p *Player) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.clips)
	}
	p.mu.Unlock()

	<-p.done
}

func (p *Player) run() {
	defer close(p.done)

	for clip := range p.clips {
		if err := p.sink.Speaking(true); err != nil {
			logrus.WithError(err).Error("Failed to start speaking.")
			continue
		}

		for _, frame := range clip {
			p.sink.Send(frame)
		}

		if err := p.sink.Speaking(false); err != nil {
			logrus.WithError(err).Error("Failed to stop speaking.")
		}
	}
}
