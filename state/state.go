// Package state holds the bot's per-process session state: the single
// listened text channel, persisted across restarts through a line-oriented
// config file that is safe to hand-edit.
package state

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const listenedChannelKey = "listened_channel_id"

// noneMarker records an unset channel in the config file.
const noneMarker = "None"

type Session struct {
	mu                sync.RWMutex
	path              string
	listenedChannelID string
}

func NewSession(path string) *Session {
	return &Session{path: path}
}

// Load reads the config file. A missing file leaves the defaults. Lines are
// `key: value` pairs; unrecognized lines and non-numeric channel IDs are
// ignored. The ID is not validated against the platform here, that happens
// once the session is ready.
func (s *Session) Load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, listenedChannelKey+":") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, listenedChannelKey+":"))
		if value == noneMarker {
			continue
		}
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			continue
		}
		s.SetListenedChannel(value)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}
	return nil
}

// Save writes the single recognized config line, creating the data
// directory if needed and overwriting unconditionally.
func (s *Session) Save() error {
	value := s.ListenedChannel()
	if value == "" {
		value = noneMarker
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	line := fmt.Sprintf("%s: %s\n", listenedChannelKey, value)
	if err := os.WriteFile(s.path, []byte(line), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// ListenedChannel returns the listened channel ID, empty when none is set.
func (s *Session) ListenedChannel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listenedChannelID
}

// SetListenedChannel replaces the listened channel immediately. An empty ID
// clears it.
func (s *Session) SetListenedChannel(channelID string) {
	s.mu.Lock()
	s.listenedChannelID = channelID
	s.mu.Unlock()
}
