package tts

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parrotbot/config"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"empty text", "", 200, nil},
		{"under one chunk", "hello", 200, []string{"hello"}},
		{"exact boundary", "abcd", 2, []string{"ab", "cd"}},
		{"remainder chunk", "abcde", 2, []string{"ab", "cd", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.text, tt.size))
		})
	}
}

func TestSplitChunksBreaksOnRunes(t *testing.T) {
	text := strings.Repeat("あ", 5)
	chunks := splitChunks(text, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, "ああ", chunks[0])
	assert.Equal(t, "あ", chunks[2])
}

func TestChunkURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.TTS.Host = "translate.google.com.au"
	s := NewService(cfg)

	raw := s.chunkURL("good morning")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "translate.google.com.au", u.Host)
	assert.Equal(t, "/translate_tts", u.Path)

	q := u.Query()
	assert.Equal(t, "good morning", q.Get("q"))
	assert.Equal(t, "en", q.Get("tl"))
	assert.Equal(t, "tw-ob", q.Get("client"))
	assert.Equal(t, "12", q.Get("textlen"))
}
