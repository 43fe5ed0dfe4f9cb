package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"sync"

	"github.com/hegedustibor/htgo-tts/voices"
	"github.com/lithdew/nicehttp"
	"google.golang.org/api/option"
	"google.golang.org/api/texttospeech/v1"

	"parrotbot/config"
)

// cloudLanguageCode is the Cloud TTS voice selector matching the Australian
// English variant the translate backend produces.
const cloudLanguageCode = "en-AU"

// chunkSize is the longest text the translate endpoint accepts per request.
const chunkSize = 200

// Service synthesizes spoken audio for message text. Both backends return a
// complete MP3 clip in memory; nothing is streamed.
type Service struct {
	config *config.Config

	cloudOnce sync.Once
	cloud     *texttospeech.Service
	cloudErr  error
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// Synthesize converts text to a full MP3 clip. The Cloud TTS backend is
// used when an API key is configured, the translate endpoint otherwise.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.config.TTS.GoogleAPIKey != "" {
		return s.synthesizeCloud(ctx, text)
	}
	return s.synthesizeTranslate(text)
}

func (s *Service) synthesizeCloud(ctx context.Context, text string) ([]byte, error) {
	s.cloudOnce.Do(func() {
		s.cloud, s.cloudErr = texttospeech.NewService(
			context.Background(),
			option.WithAPIKey(s.config.TTS.GoogleAPIKey),
		)
	})
	if s.cloudErr != nil {
		return nil, fmt.Errorf("creating texttospeech service: %w", s.cloudErr)
	}

	resp, err := s.cloud.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{LanguageCode: cloudLanguageCode},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decoding audio content: %w", err)
	}
	return audio, nil
}

func (s *Service) synthesizeTranslate(text string) ([]byte, error) {
	var clip []byte
	for _, chunk := range splitChunks(text, chunkSize) {
		audio, err := nicehttp.DownloadBytes(nil, s.chunkURL(chunk))
		if err != nil {
			return nil, fmt.Errorf("downloading speech audio: %w", err)
		}
		clip = append(clip, audio...)
	}
	return clip, nil
}

func (s *Service) chunkURL(chunk string) string {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", chunk)
	params.Set("tl", voices.English)
	params.Set("total", "1")
	params.Set("idx", "0")
	params.Set("textlen", fmt.Sprintf("%d", len([]rune(chunk))))

	return fmt.Sprintf("https://%s/translate_tts?%s", s.config.TTS.Host, params.Encode())
}

// splitChunks breaks text into rune-bounded pieces of at most size runes.
func splitChunks(text string, size int) []string {
	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
