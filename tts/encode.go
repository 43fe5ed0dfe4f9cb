package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"gopkg.in/hraban/opus.v2"
)

// opusChannels matches go-mp3's fixed output format: 16-bit little endian
// stereo at the source sample rate.
const opusChannels = 2

// OpusFrames decodes an MP3 clip and re-encodes it as 20 ms Opus frames
// ready for a voice connection. The whole clip is converted before any
// frame is played.
func OpusFrames(mp3Data []byte) ([][]byte, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(mp3Data))
	if err != nil {
		return nil, fmt.Errorf("creating mp3 decoder: %w", err)
	}

	sampleRate := decoder.SampleRate()
	switch sampleRate {
	case 8000, 12000, 16000, 24000, 48000:
	default:
		return nil, fmt.Errorf("sample rate %d is not supported by opus", sampleRate)
	}

	encoder, err := opus.NewEncoder(sampleRate, opusChannels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("creating opus encoder: %w", err)
	}

	frameSize := sampleRate / 50 // 20ms frame
	pcm := make([]int16, frameSize*opusChannels)
	buf := make([]byte, len(pcm)*2)

	frames := make([][]byte, 0)
	for {
		ok, err := nextFrame(decoder, buf, pcm)
		if err != nil {
			return nil, fmt.Errorf("reading pcm data: %w", err)
		}
		if !ok {
			break
		}

		opusFrame := make([]byte, 1000) // Sufficient size for Opus frame
		n, err := encoder.Encode(pcm, opusFrame)
		if err != nil {
			return nil, fmt.Errorf("encoding opus frame: %w", err)
		}

		frames = append(frames, opusFrame[:n])
	}

	return frames, nil
}

// nextFrame fills pcm with the next frame of little-endian samples from r.
// A short final read is zero-padded so the clip tail is not cut off. The
// bool is false once the stream is exhausted.
func nextFrame(r io.Reader, buf []byte, pcm []int16) (bool, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF {
		return false, nil
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, err
	}

	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return true, nil
}
