package discord

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNoticeSender struct {
	mu      sync.Mutex
	sendErr error
	sent    []string
	deleted []string
}

func (f *fakeNoticeSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, content)
	return &discordgo.Message{ID: "notice-1", ChannelID: channelID}, nil
}

func (f *fakeNoticeSender) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID+"/"+messageID)
	return nil
}

func (f *fakeNoticeSender) counts() (sent, deleted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent), len(f.deleted)
}

func TestExpiringNoticeSendsOnceThenDeletes(t *testing.T) {
	sender := &fakeNoticeSender{}

	expiringNotice(sender, "chan-1", "Message is too long to send via TTS.", 10*time.Millisecond)

	sent, deleted := sender.counts()
	assert.Equal(t, 1, sent)
	assert.Equal(t, 0, deleted)

	require.Eventually(t, func() bool {
		_, deleted := sender.counts()
		return deleted == 1
	}, time.Second, 5*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, []string{"chan-1/notice-1"}, sender.deleted)
}

func TestExpiringNoticeSkipsDeleteWhenSendFails(t *testing.T) {
	sender := &fakeNoticeSender{sendErr: errors.New("boom")}

	expiringNotice(sender, "chan-1", "notice", 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	sent, deleted := sender.counts()
	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, deleted)
}
