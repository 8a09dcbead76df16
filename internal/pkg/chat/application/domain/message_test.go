package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMessage_TrimsContent(t *testing.T) {
	req := require.New(t)
	m, err := NewMessage(1, 2, "  hello  ")
	req.NoError(err)
	req.Equal("hello", m.Content)
	req.Equal(int64(1), m.ConversationID)
	req.Equal(int64(2), m.SenderID)
	req.False(m.Read)
}

func TestNewMessage_RejectsEmptyContent(t *testing.T) {
	_, err := NewMessage(1, 2, "")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = NewMessage(1, 2, "   \n\t ")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessage_RequiresIdentifiers(t *testing.T) {
	_, err := NewMessage(0, 2, "hi")
	require.ErrorIs(t, err, ErrInvalidConversation)

	_, err = NewMessage(1, 0, "hi")
	require.ErrorIs(t, err, ErrInvalidConversation)
}
