package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cacheport "github.com/20mouhcine/EmsiConnect/internal/infrastructure/cache/port"
	chat "github.com/20mouhcine/EmsiConnect/internal/pkg/chat/application/domain"
)

type markCall struct {
	conversationID, messageID, excludingSender int64
}

type fakeRepo struct {
	participants map[int64][]int64 // conversationID -> userIDs

	nextConversationID int64
	nextMessageID      int64
	saved              []chat.Message
	markCalls          []markCall
	markAffected       int64

	failWith error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{participants: make(map[int64][]int64)}
}

func (f *fakeRepo) CreateConversation(ctx context.Context, c chat.Conversation) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextConversationID++
	return f.nextConversationID, nil
}

func (f *fakeRepo) AddParticipant(ctx context.Context, p chat.Participant) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.participants[p.ConversationID] = append(f.participants[p.ConversationID], p.UserID)
	return nil
}

func (f *fakeRepo) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	for _, id := range f.participants[conversationID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListParticipantIDs(ctx context.Context, conversationID int64) ([]int64, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]int64(nil), f.participants[conversationID]...), nil
}

func (f *fakeRepo) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	if f.failWith != nil {
		return chat.Message{}, f.failWith
	}
	f.nextMessageID++
	m.ID = f.nextMessageID
	m.CreatedAt = time.Now().UTC()
	f.saved = append(f.saved, m)
	return m, nil
}

func (f *fakeRepo) MarkMessageRead(ctx context.Context, conversationID, messageID, excludingSender int64) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.markCalls = append(f.markCalls, markCall{conversationID, messageID, excludingSender})
	return f.markAffected, nil
}

func (f *fakeRepo) ListMessagesSince(ctx context.Context, conversationID, afterMessageID int64) ([]chat.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []chat.Message
	for _, m := range f.saved {
		if m.ConversationID == conversationID && m.ID > afterMessageID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeCache struct {
	values map[string]string
	gets   int
	sets   int
}

func newFakeCache() *fakeCache { return &fakeCache{values: make(map[string]string)} }

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.gets++
	v, ok := f.values[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.sets++
	f.values[key] = value
	return nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) { return 0, nil }
func (f *fakeCache) Ping(ctx context.Context) error                        { return nil }
func (f *fakeCache) Close() error                                          { return nil }

func TestSendMessage_PersistsAndReturnsStoredCopy(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10, 20}

	msg, err := NewSendMessageUseCase(repo).Execute(context.Background(), SendMessageInput{
		ConversationID: 1, SenderID: 10, Content: "  hello  ",
	})
	req.NoError(err)
	req.Equal(int64(1), msg.ID)
	req.Equal("hello", msg.Content)
	req.False(msg.CreatedAt.IsZero())
	req.Len(repo.saved, 1)
}

func TestSendMessage_EmptyContentIsRejectedBeforePersistence(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10}

	_, err := NewSendMessageUseCase(repo).Execute(context.Background(), SendMessageInput{
		ConversationID: 1, SenderID: 10, Content: "   ",
	})
	req.ErrorIs(err, chat.ErrEmptyMessage)
	req.Empty(repo.saved)
}

func TestSendMessage_NonParticipantIsRejected(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10}

	_, err := NewSendMessageUseCase(repo).Execute(context.Background(), SendMessageInput{
		ConversationID: 1, SenderID: 99, Content: "hi",
	})
	req.ErrorIs(err, chat.ErrNotParticipant)
	req.Empty(repo.saved)
}

func TestSendMessage_WrapsStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = errors.New("db down")

	_, err := NewSendMessageUseCase(repo).Execute(context.Background(), SendMessageInput{
		ConversationID: 1, SenderID: 10, Content: "hi",
	})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestMarkRead_ExcludesReaderAsSender(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.markAffected = 1

	affected, err := NewMarkReadUseCase(repo).Execute(context.Background(), MarkReadInput{
		ConversationID: 1, MessageID: 5, ReaderID: 20,
	})
	req.NoError(err)
	req.Equal(int64(1), affected)
	req.Equal([]markCall{{1, 5, 20}}, repo.markCalls)
}

func TestMarkRead_UnknownMessageIsNoopNotError(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo() // markAffected stays 0

	affected, err := NewMarkReadUseCase(repo).Execute(context.Background(), MarkReadInput{
		ConversationID: 1, MessageID: 404, ReaderID: 20,
	})
	req.NoError(err)
	req.Zero(affected)
}

func TestMarkRead_WrapsStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = errors.New("db down")

	_, err := NewMarkReadUseCase(repo).Execute(context.Background(), MarkReadInput{
		ConversationID: 1, MessageID: 5, ReaderID: 20,
	})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestCreateChat_RequiresTwoDistinctParticipants(t *testing.T) {
	req := require.New(t)
	uc := NewCreateChatUseCase(newFakeRepo())

	_, err := uc.Execute(context.Background(), CreateChatInput{ParticipantIDs: []int64{10}})
	req.Error(err)

	_, err = uc.Execute(context.Background(), CreateChatInput{ParticipantIDs: []int64{10, 10, 0}})
	req.Error(err)
}

func TestCreateChat_RegistersAllParticipants(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()

	conv, err := NewCreateChatUseCase(repo).Execute(context.Background(), CreateChatInput{
		ParticipantIDs: []int64{10, 20, 20, 30},
	})
	req.NoError(err)
	req.Equal(int64(1), conv.ID)
	req.ElementsMatch([]int64{10, 20, 30}, repo.participants[conv.ID])
}

func TestJoinConversation_NonParticipant(t *testing.T) {
	repo := newFakeRepo()
	repo.participants[1] = []int64{10}

	err := NewJoinConversationUseCase(repo, nil).Execute(context.Background(), JoinConversationInput{
		ConversationID: 1, UserID: 99,
	})
	require.ErrorIs(t, err, chat.ErrNotParticipant)
}

func TestJoinConversation_CachesPositiveAnswers(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10}
	cache := newFakeCache()
	uc := NewJoinConversationUseCase(repo, cache)

	req.NoError(uc.Execute(context.Background(), JoinConversationInput{ConversationID: 1, UserID: 10}))
	req.Equal(1, cache.sets)

	// Second check is answered from cache even if the store is down.
	repo.failWith = errors.New("db down")
	req.NoError(uc.Execute(context.Background(), JoinConversationInput{ConversationID: 1, UserID: 10}))
}

func TestJoinConversation_NeverCachesNegativeAnswers(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	cache := newFakeCache()
	uc := NewJoinConversationUseCase(repo, cache)

	err := uc.Execute(context.Background(), JoinConversationInput{ConversationID: 1, UserID: 10})
	req.ErrorIs(err, chat.ErrNotParticipant)
	req.Zero(cache.sets)

	// Freshly added participants can connect immediately.
	repo.participants[1] = []int64{10}
	req.NoError(uc.Execute(context.Background(), JoinConversationInput{ConversationID: 1, UserID: 10}))
}

func TestGetMessage_ListsSinceCursor(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10}
	sendUC := NewSendMessageUseCase(repo)
	for _, content := range []string{"a", "b", "c"} {
		_, err := sendUC.Execute(context.Background(), SendMessageInput{ConversationID: 1, SenderID: 10, Content: content})
		req.NoError(err)
	}

	msgs, err := NewGetMessageUseCase(repo).Execute(context.Background(), GetMessageInput{ConversationID: 1, AfterID: 1})
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal("b", msgs[0].Content)
	req.Equal("c", msgs[1].Content)
}

func TestListParticipants_ReturnsMembers(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.participants[1] = []int64{10, 20, 30}

	ids, err := NewListParticipantsUseCase(repo).Execute(context.Background(), ListParticipantsInput{ConversationID: 1})
	req.NoError(err)
	req.Equal([]int64{10, 20, 30}, ids)
}

func TestListParticipants_WrapsStoreFailure(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepo()
	repo.failWith = errors.New("connection reset")

	_, err := NewListParticipantsUseCase(repo).Execute(context.Background(), ListParticipantsInput{ConversationID: 1})
	req.ErrorIs(err, ErrPersistence)
}
