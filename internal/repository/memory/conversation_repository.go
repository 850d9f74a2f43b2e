package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/SankarSubbayya/Finnie/pkg/store"
)

type ConversationRepository struct {
	cache *cache.Cache
}

// NewConversationRepository creates the in-memory conversation store.
// Conversations expire after the TTL; expired items are purged every
// 10 minutes.
func NewConversationRepository(ttl time.Duration) *ConversationRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &ConversationRepository{
		cache: c,
	}
}

func (r *ConversationRepository) Save(conversation *store.Conversation) {
	r.cache.Set(conversation.ID, conversation, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(conversationID string) (*store.Conversation, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*store.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}

// AppendMessages adds messages to an existing conversation and refreshes
// its TTL. Returns false when the conversation does not exist.
func (r *ConversationRepository) AppendMessages(conversationID string, messages ...store.Message) bool {
	conversation, found := r.Get(conversationID)
	if !found {
		return false
	}
	conversation.Messages = append(conversation.Messages, messages...)
	r.Save(conversation)
	return true
}
