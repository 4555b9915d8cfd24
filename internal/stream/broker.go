package stream

import (
	"context"
	"sync"

	"github.com/cloudkitchen/backend/internal/model"
	"go.uber.org/zap"
)

// Snapshot is the full ordered message list of one conversation at a point
// in time. Subscribers always receive the whole thread, never a diff.
type Snapshot struct {
	ConversationID string
	Messages       []model.Message
}

// LoadFunc fetches the current ordered message list for a conversation.
type LoadFunc func(ctx context.Context, conversationID string) ([]model.Message, error)

// conversation holds the live subscribers of one thread. deliverMu
// serializes load-then-deliver, so a subscriber never sees an older snapshot
// after a newer one.
type conversation struct {
	deliverMu sync.Mutex
	fns       map[uint64]func(Snapshot)
}

// Broker fans conversation snapshots out to live subscribers. It replays the
// current snapshot on subscribe and pushes a fresh one after every append.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]*conversation
	nextID uint64
	load   LoadFunc
	logger *zap.Logger
}

func NewBroker(load LoadFunc, logger *zap.Logger) *Broker {
	return &Broker{
		subs:   make(map[string]*conversation),
		load:   load,
		logger: logger,
	}
}

// Subscribe registers fn for a conversation and delivers the current
// snapshot. The returned function cancels the subscription; calling it more
// than once is a no-op.
func (b *Broker) Subscribe(ctx context.Context, conversationID string, fn func(Snapshot)) (func(), error) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	cs, ok := b.subs[conversationID]
	if !ok {
		cs = &conversation{fns: make(map[uint64]func(Snapshot))}
		b.subs[conversationID] = cs
	}
	cs.fns[id] = fn
	b.mu.Unlock()

	cs.deliverMu.Lock()
	msgs, err := b.load(ctx, conversationID)
	if err != nil {
		cs.deliverMu.Unlock()
		b.remove(conversationID, id)
		return nil, err
	}
	fn(Snapshot{ConversationID: conversationID, Messages: msgs})
	cs.deliverMu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() { b.remove(conversationID, id) })
	}
	return unsubscribe, nil
}

func (b *Broker) remove(conversationID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cs, ok := b.subs[conversationID]; ok {
		delete(cs.fns, id)
		if len(cs.fns) == 0 {
			delete(b.subs, conversationID)
		}
	}
}

// Notify reloads the conversation's message list and delivers it to every
// subscriber. Called after a message commit.
func (b *Broker) Notify(ctx context.Context, conversationID string) {
	b.mu.Lock()
	cs, ok := b.subs[conversationID]
	b.mu.Unlock()
	if !ok {
		return
	}

	cs.deliverMu.Lock()
	defer cs.deliverMu.Unlock()

	b.mu.Lock()
	fns := make([]func(Snapshot), 0, len(cs.fns))
	for _, fn := range cs.fns {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	if len(fns) == 0 {
		return
	}

	msgs, err := b.load(ctx, conversationID)
	if err != nil {
		if b.logger != nil {
			b.logger.Warn("snapshot reload failed",
				zap.String("conversation_id", conversationID),
				zap.Error(err))
		}
		return
	}

	snap := Snapshot{ConversationID: conversationID, Messages: msgs}
	for _, fn := range fns {
		fn(snap)
	}
}

// SubscriberCount reports live subscribers for a conversation.
func (b *Broker) SubscriberCount(conversationID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cs, ok := b.subs[conversationID]; ok {
		return len(cs.fns)
	}
	return 0
}
