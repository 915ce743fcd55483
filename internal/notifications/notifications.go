package notifications

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxPending = 20

// Notifications queues short user-facing notices per session until the
// client drains them.
type Notifications struct {
	mu     sync.Mutex
	queues map[uuid.UUID][]string
	log    *logrus.Entry
}

func New(log *logrus.Logger) *Notifications {
	return &Notifications{
		queues: make(map[uuid.UUID][]string),
		log:    log.WithField("module", "notifications"),
	}
}

func (n *Notifications) Notify(_ context.Context, sessionID uuid.UUID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := append(n.queues[sessionID], message)
	if len(queue) > maxPending {
		queue = queue[len(queue)-maxPending:]
	}

	n.queues[sessionID] = queue

	n.log.WithField("session", sessionID).Info(message)
}

func (n *Notifications) Drain(sessionID uuid.UUID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	queue := n.queues[sessionID]
	delete(n.queues, sessionID)

	if queue == nil {
		return make([]string, 0)
	}

	return queue
}
