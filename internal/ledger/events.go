package ledger

import "github.com/Veraticus/parayon/internal/model"

// EventKind identifies the mutation that produced an Event.
type EventKind int

// Event kinds.
const (
	EventTransactionAdded EventKind = iota + 1
	EventTransactionsImported
	EventCategoryAdded
	EventCategoryUpdated
	EventCategoryDeleted
	EventUserUpdated
	EventNotificationsUpdated
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventTransactionAdded:
		return "transaction_added"
	case EventTransactionsImported:
		return "transactions_imported"
	case EventCategoryAdded:
		return "category_added"
	case EventCategoryUpdated:
		return "category_updated"
	case EventCategoryDeleted:
		return "category_deleted"
	case EventUserUpdated:
		return "user_updated"
	case EventNotificationsUpdated:
		return "notifications_updated"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a mutation has been persisted.
// Snapshot is the state as of that mutation.
type Event struct {
	Snapshot     model.LedgerState
	CategoryID   string
	Transactions []model.Transaction
	Kind         EventKind
}

type subscription struct {
	fn func(Event)
	id int
}

// Subscribe registers fn to be called after every committed mutation and
// returns a function that removes the subscription. Callbacks run on the
// mutating goroutine after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
