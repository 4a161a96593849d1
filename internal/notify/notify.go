package notify

import (
	"encoding/json"
	"slices"
	"sync"
)

// Signature is the canonical identity of a view's membership.
type Signature string

// Item is anything with a stable identity.
type Item interface {
	ItemID() string
}

// SignatureOf returns the signature of a set of ids. Duplicates are kept
// and ids is not modified.
func SignatureOf(ids []string) Signature {
	sorted := slices.Clone(ids)
	if sorted == nil {
		sorted = []string{}
	}
	slices.Sort(sorted)

	b, err := json.Marshal(sorted)
	if err != nil {
		// Marshalling a []string cannot fail.
		panic(err)
	}
	return Signature(b)
}

// SignatureOfItems returns the signature of view's item ids.
func SignatureOfItems[T Item](view []T) Signature {
	ids := make([]string, len(view))
	for i, item := range view {
		ids[i] = item.ItemID()
	}
	return SignatureOf(ids)
}

// ShouldNotify reports whether view differs in membership from previous and
// returns the view's signature.
func ShouldNotify[T Item](view []T, previous Signature) (bool, Signature) {
	next := SignatureOfItems(view)
	return next != previous, next
}

// Tracker remembers the last signature a consumer was notified with. The
// zero value has seen nothing, so the first observed view always notifies.
type Tracker struct {
	last Signature
}

// Observe records the view's signature and reports whether it changed.
func Observe[T Item](tr *Tracker, view []T) bool {
	changed, next := ShouldNotify(view, tr.last)
	tr.last = next
	return changed
}

// Last returns the last observed signature.
func (tr *Tracker) Last() Signature {
	return tr.last
}

// Notifier delivers a view to a callback when its membership changes.
// It is safe for concurrent use; callbacks never run concurrently with each
// other.
type Notifier[T Item] struct {
	mu       sync.Mutex
	tracker  Tracker
	callback func([]T)
}

// NewNotifier creates a Notifier that calls fn on change. fn may be nil.
func NewNotifier[T Item](fn func([]T)) *Notifier[T] {
	return &Notifier[T]{callback: fn}
}

// SetCallback replaces the callback.
func (n *Notifier[T]) SetCallback(fn func([]T)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.callback = fn
}

// Publish offers a new view. The callback runs, while the notifier's lock
// is held, only if the membership changed. Publish reports whether it did.
func (n *Notifier[T]) Publish(view []T) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !Observe(&n.tracker, view) {
		return false
	}
	if n.callback != nil {
		n.callback(view)
	}
	return true
}

// Last returns the signature of the last published view.
func (n *Notifier[T]) Last() Signature {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tracker.Last()
}
