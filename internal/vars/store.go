package vars

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"pgwarp/internal/logging"
)

// ChangeKind classifies a store mutation for listeners.
type ChangeKind int

const (
	Added ChangeKind = iota
	Updated
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one mutation. Listeners receive it synchronously, after
// the store's own state is updated but before the save completes.
type Change struct {
	Name string
	Kind ChangeKind
}

// Listener observes store changes. Listeners must not mutate the store
// during dispatch; such calls fail with ErrReentrantMutation.
type Listener func(Change)

// Handle identifies a subscription for Unsubscribe.
type Handle int

// Saver receives the full variable snapshot after every mutation. The file
// store implements it directly; wrap it in a CoalescingSaver to move disk
// writes off the UI thread.
type Saver interface {
	Save(snapshot []Variable) error
}

// Store is the in-memory authoritative name→Variable map for a session.
// Insertion order is preserved for display; lookup is by exact name.
// All mutations serialize through the store's mutex, and readers get copies.
type Store struct {
	mu        sync.Mutex
	order     []string
	vars      map[string]Variable
	listeners map[Handle]Listener
	nextSub   Handle
	notifying bool
	saver     Saver
	now       func() time.Time
}

// NewStore creates an empty store. saver may be nil (no persistence, used
// in tests and by the expand CLI which loads read-only).
func NewStore(saver Saver) *Store {
	return &Store{
		vars:      make(map[string]Variable),
		listeners: make(map[Handle]Listener),
		saver:     saver,
		now:       time.Now,
	}
}

// Get returns the variable and true if name is present.
func (s *Store) Get(name string) (Variable, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vars[name]
	return v, ok
}

// Resolve looks up a raw value by name. It satisfies the Resolver interface
// consumed by the expander.
func (s *Store) Resolve(name string) (string, bool) {
	v, ok := s.Get(name)
	return v.Value, ok
}

// List returns copies of all variables in insertion order.
func (s *Store) List() []Variable {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.vars[name])
	}
	return out
}

// Names returns all variable names sorted ascending. This is the candidate
// universe for autocomplete.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	sort.Strings(out)
	return out
}

// Len returns the number of variables.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Export returns a plain name→value map copy.
func (s *Store) Export() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.vars))
	for name, v := range s.vars {
		out[name] = v.Value
	}
	return out
}

// Put creates or updates a variable. Names are case-sensitive and must be
// valid identifiers. On success listeners see Added or Updated and a save is
// requested. A failed save does not roll the mutation back; the returned
// error wraps ErrPersistenceWriteFailed and the store stays authoritative.
func (s *Store) Put(name, value string) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrReentrantMutation
	}
	if !ValidName(name) {
		s.mu.Unlock()
		return &InvalidNameError{Name: name}
	}

	kind := Added
	now := s.now()
	if prev, ok := s.vars[name]; ok {
		kind = Updated
		prev.Value = value
		prev.UpdatedAt = now
		s.vars[name] = prev
	} else {
		s.order = append(s.order, name)
		s.vars[name] = Variable{Name: name, Value: value, CreatedAt: now, UpdatedAt: now}
	}
	return s.finishMutation(Change{Name: name, Kind: kind})
}

// Remove deletes a variable. It reports whether the name was present.
func (s *Store) Remove(name string) (bool, error) {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return false, ErrReentrantMutation
	}
	if _, ok := s.vars[name]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.vars, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	err := s.finishMutation(Change{Name: name, Kind: Removed})
	return true, err
}

// ReplaceAll swaps the entire contents of the store, persists the result and
// notifies listeners with a per-name diff against the previous state. Used
// by bulk import.
func (s *Store) ReplaceAll(snapshot []Variable) error {
	return s.replace(snapshot, true)
}

// Refresh is ReplaceAll without the save request. The file watcher uses it
// when the variables file changed on disk: writing back what was just read
// would only bounce between instances.
func (s *Store) Refresh(snapshot []Variable) error {
	return s.replace(snapshot, false)
}

func (s *Store) replace(snapshot []Variable, persist bool) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrReentrantMutation
	}
	for _, v := range snapshot {
		if !ValidName(v.Name) {
			s.mu.Unlock()
			return &InvalidNameError{Name: v.Name}
		}
	}

	prev := s.vars
	s.vars = make(map[string]Variable, len(snapshot))
	s.order = s.order[:0]
	var changes []Change
	for _, v := range snapshot {
		if _, dup := s.vars[v.Name]; dup {
			continue
		}
		s.order = append(s.order, v.Name)
		s.vars[v.Name] = v
		if old, ok := prev[v.Name]; !ok {
			changes = append(changes, Change{Name: v.Name, Kind: Added})
		} else if old.Value != v.Value {
			changes = append(changes, Change{Name: v.Name, Kind: Updated})
		}
	}
	for name := range prev {
		if _, ok := s.vars[name]; !ok {
			changes = append(changes, Change{Name: name, Kind: Removed})
		}
	}

	if !persist {
		s.notifyLocked(changes)
		s.mu.Unlock()
		return nil
	}
	return s.finishMutationAll(changes)
}

// Subscribe registers a listener and returns a handle for Unsubscribe.
func (s *Store) Subscribe(l Listener) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	h := s.nextSub
	s.listeners[h] = l
	return h
}

// Unsubscribe removes a listener. Unknown handles are ignored.
func (s *Store) Unsubscribe(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, h)
}

// finishMutation dispatches one change and requests a save.
// Called with s.mu held; releases it.
func (s *Store) finishMutation(c Change) error {
	return s.finishMutationAll([]Change{c})
}

func (s *Store) finishMutationAll(changes []Change) error {
	s.notifyLocked(changes)

	snapshot := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		snapshot = append(snapshot, s.vars[name])
	}
	saver := s.saver
	s.mu.Unlock()

	if saver == nil {
		return nil
	}
	if err := saver.Save(snapshot); err != nil {
		logging.Get(logging.CategoryStore).Warn("save after mutation failed: %v", err)
		return fmt.Errorf("%w: %v", ErrPersistenceWriteFailed, err)
	}
	return nil
}

// notifyLocked runs listeners synchronously with the reentrancy guard up.
// Called with s.mu held; the lock is dropped around each listener call so
// listeners may read the store, but mutations are rejected via s.notifying.
func (s *Store) notifyLocked(changes []Change) {
	if len(changes) == 0 || len(s.listeners) == 0 {
		return
	}
	handles := make([]Handle, 0, len(s.listeners))
	for h := range s.listeners {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	s.notifying = true
	s.mu.Unlock()
	for _, c := range changes {
		for _, h := range handles {
			s.mu.Lock()
			l, ok := s.listeners[h]
			s.mu.Unlock()
			if ok {
				l(c)
			}
		}
	}
	s.mu.Lock()
	s.notifying = false
}
