package storage

import "sync"

// watcher fans out full-document snapshots after successful writes.
// Delivery is asynchronous: subscribers observe the store eventually, and a
// later snapshot always supersedes an earlier one.
type watcher struct {
	mu          sync.Mutex
	nextID      int
	questSubs   map[int]func([]Quest)
	profileSubs map[int]func(Profile)
}

func newWatcher() *watcher {
	return &watcher{
		questSubs:   map[int]func([]Quest){},
		profileSubs: map[int]func(Profile){},
	}
}

func (w *watcher) subscribeQuests(fn func([]Quest)) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.questSubs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.questSubs, id)
	}
}

func (w *watcher) subscribeProfile(fn func(Profile)) (cancel func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.profileSubs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.profileSubs, id)
	}
}

func (w *watcher) notifyQuests(quests []Quest) {
	w.mu.Lock()
	subs := make([]func([]Quest), 0, len(w.questSubs))
	for _, fn := range w.questSubs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		snapshot := make([]Quest, len(quests))
		copy(snapshot, quests)
		go fn(snapshot)
	}
}

func (w *watcher) notifyProfile(p Profile) {
	w.mu.Lock()
	subs := make([]func(Profile), 0, len(w.profileSubs))
	for _, fn := range w.profileSubs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		go fn(p)
	}
}
