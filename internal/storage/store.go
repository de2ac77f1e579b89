package storage

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Store is the quest/profile document store. Writes are single-document
// upserts with no transactions; after every successful write the store emits
// a fresh full snapshot to subscribers. Subscribers must treat each snapshot
// as authoritative and replace any local view wholesale.
type Store struct {
	db       *sql.DB
	quests   *QuestRepo
	profiles *ProfileRepo
	watch    *watcher
	log      *slog.Logger
}

func NewStore(db *sql.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		db:       db,
		quests:   NewQuestRepo(db),
		profiles: NewProfileRepo(db),
		watch:    newWatcher(),
		log:      log,
	}
}

func (s *Store) GetProfile(ctx context.Context) (*Profile, error) {
	return s.profiles.GetOrCreateMain(ctx)
}

func (s *Store) SaveProfile(ctx context.Context, p *Profile) error {
	if err := s.profiles.Save(ctx, p); err != nil {
		return err
	}
	s.emitProfile(ctx)
	return nil
}

func (s *Store) ListQuests(ctx context.Context) ([]Quest, error) {
	return s.quests.ListAll(ctx)
}

func (s *Store) GetQuest(ctx context.Context, id string) (*Quest, error) {
	return s.quests.Get(ctx, id)
}

func (s *Store) InsertQuest(ctx context.Context, in QuestInsert) (*Quest, error) {
	q, err := s.quests.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	s.emitQuests(ctx)
	return q, nil
}

func (s *Store) MarkStarted(ctx context.Context, id string, start time.Time) error {
	if err := s.quests.MarkStarted(ctx, id, start); err != nil {
		return err
	}
	s.emitQuests(ctx)
	return nil
}

func (s *Store) ClearStarted(ctx context.Context, id string) error {
	if err := s.quests.ClearStarted(ctx, id); err != nil {
		return err
	}
	s.emitQuests(ctx)
	return nil
}

func (s *Store) MarkCompleted(ctx context.Context, id string, done bool) error {
	if err := s.quests.MarkCompleted(ctx, id, done); err != nil {
		return err
	}
	s.emitQuests(ctx)
	return nil
}

func (s *Store) UpdateContent(ctx context.Context, id string, title string, minutes int, due string, xp int) error {
	if err := s.quests.UpdateContent(ctx, id, title, minutes, due, xp); err != nil {
		return err
	}
	s.emitQuests(ctx)
	return nil
}

func (s *Store) DeleteQuest(ctx context.Context, id string) error {
	if err := s.quests.Delete(ctx, id); err != nil {
		return err
	}
	s.emitQuests(ctx)
	return nil
}

// SubscribeQuests registers fn to receive the full quest list after each
// write. The returned cancel detaches the subscriber.
func (s *Store) SubscribeQuests(fn func([]Quest)) (cancel func()) {
	return s.watch.subscribeQuests(fn)
}

// SubscribeProfile registers fn to receive the profile document after each
// write.
func (s *Store) SubscribeProfile(fn func(Profile)) (cancel func()) {
	return s.watch.subscribeProfile(fn)
}

func (s *Store) emitQuests(ctx context.Context) {
	quests, err := s.quests.ListAll(ctx)
	if err != nil {
		s.log.Warn("quest snapshot reload failed", "err", err)
		return
	}
	s.watch.notifyQuests(quests)
}

func (s *Store) emitProfile(ctx context.Context) {
	p, err := s.profiles.Get(ctx, MainProfileKey)
	if err != nil || p == nil {
		s.log.Warn("profile snapshot reload failed", "err", err)
		return
	}
	s.watch.notifyProfile(*p)
}
