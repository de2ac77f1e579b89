package engine

import (
	"sort"
	"time"

	"pixeldue/internal/storage"
)

// Board is the quest list grouped the way the UI presents it. Running
// quests and open bounties sit in their own sections; pending quests
// split on due date.
type Board struct {
	Active   []storage.Quest
	Bounties []storage.Quest
	DueToday []storage.Quest
	Upcoming []storage.Quest
	Someday  []storage.Quest
	Done     []storage.Quest
}

// Board groups the cached quest list against the current day.
func (s *Session) Board() Board {
	s.mu.Lock()
	quests := make([]storage.Quest, len(s.quests))
	copy(quests, s.quests)
	now := s.clock.Now()
	s.mu.Unlock()
	return BuildBoard(quests, now)
}

// BuildBoard sorts quests into board sections. Overdue quests surface in
// DueToday rather than hiding in the past. Upcoming and DueToday order
// by due date ascending; Someday and Done keep newest-first creation
// order.
func BuildBoard(quests []storage.Quest, now time.Time) Board {
	today := now.Format(dateLayout)

	var b Board
	for _, q := range quests {
		switch {
		case q.IsCompleted:
			b.Done = append(b.Done, q)
		case q.IsStarted:
			b.Active = append(b.Active, q)
		case q.IsBounty:
			b.Bounties = append(b.Bounties, q)
		case q.DueDate != "" && q.DueDate <= today:
			b.DueToday = append(b.DueToday, q)
		case q.DueDate != "":
			b.Upcoming = append(b.Upcoming, q)
		default:
			b.Someday = append(b.Someday, q)
		}
	}

	byDue := func(list []storage.Quest) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DueDate < list[j].DueDate
		})
	}
	byDue(b.DueToday)
	byDue(b.Upcoming)
	return b
}
