package mockserver

import (
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// Advance simulates the engine finishing the playing entry: the first pending
// queued entry is played and the queue is topped up to QueueDepth. An
// exhausted on-air schedule gives way to the next one first.
func (s *Station) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := utils.FormatDateTime(s.now())
	sched := s.onAir()
	if sched == nil {
		return
	}
	if exhausted(sched) && len(s.schedules()) > 1 {
		s.dates[0].Schedules = s.dates[0].Schedules[1:]
		if len(s.dates[0].Schedules) == 0 {
			s.dates = s.dates[1:]
		}
		sched = s.onAir()
		sched.StartOn = stamp
	}

	topUp(sched, stamp)
	for _, sf := range sched.ScheduleFiles {
		if pending(sf) {
			sf.PlayedOn = ptr(stamp)
			break
		}
	}
	topUp(sched, stamp)
	s.syncStatus()
}

// syncStatus derives the engine status from the on-air schedule.
func (s *Station) syncStatus() {
	st := &s.status
	st.CurrentFileID, st.CurrentFileArtist, st.CurrentFileTitle, st.CurrentFileDuration, st.CurrentFilePost = 0, "", "", "", ""
	st.NextFileArtist, st.NextFileTitle, st.NextFileDuration, st.NextFilePost = "", "", "", ""
	st.CurrentShowTitle, st.CurrentShowDuration, st.ShowStartedOn, st.FilePlayedOn = "", "", "", ""
	st.NextShowTitle, st.NextShowDuration = "", ""

	all := s.schedules()
	if len(all) == 0 {
		return
	}
	sched := all[0]
	st.CurrentShowTitle = sched.ShowTitle
	st.CurrentShowDuration = sched.TotalDuration()
	st.ShowStartedOn = sched.StartOn
	if len(all) > 1 {
		st.NextShowTitle = all[1].ShowTitle
		st.NextShowDuration = all[1].TotalDuration()
	}

	next := 0
	if i := s.lastPlayedIndex(sched); i >= 0 {
		cur := sched.ScheduleFiles[i]
		if f := cur.File; f != nil {
			st.CurrentFileID, st.CurrentFileArtist, st.CurrentFileTitle = f.ID, f.Artist, f.Title
			st.CurrentFileDuration, st.CurrentFilePost = f.Duration, f.Post
		}
		st.FilePlayedOn = *cur.PlayedOn
		next = i + 1
	}
	for _, sf := range sched.ScheduleFiles[next:] {
		if sf.SkippedOn != nil || sf.File == nil {
			continue
		}
		st.NextFileArtist, st.NextFileTitle = sf.File.Artist, sf.File.Title
		st.NextFileDuration, st.NextFilePost = sf.File.Duration, sf.File.Post
		break
	}
}

func (s *Station) onAir() *models.Schedule {
	if len(s.dates) == 0 || len(s.dates[0].Schedules) == 0 {
		return nil
	}
	return s.dates[0].Schedules[0]
}

func (s *Station) lastPlayedIndex(sched *models.Schedule) int {
	last := -1
	for i, sf := range sched.ScheduleFiles {
		if sf.PlayedOn != nil && *sf.PlayedOn != "" {
			last = i
		}
	}
	return last
}

// topUp queues unclaimed entries until QueueDepth entries are pending.
func topUp(sched *models.Schedule, stamp string) {
	queued := 0
	for _, sf := range sched.ScheduleFiles {
		switch {
		case pending(sf):
			queued++
		case !sf.IsStatic() && queued < QueueDepth:
			sf.QueuedOn = ptr(stamp)
			queued++
		}
	}
}

// exhausted reports whether every entry has been played or skipped.
func exhausted(sched *models.Schedule) bool {
	for _, sf := range sched.ScheduleFiles {
		if sf.PlayedOn == nil && sf.SkippedOn == nil {
			return false
		}
	}
	return true
}

// pending reports whether an entry is queued but not yet played or skipped.
func pending(sf *models.ScheduleFile) bool {
	return sf.IsQueued() && sf.PlayedOn == nil && sf.SkippedOn == nil
}

func ptr(s string) *string { return &s }
