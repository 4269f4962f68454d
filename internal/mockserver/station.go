// Package mockserver is an in-memory station server. It implements the routes
// the console uses and can simulate the automation engine claiming entries.
package mockserver

import (
	"errors"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// SearchLimit caps restricted search results.
const SearchLimit = 25

// QueueDepth is how many entries the simulated engine keeps queued ahead.
const QueueDepth = 2

var ErrUnknownFile = errors.New("unknown file")

// Station is the in-memory station state. It is safe for concurrent use.
type Station struct {
	mu      sync.Mutex
	status  models.Status
	dates   []*models.ScheduleDate
	library []*models.File
	nextID  int64
	now     func() time.Time
}

// NewStation creates an empty station. now defaults to time.Now.
func NewStation(now func() time.Time) *Station {
	if now == nil {
		now = time.Now
	}
	return &Station{now: now, nextID: 1000}
}

// Load replaces the library and schedule tree.
func (s *Station) Load(library []*models.File, dates []*models.ScheduleDate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.library = library
	s.dates = dates
	for _, sched := range s.schedules() {
		s.nextID = max(s.nextID, sched.ID+1)
		for _, sf := range sched.ScheduleFiles {
			s.nextID = max(s.nextID, sf.ID+1)
		}
	}
	s.syncStatus()
}

// Status returns the engine status stamped with the current time.
func (s *Station) Status() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	st.GeneratedOn = utils.FormatDateTime(s.now())
	return st
}

// Dates returns a deep copy of the schedule tree.
func (s *Station) Dates() []*models.ScheduleDate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.ScheduleDate, 0, len(s.dates))
	for _, d := range s.dates {
		cd := &models.ScheduleDate{Date: d.Date}
		for _, sched := range d.Schedules {
			cs := *sched
			cs.ScheduleFiles = make([]*models.ScheduleFile, 0, len(sched.ScheduleFiles))
			for _, sf := range sched.ScheduleFiles {
				csf := *sf
				if sf.File != nil {
					f := *sf.File
					csf.File = &f
				}
				cs.ScheduleFiles = append(cs.ScheduleFiles, &csf)
			}
			cd.Schedules = append(cd.Schedules, &cs)
		}
		out = append(out, cd)
	}
	return out
}

// Save replaces the order of a schedule. The posted order must begin with the
// entries the engine has already claimed, in the station's order.
func (s *Station) Save(id int64, fileIDs []int64) (constants.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched := s.find(id)
	if sched == nil {
		return constants.SaveScheduleNotFound, nil
	}

	var static, movable []*models.ScheduleFile
	for _, sf := range sched.ScheduleFiles {
		if sf.IsStatic() {
			static = append(static, sf)
		} else {
			movable = append(movable, sf)
		}
	}
	if len(fileIDs) < len(static) {
		return constants.SaveScheduleOutOfSync, nil
	}
	for i, sf := range static {
		if sf.FileID() != fileIDs[i] {
			return constants.SaveScheduleOutOfSync, nil
		}
	}

	files := make([]*models.ScheduleFile, 0, len(fileIDs))
	files = append(files, static...)
	for _, fid := range fileIDs[len(static):] {
		// keep the id of an existing entry for the same file
		if i := slices.IndexFunc(movable, func(sf *models.ScheduleFile) bool { return sf.FileID() == fid }); i >= 0 {
			files = append(files, movable[i])
			movable = slices.Delete(movable, i, i+1)
			continue
		}
		f := s.file(fid)
		if f == nil {
			return "", ErrUnknownFile
		}
		files = append(files, &models.ScheduleFile{ID: s.id(), File: f})
	}
	sched.ScheduleFiles = files
	s.syncStatus()
	return constants.SaveSuccess, nil
}

// Deactivate removes schedules and prunes empty dates.
func (s *Station) Deactivate(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := s.dates[:0]
	for _, d := range s.dates {
		d.Schedules = slices.DeleteFunc(d.Schedules, func(sched *models.Schedule) bool {
			return slices.Contains(ids, sched.ID)
		})
		if len(d.Schedules) > 0 {
			dates = append(dates, d)
		}
	}
	s.dates = dates
	s.syncStatus()
}

// Generate appends a schedule after the last one, filled from the library.
func (s *Station) Generate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now().Truncate(time.Hour).Add(time.Hour)
	if all := s.schedules(); len(all) > 0 {
		if end, ok := utils.ParseDateTime(all[len(all)-1].EndAt); ok {
			start = end
		}
	}

	sched := &models.Schedule{ID: s.id(), ShowTitle: "Automation", StartOn: utils.FormatDateTime(start)}
	total := 0
	for _, f := range s.library {
		if total >= int(time.Hour/time.Second) {
			break
		}
		sched.ScheduleFiles = append(sched.ScheduleFiles, &models.ScheduleFile{ID: s.id(), File: f})
		total += utils.ToSeconds(f.Duration)
	}
	sched.EndAt = utils.FormatDateTime(start.Add(time.Duration(total) * time.Second))

	date := start.Format(constants.DateFormat)
	for _, d := range s.dates {
		if d.Date == date {
			d.Schedules = append(d.Schedules, sched)
			return
		}
	}
	s.dates = append(s.dates, &models.ScheduleDate{Date: date, Schedules: []*models.Schedule{sched}})
}

// Search matches files by artist, title, album or genre.
func (s *Station) Search(query string, restrict, randomize bool) []*models.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []*models.File{}
	for _, f := range s.library {
		haystack := strings.ToLower(strings.Join([]string{f.Artist, f.Title, f.Album, f.Genre}, " "))
		if q == "" || strings.Contains(haystack, q) {
			out = append(out, f)
		}
	}
	if randomize {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	if restrict && len(out) > SearchLimit {
		out = out[:SearchLimit]
	}
	return out
}

// EnableInput sets the enabled flag of an input line.
func (s *Station) EnableInput(line constants.InputLine, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch line {
	case constants.InputSchedule:
		s.status.ScheduleInputEnabled = enabled
	case constants.InputShow:
		s.status.ShowInputEnabled = enabled
	case constants.InputTalkover:
		s.status.TalkoverInputEnabled = enabled
	case constants.InputMaster:
		s.status.MasterInputEnabled = enabled
	default:
		return false
	}
	return true
}

// SetPost sets the post mark of a library file.
func (s *Station) SetPost(fileID int64, post string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.file(fileID)
	if f == nil {
		return ErrUnknownFile
	}
	f.Post = utils.Normalize(post)
	if s.status.CurrentFileID == fileID {
		s.status.CurrentFilePost = f.Post
	}
	return nil
}

func (s *Station) schedules() []*models.Schedule {
	var out []*models.Schedule
	for _, d := range s.dates {
		out = append(out, d.Schedules...)
	}
	return out
}

func (s *Station) find(id int64) *models.Schedule {
	for _, sched := range s.schedules() {
		if sched.ID == id {
			return sched
		}
	}
	return nil
}

func (s *Station) file(id int64) *models.File {
	for _, f := range s.library {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s *Station) id() int64 {
	s.nextID++
	return s.nextID
}
