package mockserver

import (
	"time"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/models"
	"github.com/julianstephens/cloudcast/internal/utils"
)

// DemoLibrary returns a small file library covering music and promotional genres.
func DemoLibrary() []*models.File {
	return []*models.File{
		{ID: 1, Artist: "Station", Title: "Top of the Hour", Duration: "00:00:15", Genre: "Intro"},
		{ID: 2, Artist: "Nina Simone", Title: "Feeling Good", Album: "I Put a Spell on You", Duration: "00:02:53", Genre: "Jazz"},
		{ID: 3, Artist: "Miles Davis", Title: "So What", Album: "Kind of Blue", Duration: "00:09:22", Genre: "Jazz"},
		{ID: 4, Artist: "Station", Title: "Late Night Sweeper", Duration: "00:00:08", Genre: "Sweeper"},
		{ID: 5, Artist: "Massive Attack", Title: "Teardrop", Album: "Mezzanine", Duration: "00:05:30", Genre: "Trip Hop", Post: "00:00:22"},
		{ID: 6, Artist: "Portishead", Title: "Roads", Album: "Dummy", Duration: "00:05:05", Genre: "Trip Hop"},
		{ID: 7, Artist: "Local Bakery", Title: "Fresh Bread Spot", Duration: "00:00:30", Genre: "Ad"},
		{ID: 8, Artist: "Bonobo", Title: "Kerala", Album: "Migration", Duration: "00:04:09", Genre: "Electronic"},
		{ID: 9, Artist: "Khruangbin", Title: "Maria También", Album: "Con Todo El Mundo", Duration: "00:03:32", Genre: "Funk"},
		{ID: 10, Artist: "Station", Title: "Station ID", Duration: "00:00:05", Genre: "Bumper"},
		{ID: 11, Artist: "Radiohead", Title: "Weird Fishes", Album: "In Rainbows", Duration: "00:05:18", Genre: "Rock"},
		{ID: 12, Artist: "Air", Title: "La Femme d'Argent", Album: "Moon Safari", Duration: "00:07:11", Genre: "Electronic", Post: "00:00:40"},
	}
}

// DemoDates builds an on-air schedule started at now plus the next show.
func DemoDates(library []*models.File, now time.Time) []*models.ScheduleDate {
	byID := make(map[int64]*models.File, len(library))
	for _, f := range library {
		byID[f.ID] = f
	}

	var nextID int64 = 100
	build := func(id int64, title string, start time.Time, fileIDs ...int64) *models.Schedule {
		sched := &models.Schedule{ID: id, ShowTitle: title, StartOn: utils.FormatDateTime(start)}
		total := 0
		for _, fid := range fileIDs {
			nextID++
			sched.ScheduleFiles = append(sched.ScheduleFiles, &models.ScheduleFile{ID: nextID, File: byID[fid]})
			total += utils.ToSeconds(byID[fid].Duration)
		}
		sched.EndAt = utils.FormatDateTime(start.Add(time.Duration(total) * time.Second))
		return sched
	}

	onAir := build(1, "Evening Grooves", now, 1, 2, 3, 4, 5, 6, 7, 8)
	next := build(2, "Night Drive", now.Add(time.Hour), 10, 9, 11, 4, 12)

	dates := []*models.ScheduleDate{{Date: now.Format(constants.DateFormat), Schedules: []*models.Schedule{onAir}}}
	if nextDate := now.Add(time.Hour).Format(constants.DateFormat); nextDate == dates[0].Date {
		dates[0].Schedules = append(dates[0].Schedules, next)
	} else {
		dates = append(dates, &models.ScheduleDate{Date: nextDate, Schedules: []*models.Schedule{next}})
	}
	return dates
}

// NewDemoStation returns a station loaded with the demo library and schedules,
// with the first entry already on air.
func NewDemoStation(now func() time.Time) *Station {
	s := NewStation(now)
	library := DemoLibrary()
	s.Load(library, DemoDates(library, s.now()))
	s.Advance()
	return s
}
