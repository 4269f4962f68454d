package models

import "github.com/julianstephens/cloudcast/internal/constants"

// Status is the authoritative engine status payload. It is replaced wholesale on each fetch.
type Status struct {
	CurrentFileID       int64  `json:"current_file_id"`
	CurrentFileArtist   string `json:"current_file_artist"`
	CurrentFileTitle    string `json:"current_file_title"`
	CurrentFileDuration string `json:"current_file_duration"`
	CurrentFilePost     string `json:"current_file_post"`
	NextFileArtist      string `json:"next_file_artist"`
	NextFileTitle       string `json:"next_file_title"`
	NextFileDuration    string `json:"next_file_duration"`
	NextFilePost        string `json:"next_file_post"`
	CurrentShowTitle    string `json:"current_show_title"`
	CurrentShowDuration string `json:"current_show_duration"`
	NextShowTitle       string `json:"next_show_title"`
	NextShowDuration    string `json:"next_show_duration"`

	// Server timestamps, "YYYY-MM-DD HH:MM:SS"
	ShowStartedOn string `json:"current_client_schedule_start_on"`
	FilePlayedOn  string `json:"current_client_schedule_file_played_on"`
	GeneratedOn   string `json:"client_generated_on"`

	HostUsername string `json:"host_username"`

	ScheduleInputActive   bool   `json:"schedule_input_active"`
	ShowInputActive       bool   `json:"show_input_active"`
	TalkoverInputActive   bool   `json:"talkover_input_active"`
	MasterInputActive     bool   `json:"master_input_active"`
	ScheduleInputEnabled  bool   `json:"schedule_input_enabled"`
	ShowInputEnabled      bool   `json:"show_input_enabled"`
	TalkoverInputEnabled  bool   `json:"talkover_input_enabled"`
	MasterInputEnabled    bool   `json:"master_input_enabled"`
	ScheduleInputUsername string `json:"schedule_input_username"`
	ShowInputUsername     string `json:"show_input_username"`
	TalkoverInputUsername string `json:"talkover_input_username"`
	MasterInputUsername   string `json:"master_input_username"`
}

// InputState is the state of one live input line
type InputState struct {
	Line     constants.InputLine
	Active   bool
	Enabled  bool
	Username string
}

// Input returns the state of the given input line.
func (s Status) Input(line constants.InputLine) InputState {
	switch line {
	case constants.InputSchedule:
		return InputState{Line: line, Active: s.ScheduleInputActive, Enabled: s.ScheduleInputEnabled, Username: s.ScheduleInputUsername}
	case constants.InputShow:
		return InputState{Line: line, Active: s.ShowInputActive, Enabled: s.ShowInputEnabled, Username: s.ShowInputUsername}
	case constants.InputTalkover:
		return InputState{Line: line, Active: s.TalkoverInputActive, Enabled: s.TalkoverInputEnabled, Username: s.TalkoverInputUsername}
	case constants.InputMaster:
		return InputState{Line: line, Active: s.MasterInputActive, Enabled: s.MasterInputEnabled, Username: s.MasterInputUsername}
	}
	return InputState{Line: line}
}

// Derived holds the display fields extrapolated locally between fetches.
// They are never sent to the server.
type Derived struct {
	UpdatedOnTime             string
	CurrentFileElapsed        string
	CurrentFileRemaining      string
	CurrentFilePercentage     float64
	CurrentFilePostPercentage float64
	CurrentShowElapsed        string
	CurrentShowRemaining      string
	CurrentShowPercentage     float64
}
