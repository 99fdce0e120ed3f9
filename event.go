package mpvipc

import (
	"encoding/json"
	"fmt"
)

// EventKind is the value of the "event" field of a peer notification.
type EventKind string

// https://mpv.io/manual/stable/#list-of-events
const (
	EventPropertyChange  EventKind = "property-change"
	EventStartFile       EventKind = "start-file"
	EventEndFile         EventKind = "end-file"
	EventFileLoaded      EventKind = "file-loaded"
	EventSeek            EventKind = "seek"
	EventPlaybackRestart EventKind = "playback-restart"
	EventShutdown        EventKind = "shutdown"
	EventVideoReconfig   EventKind = "video-reconfig"
	EventAudioReconfig   EventKind = "audio-reconfig"
	EventLogMessage      EventKind = "log-message"

	// Deprecated by mpv in favour of observe_property.
	EventTracksChanged  EventKind = "tracks-changed"
	EventTrackSwitched  EventKind = "track-switched"
	EventPause          EventKind = "pause"
	EventUnpause        EventKind = "unpause"
	EventMetadataUpdate EventKind = "metadata-update"
	EventIdle           EventKind = "idle"
	EventTick           EventKind = "tick"
	EventChapterChange  EventKind = "chapter-change"
)

// Event is an unsolicited message from the player.
type Event struct {
	Kind EventKind
	// ID is the subscription id of a property-change event.
	ID    int64
	Name  string
	Data  json.RawMessage
	Error string

	hasID bool
	raw   []byte
}

// Raw returns the line the event was decoded from.
func (e *Event) Raw() []byte { return e.raw }

// Decode unmarshals the whole event object into v, e.g. a *StartFile or an
// *EndFile.
func (e *Event) Decode(v any) error {
	if err := json.Unmarshal(e.raw, v); err != nil {
		return &DecodeError{Type: fmt.Sprintf("%T", v), Data: e.raw, Err: err}
	}
	return nil
}

// PropertyChange is one notification of an observed property.
//
// Data may be JSON null when the property is unavailable, e.g. while the
// player is shutting down.
type PropertyChange struct {
	Name Property
	Data json.RawMessage

	status string // error field of the event, if any
}

// StartFile is the payload of a start-file event.
type StartFile struct {
	PlaylistEntryID int64 `json:"playlist_entry_id"`
}

// EndFileReason tells why playback of a file ended.
type EndFileReason string

const (
	EndFileEOF      EndFileReason = "eof"
	EndFileStop     EndFileReason = "stop"
	EndFileQuit     EndFileReason = "quit"
	EndFileError    EndFileReason = "error"
	EndFileRedirect EndFileReason = "redirect"
	EndFileUnknown  EndFileReason = "unknown"
)

// EndFile is the payload of an end-file event.
type EndFile struct {
	Reason          EndFileReason `json:"reason"`
	PlaylistEntryID int64         `json:"playlist_entry_id"`
	// FileError is set when Reason is EndFileError.
	FileError string `json:"file_error,omitempty"`
	// PlaylistInsertID and PlaylistInsertNumEntries are set when the entry
	// was replaced by other entries, e.g. a playlist redirect.
	PlaylistInsertID         int64 `json:"playlist_insert_id,omitempty"`
	PlaylistInsertNumEntries int64 `json:"playlist_insert_num_entries,omitempty"`
}

// LogMessage is the payload of a log-message event, enabled by
// Client.RequestLogMessages.
type LogMessage struct {
	Prefix string `json:"prefix"`
	Level  string `json:"level"`
	Text   string `json:"text"`
}
