package mpvipc

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Property names an mpv property. Any string the player understands is
// valid; the constants cover the commonly used ones.
//
// https://mpv.io/manual/stable/#properties
type Property string

func (p Property) String() string { return string(p) }

const (
	AudioSpeedCorrection Property = "audio-speed-correction"
	VideoSpeedCorrection Property = "video-speed-correction"
	DisplaySyncActive    Property = "display-sync-active"
	Filename             Property = "filename"
	FilenameNoExt        Property = "filename/no-ext"
	FileSize             Property = "file-size"
	EstimatedFrameCount  Property = "estimated-frame-count"
	EstimatedFrameNumber Property = "estimated-frame-number"
	Path                 Property = "path"
	StreamOpenFilename   Property = "stream-open-filename"
	MediaTitle           Property = "media-title"
	FileFormat           Property = "file-format"
	CurrentDemuxer       Property = "current-demuxer"
	StreamPath           Property = "stream-path"
	StreamPos            Property = "stream-pos"
	StreamEnd            Property = "stream-end"
	Duration             Property = "duration"
	PercentPos           Property = "percent-pos"
	TimePos              Property = "time-pos"
	TimeRemaining        Property = "time-remaining"
	PlaybackTime         Property = "playback-time"
	Seeking              Property = "seeking"
	Volume               Property = "volume"
	Mute                 Property = "mute"
	Pause                Property = "pause"
	Speed                Property = "speed"
	Fullscreen           Property = "fullscreen"
	Title                Property = "title"
	IdleActive           Property = "idle-active"
	EOFReached           Property = "eof-reached"
	PlaylistPos          Property = "playlist-pos"
	PlaylistCount        Property = "playlist-count"

	// Deprecated: always 0 since mpv 0.14.
	TimeStart Property = "time-start"
)

// Sync and frame timing.
const (
	AVSync                Property = "avsync"
	TotalAVSyncChange     Property = "total-avsync-change"
	DecoderFrameDropCount Property = "decoder-frame-drop-count"
	FrameDropCount        Property = "frame-drop-count"
	MistimedFrameCount    Property = "mistimed-frame-count"
	VsyncRatio            Property = "vsync-ratio"
	VODelayedFrameCount   Property = "vo-delayed-frame-count"
	AudioPTS              Property = "audio-pts"
	PlaytimeRemaining     Property = "playtime-remaining"
)

// Chapters, editions and metadata.
const (
	Chapter          Property = "chapter"
	Chapters         Property = "chapters"
	ChapterList      Property = "chapter-list"
	ChapterMetadata  Property = "chapter-metadata"
	Edition          Property = "edition"
	CurrentEdition   Property = "current-edition"
	Editions         Property = "editions"
	EditionList      Property = "edition-list"
	Metadata         Property = "metadata"
	FilteredMetadata Property = "filtered-metadata"
)

// Demuxer and cache.
const (
	CoreIdle             Property = "core-idle"
	CacheSpeed           Property = "cache-speed"
	DemuxerCacheDuration Property = "demuxer-cache-duration"
	DemuxerCacheTime     Property = "demuxer-cache-time"
	DemuxerCacheIdle     Property = "demuxer-cache-idle"
	DemuxerCacheState    Property = "demuxer-cache-state"
	DemuxerViaNetwork    Property = "demuxer-via-network"
	DemuxerStartTime     Property = "demuxer-start-time"
	PausedForCache       Property = "paused-for-cache"
	CacheBufferingState  Property = "cache-buffering-state"
	Seekable             Property = "seekable"
	PartiallySeekable    Property = "partially-seekable"
	PlaybackAbort        Property = "playback-abort"
)

// Audio.
const (
	MixerActive     Property = "mixer-active"
	AOVolume        Property = "ao-volume"
	AOMute          Property = "ao-mute"
	AudioCodec      Property = "audio-codec"
	AudioCodecName  Property = "audio-codec-name"
	AudioParams     Property = "audio-params"
	AudioOutParams  Property = "audio-out-params"
	AudioBitrate    Property = "audio-bitrate"
	AudioDevice     Property = "audio-device"
	AudioDeviceList Property = "audio-device-list"
	CurrentAO       Property = "current-ao"
)

// Video and display.
const (
	Hwdec               Property = "hwdec"
	HwdecCurrent        Property = "hwdec-current"
	HwdecInterop        Property = "hwdec-interop"
	VideoFormat         Property = "video-format"
	VideoCodec          Property = "video-codec"
	Width               Property = "width"
	Height              Property = "height"
	DWidth              Property = "dwidth"
	DHeight             Property = "dheight"
	VideoParams         Property = "video-params"
	VideoDecParams      Property = "video-dec-params"
	VideoOutParams      Property = "video-out-params"
	VideoFrameInfo      Property = "video-frame-info"
	VideoBitrate        Property = "video-bitrate"
	ContainerFPS        Property = "container-fps"
	EstimatedVfFPS      Property = "estimated-vf-fps"
	WindowScale         Property = "window-scale"
	CurrentWindowScale  Property = "current-window-scale"
	DisplayNames        Property = "display-names"
	DisplayFPS          Property = "display-fps"
	EstimatedDisplayFPS Property = "estimated-display-fps"
	VsyncJitter         Property = "vsync-jitter"
	DisplayHiDPIScale   Property = "display-hidpi-scale"
	OSDWidth            Property = "osd-width"
	OSDHeight           Property = "osd-height"
	OSDPar              Property = "osd-par"
	OSDDimensions       Property = "osd-dimensions"
	VOConfigured        Property = "vo-configured"
	CurrentVO           Property = "current-vo"
)

// Subtitles, playlist and tracks.
const (
	SubText            Property = "sub-text"
	SubStart           Property = "sub-start"
	SubEnd             Property = "sub-end"
	SubBitrate         Property = "sub-bitrate"
	PlaylistPos1       Property = "playlist-pos-1"
	PlaylistCurrentPos Property = "playlist-current-pos"
	PlaylistPlayingPos Property = "playlist-playing-pos"
	Playlist           Property = "playlist"
	TrackList          Property = "track-list"
)

// Player build and introspection.
const (
	WorkingDirectory Property = "working-directory"
	MPVVersion       Property = "mpv-version"
	MPVConfiguration Property = "mpv-configuration"
	FFmpegVersion    Property = "ffmpeg-version"
	PropertyList     Property = "property-list"
	ProfileList      Property = "profile-list"
	CommandList      Property = "command-list"
)

var jsonNull = []byte("null")

// decodeValue unmarshals a response or event payload into T. A missing or
// null payload only decodes into types that can hold nil.
func decodeValue[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		if nilable(reflect.TypeOf(&v).Elem()) {
			return v, nil
		}
		if len(data) == 0 {
			data = jsonNull
		}
		return v, &DecodeError{Type: typeName[T](), Data: data}
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, &DecodeError{Type: typeName[T](), Data: data, Err: err}
	}
	return v, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
