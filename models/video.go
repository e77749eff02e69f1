package models

const Unknown = "Unknown"

// Video accumulates what a single request learns about one video.
type Video struct {
	URL             string
	Title           string
	Channel         string
	DurationSeconds int
	Transcription   string
	Summary         string
}

// NewVideo fills missing title and channel with "Unknown".
func NewVideo(url, title, channel string, duration int) *Video {
	if title == "" {
		title = Unknown
	}
	if channel == "" {
		channel = Unknown
	}
	return &Video{
		URL:             url,
		Title:           title,
		Channel:         channel,
		DurationSeconds: duration,
	}
}

func (v *Video) HasTranscription() bool { return v.Transcription != "" }
func (v *Video) HasSummary() bool       { return v.Summary != "" }
