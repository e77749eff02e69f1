package models

// VideoRequest is the body accepted by every /youtube endpoint.
type VideoRequest struct {
	URL string `json:"url"`
}

// TranscriptResponse is returned by extract_text.
type TranscriptResponse struct {
	Title         string `json:"title"`
	Channel       string `json:"channel"`
	Transcription string `json:"transcription"`
}

// SummaryResponse is returned by generate_summary. It never carries the
// transcription.
type SummaryResponse struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
	Summary string `json:"summary"`
}

func NewTranscriptResponse(v *Video) *TranscriptResponse {
	return &TranscriptResponse{
		Title:         v.Title,
		Channel:       v.Channel,
		Transcription: v.Transcription,
	}
}

func NewSummaryResponse(v *Video) *SummaryResponse {
	return &SummaryResponse{
		Title:   v.Title,
		Channel: v.Channel,
		Summary: v.Summary,
	}
}
