package video

import (
	"context"
	"time"

	"github.com/nijaru/yt-summarizer/media"
	"github.com/nijaru/yt-summarizer/models"
	"github.com/nijaru/yt-summarizer/storage"
)

const (
	MessageDownloadFailed  = "An error occurred while downloading the audio"
	MessageExtractFailed   = "An error occurred while extracting the text"
	MessageSummaryFailed   = "An error occurred while generating the summary"
	MessageNoTranscription = "No transcription available to generate summary."
	MessageEmptySummary    = "Failed to generate summary from transcription."
)

type Service interface {
	// DownloadAudio fetches the audio track into a fresh work dir. The caller
	// must Close the returned Audio once it has been served.
	DownloadAudio(ctx context.Context, url string) (*Audio, error)

	// ExtractText returns title, channel and the joined transcript.
	ExtractText(ctx context.Context, url string) (*models.Video, error)

	// GenerateSummary runs ExtractText and summarizes its transcript.
	GenerateSummary(ctx context.Context, url string) (*models.Video, error)
}

type MediaExtractor interface {
	Probe(ctx context.Context, url string) (*media.Info, error)
	Download(ctx context.Context, url string, opts media.DownloadOptions) (string, error)
}

type TranscriptExtractor interface {
	Extract(ctx context.Context, url string, languages []string) ([]string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

type Storage interface {
	Acquire() (*storage.WorkDir, error)
}

type Config struct {
	// MaxDuration is inclusive: a video exactly this long is accepted.
	MaxDuration time.Duration
	Codec       string
	Quality     string
	Languages   []string
}
