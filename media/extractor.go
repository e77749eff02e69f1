package media

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultFormat   = "bestaudio/best"
	DefaultTemplate = "%(title)s.%(ext)s"
)

// Config describes how yt-dlp is invoked.
type Config struct {
	BinaryPath string
	// FFmpegPath is passed as --ffmpeg-location when set.
	FFmpegPath string
	// Format is the yt-dlp format selector.
	Format string
	// OutputTemplate is joined onto DownloadOptions.OutputDir.
	OutputTemplate string
}

// Info is the result of a metadata-only probe.
type Info struct {
	Title    string
	Uploader string
	// Duration is in whole seconds rounded up; zero when the extractor reports none.
	Duration int
}

type DownloadOptions struct {
	OutputDir string
	Codec     string
	Quality   string
}

type Extractor struct {
	config Config
	runner Runner
}

func NewExtractor(cfg Config, runner Runner) *Extractor {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "yt-dlp"
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.OutputTemplate == "" {
		cfg.OutputTemplate = DefaultTemplate
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Extractor{config: cfg, runner: runner}
}

type probeOutput struct {
	Title    string   `json:"title"`
	Uploader string   `json:"uploader"`
	Duration *float64 `json:"duration"`
}

// Probe fetches title, uploader and duration without downloading media.
func (e *Extractor) Probe(ctx context.Context, url string) (*Info, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		url,
	}

	output, err := e.runner.Run(ctx, e.config.BinaryPath, args...)
	if err != nil {
		return nil, errors.WithMessage(err, "probe video metadata")
	}

	var out probeOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, errors.Wrap(err, "parse probe output")
	}

	info := &Info{Title: out.Title, Uploader: out.Uploader}
	if out.Duration != nil && *out.Duration > 0 {
		info.Duration = int(math.Ceil(*out.Duration))
	}
	return info, nil
}

// Download fetches the audio track, converts it to opts.Codec at opts.Quality
// and returns the path yt-dlp reports for the final file.
func (e *Extractor) Download(ctx context.Context, url string, opts DownloadOptions) (string, error) {
	output, err := e.runner.Run(ctx, e.config.BinaryPath, e.downloadArgs(url, opts)...)
	if err != nil {
		return "", errors.WithMessage(err, "download audio")
	}

	path := lastLine(string(output))
	if path == "" {
		return "", errors.New("yt-dlp did not report an output file")
	}
	return path, nil
}

func (e *Extractor) downloadArgs(url string, opts DownloadOptions) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"--no-simulate",
		"-f", e.config.Format,
		"-x",
		"--audio-format", opts.Codec,
		"--audio-quality", audioQuality(opts.Quality),
		"-o", filepath.Join(opts.OutputDir, e.config.OutputTemplate),
		"--print", "after_move:filepath",
	}
	if e.config.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", e.config.FFmpegPath)
	}
	return append(args, url)
}

// audioQuality turns a bare bitrate such as "192" into "192K". Values 0-10
// are yt-dlp VBR levels and pass through unchanged.
func audioQuality(q string) string {
	n, err := strconv.Atoi(q)
	if err != nil || n <= 10 {
		return q
	}
	return q + "K"
}

// NormalizeExt forces the extension of path to codec. The filename yt-dlp
// predicts for the source container (usually .webm) does not always match the
// file left behind by the audio post-processor.
func NormalizeExt(path, codec string) string {
	if codec == "" {
		return path
	}
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, "."+codec) {
		return path
	}
	return strings.TrimSuffix(path, ext) + "." + codec
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
