package video

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/nijaru/yt-summarizer/media"
	"github.com/nijaru/yt-summarizer/storage"
	"github.com/nijaru/yt-summarizer/validation"
)

type fakeMedia struct {
	info        *media.Info
	probeErr    error
	downloadErr error
	// fileName is written into the work dir; reported is what Download returns.
	fileName string
	reported string

	probes    int
	downloads int
	opts      media.DownloadOptions
}

func (f *fakeMedia) Probe(ctx context.Context, url string) (*media.Info, error) {
	f.probes++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.info, nil
}

func (f *fakeMedia) Download(ctx context.Context, url string, opts media.DownloadOptions) (string, error) {
	f.downloads++
	f.opts = opts
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	if f.fileName != "" {
		if err := os.WriteFile(filepath.Join(opts.OutputDir, f.fileName), []byte("ID3"), 0644); err != nil {
			return "", err
		}
	}
	return filepath.Join(opts.OutputDir, f.reported), nil
}

type fakeTranscripts struct {
	docs  []string
	err   error
	calls int
	langs []string
}

func (f *fakeTranscripts) Extract(ctx context.Context, url string, languages []string) ([]string, error) {
	f.calls++
	f.langs = languages
	return f.docs, f.err
}

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
	input   string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	f.calls++
	f.input = transcript
	return f.summary, f.err
}

type fixture struct {
	media       *fakeMedia
	transcripts *fakeTranscripts
	summarizer  *fakeSummarizer
	store       *storage.Store
	hook        *test.Hook
	service     Service
}

func newFixture(t *testing.T, m *fakeMedia, tr *fakeTranscripts, sum *fakeSummarizer) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()

	store, err := storage.New(t.TempDir(), time.Hour, logger)
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(m, tr, sum, store, validation.NewValidator(), Config{
		MaxDuration: 300 * time.Second,
		Codec:       "mp3",
		Quality:     "192",
		Languages:   []string{"es", "pt", "en"},
	}, logger)

	return &fixture{
		media:       m,
		transcripts: tr,
		summarizer:  sum,
		store:       store,
		hook:        hook,
		service:     svc,
	}
}
