package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "https://www.youtube.com"

	// Watch pages are large but bounded; anything past this is not a page.
	maxBodySize = 8 << 20

	captionMarker = `"captionTracks":`
	kindASR       = "asr"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var DefaultLanguages = []string{"es", "pt", "en"}

var (
	ErrInvalidVideoID      = errors.New("could not find a video id in url")
	ErrNoCaptions          = errors.New("video has no caption tracks")
	ErrLanguageUnavailable = errors.New("no caption track in the requested languages")
)

var (
	bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

type Options struct {
	// BaseURL replaces https://www.youtube.com for the watch page request.
	BaseURL   string
	Languages []string
}

// Track is one entry of the captionTracks array embedded in the watch page.
type Track struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

func (t Track) Generated() bool {
	return t.Kind == kindASR
}

type Extractor struct {
	client  HTTPClient
	options Options
}

func NewExtractor(client HTTPClient, opts Options) *Extractor {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages
	}
	return &Extractor{client: client, options: opts}
}

// Extract returns the transcript documents for videoURL. languages overrides
// the configured preference order when non-empty.
func (e *Extractor) Extract(ctx context.Context, videoURL string, languages []string) ([]string, error) {
	id := VideoID(videoURL)
	if id == "" {
		return nil, errors.Wrapf(ErrInvalidVideoID, "url %q", videoURL)
	}
	if len(languages) == 0 {
		languages = e.options.Languages
	}

	tracks, err := e.Tracks(ctx, id)
	if err != nil {
		return nil, err
	}

	track, ok := SelectTrack(tracks, languages)
	if !ok {
		return nil, errors.Wrapf(ErrLanguageUnavailable, "video %s, languages %v", id, languages)
	}

	text, err := e.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	return []string{text}, nil
}

// Tracks lists the caption tracks advertised on the watch page of videoID.
func (e *Extractor) Tracks(ctx context.Context, videoID string) ([]Track, error) {
	page, err := e.get(ctx, e.options.BaseURL+"/watch?v="+url.QueryEscape(videoID))
	if err != nil {
		return nil, errors.WithMessage(err, "fetch watch page")
	}
	return parseTracks(page)
}

func parseTracks(page []byte) ([]Track, error) {
	idx := strings.Index(string(page), captionMarker)
	if idx < 0 {
		return nil, ErrNoCaptions
	}

	// The decoder stops after the array; the rest of the page is ignored.
	var tracks []Track
	dec := json.NewDecoder(strings.NewReader(string(page[idx+len(captionMarker):])))
	if err := dec.Decode(&tracks); err != nil {
		return nil, errors.Wrap(err, "decode caption tracks")
	}
	if len(tracks) == 0 {
		return nil, ErrNoCaptions
	}
	return tracks, nil
}

// SelectTrack walks languages in order and, for each, prefers a manually
// created track over an auto-generated one.
func SelectTrack(tracks []Track, languages []string) (Track, bool) {
	for _, lang := range languages {
		var generated *Track
		for i := range tracks {
			if tracks[i].LanguageCode != lang {
				continue
			}
			if !tracks[i].Generated() {
				return tracks[i], true
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, true
		}
	}
	return Track{}, false
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func (e *Extractor) fetchTimedText(ctx context.Context, trackURL string) (string, error) {
	body, err := e.get(ctx, trackURL)
	if err != nil {
		return "", errors.WithMessage(err, "fetch timed text")
	}
	return parseTimedText(body)
}

// parseTimedText joins every <text> piece with a single space. Pieces arrive
// HTML-escaped inside the XML escaping, and may carry inline markup.
func parseTimedText(body []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", errors.Wrap(err, "decode timed text")
	}

	pieces := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := html.UnescapeString(t.Value)
		text = tagPattern.ReplaceAllString(text, "")
		text = strings.Join(strings.Fields(text), " ")
		if text != "" {
			pieces = append(pieces, text)
		}
	}
	return strings.Join(pieces, " "), nil
}

func (e *Extractor) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Skips the EU consent interstitial.
	req.Header.Set("Cookie", "CONSENT=YES+cb")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}

// VideoID extracts the 11 character video id from a YouTube link. Watch
// pages carry it in the v query parameter wherever it appears; youtu.be,
// shorts, embed and live links carry it as the last path segment. A bare id
// is returned unchanged.
func VideoID(input string) string {
	if bareIDPattern.MatchString(input) {
		return input
	}

	raw := input
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	path := strings.TrimRight(u.Path, "/")
	var id string
	if strings.HasSuffix(path, "/watch") {
		id = u.Query().Get("v")
	} else if i := strings.LastIndex(path, "/"); i >= 0 {
		id = path[i+1:]
	}

	if !bareIDPattern.MatchString(id) {
		return ""
	}
	return id
}
