package video

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summarizer/media"
)

type Prober interface {
	Probe(ctx context.Context, url string) (*media.Info, error)
}

// Gate rejects videos longer than a fixed cap. It fails closed: a video whose
// duration cannot be determined is rejected.
type Gate struct {
	prober Prober
	limit  int
	logger logrus.FieldLogger
}

func NewGate(prober Prober, limit time.Duration, logger logrus.FieldLogger) *Gate {
	return &Gate{
		prober: prober,
		limit:  int(limit / time.Second),
		logger: logger,
	}
}

// WithinLimit probes url once. The probed metadata is returned alongside the
// verdict so callers need not probe again.
func (g *Gate) WithinLimit(ctx context.Context, url string) (*media.Info, bool) {
	info, err := g.prober.Probe(ctx, url)
	if err != nil {
		g.logger.Errorf("Error validating video duration for URL %s: %v", url, err)
		return nil, false
	}

	if info.Duration > g.limit {
		g.logger.Errorf("Video duration (%ds) exceeds the limit of %ds for URL %s", info.Duration, g.limit, url)
		return info, false
	}
	return info, true
}

// LimitMessage is the client-facing text for a rejected video.
func LimitMessage(limit time.Duration) string {
	if limit >= time.Minute && limit%time.Minute == 0 {
		return fmt.Sprintf("Video duration exceeds %d-minute limit.", int(limit/time.Minute))
	}
	return fmt.Sprintf("Video duration exceeds %d-second limit.", int(limit/time.Second))
}
