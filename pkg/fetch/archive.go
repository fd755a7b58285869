package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/forgelabs/crossforge/pkg/download"
	"github.com/forgelabs/crossforge/pkg/errors"
)

// archiveStrategy fetches a source archive over HTTP(S)/FTP through the
// download manager. It is the generic method and also serves the mirror
// links of the fallback chain.
type archiveStrategy struct {
	dl download.Manager
}

// NewArchiveStrategy creates the generic archive-fetch strategy.
func NewArchiveStrategy(dl download.Manager) Strategy {
	return &archiveStrategy{dl: dl}
}

func (s *archiveStrategy) Fetch(ctx context.Context, req Request, mode Mode) error {
	raw := joinURL(req.Site, req.Filename)
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrDownloadFailed, "bad URL %q: %v", raw, err)
	}

	switch mode {
	case ModeSourceCheck:
		return s.dl.Head(ctx, u)
	case ModeShowExternalDeps:
		return nil
	default:
		_, err := s.dl.Fetch(ctx, download.Item{
			ID:       req.Filename,
			URL:      u,
			Filename: req.Filename,
		}, download.Options{Dir: req.DestDir})
		return err
	}
}

func (s *archiveStrategy) Enumerate(req Request) string {
	return fmt.Sprintf("wget %s", joinURL(req.Site, req.Filename))
}
