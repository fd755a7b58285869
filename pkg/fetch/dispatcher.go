package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/forgelabs/crossforge/internal/logger"
	"github.com/forgelabs/crossforge/pkg/archive"
	"github.com/forgelabs/crossforge/pkg/download"
	"github.com/forgelabs/crossforge/pkg/errors"
	"github.com/forgelabs/crossforge/pkg/model"
)

// Dispatcher maps a package's site method to its retrieval strategy and
// walks the mirror fallback chain: primary mirror, then the package's own
// site, then the backup mirror. The first link to succeed wins.
type Dispatcher struct {
	strategies    map[model.SiteMethod]Strategy
	primaryMirror string
	backupMirror  string
	out           io.Writer
}

// Options configure a Dispatcher.
type Options struct {
	PrimaryMirror string
	BackupMirror  string
	// Out receives ModeShowExternalDeps output. Defaults to stdout.
	Out io.Writer
}

// NewDispatcher wires the standard strategies: one per version-control
// kind, scp, local copy, and the generic archive fetch.
func NewDispatcher(dl download.Manager, archiver *archive.Manager, opts Options) *Dispatcher {
	d := &Dispatcher{
		strategies: map[model.SiteMethod]Strategy{
			model.SiteMethodGit:   NewVCSStrategy(model.SiteMethodGit, archiver),
			model.SiteMethodSvn:   NewVCSStrategy(model.SiteMethodSvn, archiver),
			model.SiteMethodBzr:   NewVCSStrategy(model.SiteMethodBzr, archiver),
			model.SiteMethodHg:    NewVCSStrategy(model.SiteMethodHg, archiver),
			model.SiteMethodScp:   NewScpStrategy(),
			model.SiteMethodFile:  NewLocalStrategy(),
			model.SiteMethodLocal: NewLocalStrategy(),
			model.SiteMethodWget:  NewArchiveStrategy(dl),
		},
		primaryMirror: opts.PrimaryMirror,
		backupMirror:  opts.BackupMirror,
		out:           opts.Out,
	}
	if d.out == nil {
		d.out = os.Stdout
	}
	return d
}

// RegisterStrategy replaces the strategy for a site method. Tests and
// embedders use it to stub out network access.
func (d *Dispatcher) RegisterStrategy(method model.SiteMethod, s Strategy) {
	d.strategies[method] = s
}

// Fetch retrieves (or checks, or enumerates) the source of a package,
// consulting the mirror chain in its fixed order. Exhausting the chain is a
// fatal error for the package's source stage.
func (d *Dispatcher) Fetch(ctx context.Context, desc *model.ResolvedDescriptor, mode Mode) error {
	var lastErr error
	for _, link := range d.chain(desc) {
		err := d.fetchLink(ctx, link, mode)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warn("retrieval location failed", logger.Fields{
			"package": desc.Name,
			"site":    link.req.Site,
			"error":   err.Error(),
		})
	}
	return errors.Wrapf(errors.ErrAllMirrorsFailed, "package %s: %v", desc.Name, lastErr)
}

type chainLink struct {
	method model.SiteMethod
	req    Request
}

// chain builds the ordered retrieval attempts for a package. Mirrors are
// plain archive servers keyed by the source filename, so mirror links always
// use the archive fetch method, except that an scp:// mirror uses scp.
func (d *Dispatcher) chain(desc *model.ResolvedDescriptor) []chainLink {
	base := Request{
		Site:       desc.Site,
		RawVersion: desc.RawVersion,
		Filename:   desc.Source,
		DestDir:    desc.DownloadDir,
	}

	var links []chainLink
	if d.primaryMirror != "" {
		links = append(links, mirrorLink(d.primaryMirror, base))
	}
	links = append(links, chainLink{method: desc.SiteMethod, req: base})
	if d.backupMirror != "" {
		links = append(links, mirrorLink(d.backupMirror, base))
	}
	return links
}

func mirrorLink(mirror string, base Request) chainLink {
	method := model.SiteMethodWget
	if strings.HasPrefix(mirror, "scp://") {
		method = model.SiteMethodScp
	}
	req := base
	req.Site = mirror
	return chainLink{method: method, req: req}
}

func (d *Dispatcher) fetchLink(ctx context.Context, link chainLink, mode Mode) error {
	strat, ok := d.strategies[link.method]
	if !ok {
		return errors.Wrapf(errors.ErrSiteMethodUnknown, "%s", link.method)
	}
	if mode == ModeShowExternalDeps {
		_, err := fmt.Fprintln(d.out, strat.Enumerate(link.req))
		return err
	}
	return strat.Fetch(ctx, link.req, mode)
}
