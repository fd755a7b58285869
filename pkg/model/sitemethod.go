package model

import "strings"

// SiteMethod identifies the retrieval mechanism for a package's source.
type SiteMethod string

// Supported site methods.
const (
	SiteMethodGit   SiteMethod = "git"
	SiteMethodSvn   SiteMethod = "svn"
	SiteMethodBzr   SiteMethod = "bzr"
	SiteMethodHg    SiteMethod = "hg"
	SiteMethodScp   SiteMethod = "scp"
	SiteMethodFile  SiteMethod = "file"
	SiteMethodLocal SiteMethod = "local"
	// SiteMethodWget is the generic archive fetch used when no more specific
	// method applies.
	SiteMethodWget SiteMethod = "wget"
)

// IsVCS reports whether the method is a version-control checkout.
func (m SiteMethod) IsVCS() bool {
	switch m {
	case SiteMethodGit, SiteMethodSvn, SiteMethodBzr, SiteMethodHg:
		return true
	default:
		return false
	}
}

// Valid reports whether m names a supported site method.
func (m SiteMethod) Valid() bool {
	switch m {
	case SiteMethodGit, SiteMethodSvn, SiteMethodBzr, SiteMethodHg,
		SiteMethodScp, SiteMethodFile, SiteMethodLocal, SiteMethodWget:
		return true
	default:
		return false
	}
}

// DetectSiteMethod infers the retrieval method from the URI scheme of a
// site. Sites without a recognized scheme fall back to the generic archive
// fetch.
func DetectSiteMethod(site string) SiteMethod {
	switch {
	case strings.HasPrefix(site, "git://"), strings.HasPrefix(site, "git+"):
		return SiteMethodGit
	case strings.HasPrefix(site, "svn://"), strings.HasPrefix(site, "svn+"):
		return SiteMethodSvn
	case strings.HasPrefix(site, "bzr://"), strings.HasPrefix(site, "bzr+"):
		return SiteMethodBzr
	case strings.HasPrefix(site, "hg://"), strings.HasPrefix(site, "hg+"):
		return SiteMethodHg
	case strings.HasPrefix(site, "scp://"):
		return SiteMethodScp
	case strings.HasPrefix(site, "file://"):
		return SiteMethodFile
	default:
		return SiteMethodWget
	}
}

// StripSchemePrefix removes a "<vcs>+" prefix from a site, so that
// "git+https://example.com/repo.git" dispatches on git but fetches from the
// plain https URL.
func StripSchemePrefix(site string) string {
	for _, p := range []string{"git+", "svn+", "bzr+", "hg+"} {
		if strings.HasPrefix(site, p) {
			return strings.TrimPrefix(site, p)
		}
	}
	return site
}
