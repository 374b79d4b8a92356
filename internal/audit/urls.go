package audit

import (
	"net/url"
	"strings"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// URLPolicy maps each provider to the host suffixes its official URLs are
// expected to live under. It is injectable configuration: the allowlist
// changes when agencies reorganize their sites, independently of audit logic.
// A provider with no entry (STATE, fifty different governor sites) is only
// held to the well-formed-https requirement.
type URLPolicy map[domain.Source][]string

// DefaultURLPolicy returns the domain allowlist observed across the
// collector services.
func DefaultURLPolicy() URLPolicy {
	return URLPolicy{
		domain.SourceSBA:   {"sba.gov", "federalregister.gov"},
		domain.SourceFMCSA: {"fmcsa.dot.gov"},
		domain.SourceHHS:   {"hhs.gov", "aspr.hhs.gov"},
		domain.SourceUSDA:  {"usda.gov", "fsa.usda.gov"},
		domain.SourceFEMA:  {"fema.gov"},
	}
}

// Check validates that raw is a well-formed https URL and, when the policy
// has an entry for source, that its host falls under an expected domain.
// Returns ok plus a human-readable reason on failure.
func (p URLPolicy) Check(source domain.Source, raw string) (bool, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return false, "unparseable URL"
	}
	if u.Scheme != "https" {
		return false, "scheme is " + u.Scheme + ", expected https"
	}
	if u.Host == "" {
		return false, "missing host"
	}

	suffixes, ok := p[source]
	if !ok {
		return true, ""
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true, ""
		}
	}
	return false, "host " + host + " not under expected domains " + strings.Join(suffixes, ", ")
}
