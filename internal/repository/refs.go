package repository

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/go-git/go-git/v5/plumbing"
)

const headAlias = "HEAD"

// validateBranchName applies git's ref-name rules to a branch name.
func validateBranchName(name string) error {
	if name == "" || name == headAlias || strings.HasPrefix(name, "-") || hasSpaceOrControl(name) {
		return fmt.Errorf("%w: branch %q", domain.ErrInvalidRefName, name)
	}
	if err := plumbing.NewBranchReferenceName(name).Validate(); err != nil {
		return fmt.Errorf("%w: branch %q: %v", domain.ErrInvalidRefName, name, err)
	}
	return nil
}

func validateRemoteName(name string) error {
	if name == "" || strings.HasPrefix(name, "-") || hasSpaceOrControl(name) {
		return fmt.Errorf("%w: remote %q", domain.ErrInvalidRefName, name)
	}
	if err := plumbing.ReferenceName("refs/remotes/" + name + "/" + headAlias).Validate(); err != nil {
		return fmt.Errorf("%w: remote %q: %v", domain.ErrInvalidRefName, name, err)
	}
	return nil
}

// validateRevision rejects revisions git would read as an option.
func validateRevision(rev string) error {
	if rev == "" || strings.HasPrefix(rev, "-") || strings.ContainsAny(rev, "\x00\n") {
		return fmt.Errorf("%w: revision %q", domain.ErrInvalidRefName, rev)
	}
	return nil
}

func hasSpaceOrControl(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0
}

// SyncCandidate is a remote branch that has no local branch yet.
type SyncCandidate struct {
	// Name is the local branch name to create
	Name string
	// Upstream is the remote-tracking branch, e.g. "origin/feature"
	Upstream string
}

// TrackingRef is the full ref name of the upstream, unambiguous across remotes.
func (c SyncCandidate) TrackingRef() string {
	return "refs/remotes/" + c.Upstream
}

// SyncCandidates returns the remote branches that have no local branch yet, in
// listing order. local and all are `git branch [-a]` names, remotes the configured
// remote names. HEAD aliases are skipped; when several remotes carry the same
// branch the first one listed is tracked.
func SyncCandidates(local, all, remotes []string) []SyncCandidate {
	have := make(map[string]bool, len(local))
	for _, name := range local {
		have[name] = true
	}
	seen := make(map[string]bool)
	candidates := []SyncCandidate{}
	for _, entry := range all {
		if !strings.HasPrefix(entry, domain.RemoteBranchPrefix) {
			continue
		}
		ref := strings.TrimPrefix(entry, domain.RemoteBranchPrefix)
		if strings.Contains(ref, " -> ") {
			continue
		}
		name := stripRemote(ref, remotes)
		if name == "" || name == headAlias || have[name] || seen[name] {
			continue
		}
		seen[name] = true
		candidates = append(candidates, SyncCandidate{Name: name, Upstream: ref})
	}
	return candidates
}

func candidateNames(candidates []SyncCandidate) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	return names
}

// stripRemote removes the longest known remote prefix from a remote-tracking ref.
func stripRemote(ref string, remotes []string) string {
	best := ""
	for _, remote := range remotes {
		if strings.HasPrefix(ref, remote+"/") && len(remote) > len(best) {
			best = remote
		}
	}
	if best != "" {
		return ref[len(best)+1:]
	}
	if _, name, ok := strings.Cut(ref, "/"); ok {
		return name
	}
	return ""
}
