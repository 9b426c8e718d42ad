package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/compozy/gitagent/internal/domain"
	"github.com/compozy/gitagent/internal/service"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// gitRepository is the implementation of the GitRepository interface.
type gitRepository struct {
	agent  service.CommandAgent
	fs     FileSystemRepository
	logger *zap.Logger
}

// NewGitRepository creates a GitRepository operating on the agent's working directory.
func NewGitRepository(agent service.CommandAgent, fs FileSystemRepository, logger *zap.Logger) GitRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gitRepository{agent: agent, fs: fs, logger: logger}
}

func (r *gitRepository) Path() string {
	return r.agent.Workdir()
}

func (r *gitRepository) SetPath(path string) {
	r.agent.SetWorkdir(path)
}

func (r *gitRepository) Agent() service.CommandAgent {
	return r.agent
}

// run executes git in the repository path and fails on a nonzero exit status.
func (r *gitRepository) run(ctx context.Context, args ...string) (*domain.CommandResult, error) {
	return r.runIn(ctx, "", args)
}

func (r *gitRepository) runIn(
	ctx context.Context,
	workdir string,
	args []string,
	opts ...service.ExecOption,
) (*domain.CommandResult, error) {
	res, err := r.agent.ExecuteIn(ctx, workdir, args, opts...)
	if err != nil {
		return nil, err
	}
	if err := res.Check(); err != nil {
		return res, err
	}
	return res, nil
}

// Init creates an empty repository in the path.
func (r *gitRepository) Init(ctx context.Context) error {
	if _, err := r.run(ctx, "init"); err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	return nil
}

// AddRemote registers a named remote.
func (r *gitRepository) AddRemote(ctx context.Context, name, url string) error {
	if err := validateRemoteName(name); err != nil {
		return err
	}
	if err := validateRevision(url); err != nil {
		return fmt.Errorf("invalid remote url: %w", err)
	}
	if _, err := r.run(ctx, "remote", "add", "--", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// Remotes returns the configured remote names.
func (r *gitRepository) Remotes(ctx context.Context) ([]string, error) {
	res, err := r.run(ctx, "remote")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	return trimLines(res.Output(true)), nil
}

// CloneFrom clones url into the path, creating the directory when needed.
func (r *gitRepository) CloneFrom(ctx context.Context, url string) error {
	if err := validateRevision(url); err != nil {
		return fmt.Errorf("invalid clone url: %w", err)
	}
	path := r.Path()
	if path == "" {
		return domain.NewConfigurationError("no working directory bound", "", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.NewConfigurationError("cannot resolve working directory", path, err)
	}
	if err := r.fs.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("failed to create clone directory %s: %w", abs, err)
	}
	args := []string{"clone", "--", url, abs}
	if _, err := r.runIn(ctx, abs, args, service.WithoutScope()); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	r.logger.Info("cloned repository", zap.String("url", url), zap.String("path", abs))
	return nil
}

// CreateBranch creates name at startPoint (HEAD when empty) and optionally checks it out.
func (r *gitRepository) CreateBranch(ctx context.Context, name, startPoint string, checkout bool) error {
	if err := validateBranchName(name); err != nil {
		return err
	}
	args := []string{"branch", "--", name}
	if startPoint != "" {
		if err := validateRevision(startPoint); err != nil {
			return err
		}
		args = append(args, startPoint)
	}
	if _, err := r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	if checkout {
		return r.Checkout(ctx, name, false)
	}
	return nil
}

// DeleteBranch deletes a fully merged local branch.
func (r *gitRepository) DeleteBranch(ctx context.Context, name string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}
	if _, err := r.run(ctx, "branch", "-d", "--", name); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

// Checkout switches to ref. With create set, a missing local branch is created at HEAD first.
func (r *gitRepository) Checkout(ctx context.Context, ref string, create bool) error {
	if err := validateRevision(ref); err != nil {
		return err
	}
	if create {
		exists, err := r.localBranchExists(ctx, ref)
		if err != nil {
			return err
		}
		if !exists {
			if err := r.CreateBranch(ctx, ref, "", false); err != nil {
				return err
			}
		}
	}
	if _, err := r.run(ctx, "checkout", ref, "--"); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

func (r *gitRepository) localBranchExists(ctx context.Context, name string) (bool, error) {
	if err := validateBranchName(name); err != nil {
		return false, err
	}
	res, err := r.agent.ExecuteIn(ctx, "", []string{"rev-parse", "--verify", "--quiet", "refs/heads/" + name})
	if err != nil {
		return false, err
	}
	switch res.Status() {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up branch %s: %w", name, res.Check())
	}
}

// CurrentBranch returns the short name of the checked out branch.
// It returns domain.ErrDetachedHead when HEAD points to a commit.
func (r *gitRepository) CurrentBranch(ctx context.Context) (string, error) {
	res, err := r.agent.ExecuteIn(ctx, "", []string{"symbolic-ref", "--short", "-q", "HEAD"})
	if err != nil {
		return "", err
	}
	switch res.Status() {
	case 0:
	case 1:
		return "", domain.ErrDetachedHead
	default:
		return "", fmt.Errorf("failed to get current branch: %w", res.Check())
	}
	lines := res.Output(true)
	if len(lines) == 0 {
		return "", fmt.Errorf("failed to get current branch: empty output")
	}
	return strings.TrimSpace(lines[0]), nil
}

// HeadCommit returns the full SHA of HEAD.
func (r *gitRepository) HeadCommit(ctx context.Context) (string, error) {
	res, err := r.run(ctx, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	lines := res.Output(true)
	if len(lines) == 0 {
		return "", fmt.Errorf("failed to get HEAD commit: empty output")
	}
	return strings.TrimSpace(lines[0]), nil
}

// BranchNames lists branch names without markers. Remote-tracking branches keep
// their "remotes/" prefix; detached HEAD descriptions are left out.
func (r *gitRepository) BranchNames(ctx context.Context, includeRemote bool) ([]string, error) {
	args := []string{"branch", "--no-color"}
	if includeRemote {
		args = append(args, "-a")
	}
	res, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	names := []string{}
	for _, line := range res.Output(true) {
		name := domain.BranchName(line)
		if name == "" || strings.HasPrefix(name, "(") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Branches returns the verbose branch listing.
func (r *gitRepository) Branches(ctx context.Context, includeRemote bool) ([]domain.Branch, error) {
	args := []string{"branch", "-v", "--no-color", "--no-abbrev"}
	if includeRemote {
		args = append(args, "-a")
	}
	res, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	branches, err := domain.ParseBranchLines(res.Output(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch listing: %w", err)
	}
	return branches, nil
}

// Branch finds a branch by its listed name, e.g. "main" or "remotes/origin/main".
func (r *gitRepository) Branch(ctx context.Context, name string) (*domain.Branch, error) {
	branches, err := r.Branches(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range branches {
		if branches[i].Name == name {
			return &branches[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, name)
}

// ListTree lists the tree of ref, optionally limited to path and recursing into subtrees.
func (r *gitRepository) ListTree(ctx context.Context, ref, path string, recursive bool) ([]domain.TreeEntry, error) {
	if ref == "" {
		ref = headAlias
	}
	if err := validateRevision(ref); err != nil {
		return nil, err
	}
	args := []string{"-c", "core.quotePath=false", "ls-tree", "-l", "--full-tree", "--full-name", "--no-abbrev"}
	if recursive {
		args = append(args, "-r")
	}
	args = append(args, ref)
	if path != "" {
		args = append(args, "--", path)
	}
	res, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tree %s: %w", ref, err)
	}
	entries, err := domain.ParseTreeEntries(res.Output(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree listing: %w", err)
	}
	return entries, nil
}

// CheckoutAllRemoteBranches creates a local tracking branch for every remote
// branch without one, then returns to the branch (or commit) that was checked out.
// The first failure stops the run; nothing is undone.
func (r *gitRepository) CheckoutAllRemoteBranches(ctx context.Context, observers ...SyncObserver) (*SyncReport, error) {
	report := &SyncReport{Candidates: []string{}, CheckedOut: []string{}}
	original, err := r.CurrentBranch(ctx)
	if errors.Is(err, domain.ErrDetachedHead) {
		original, err = r.HeadCommit(ctx)
		report.Detached = true
	}
	if err != nil {
		return report, fmt.Errorf("failed to resolve original ref: %w", err)
	}
	report.Original = original

	local, err := r.BranchNames(ctx, false)
	if err != nil {
		return report, err
	}
	all, err := r.BranchNames(ctx, true)
	if err != nil {
		return report, err
	}
	remotes, err := r.Remotes(ctx)
	if err != nil {
		return report, err
	}
	candidates := SyncCandidates(local, all, remotes)
	report.Candidates = candidateNames(candidates)
	for _, o := range observers {
		o.Planned(report)
	}

	for _, c := range candidates {
		name := c.Name
		if err := r.track(ctx, c); err != nil {
			return report, fmt.Errorf("failed to check out remote branch %s: %w", name, err)
		}
		report.CheckedOut = append(report.CheckedOut, name)
		r.logger.Debug("checked out remote branch", zap.String("branch", name), zap.String("upstream", c.Upstream))
		for _, o := range observers {
			o.CheckedOut(name)
		}
	}

	// HEAD only moved if something was checked out; an unborn branch cannot be checked out again.
	if len(report.CheckedOut) == 0 {
		return report, nil
	}
	if err := r.Checkout(ctx, original, false); err != nil {
		return report, fmt.Errorf("failed to restore %s: %w", original, err)
	}
	return report, nil
}

// track creates and checks out a local branch following the candidate's upstream.
// Naming the upstream keeps git from guessing when several remotes carry the branch.
func (r *gitRepository) track(ctx context.Context, c SyncCandidate) error {
	if err := validateBranchName(c.Name); err != nil {
		return err
	}
	if err := validateRevision(c.Upstream); err != nil {
		return err
	}
	_, err := r.run(ctx, "checkout", "-b", c.Name, "--track", c.TrackingRef(), "--")
	return err
}

func trimLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}
