package domain

import (
	"regexp"
	"strings"
)

// RemoteBranchPrefix prefixes remote-tracking branches in `git branch -a` output.
const RemoteBranchPrefix = "remotes/"

// Branch is one record of `git branch -v --no-color --no-abbrev [-a]`.
type Branch struct {
	Name     string `json:"name"`
	Current  bool   `json:"current"`
	Worktree bool   `json:"worktree,omitempty"`
	Detached bool   `json:"detached,omitempty"`
	Remote   bool   `json:"remote,omitempty"`
	Commit   string `json:"commit,omitempty"`
	Tracking string `json:"tracking,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Target   string `json:"target,omitempty"`
}

// IsSymbolic reports whether the record is an alias such as "remotes/origin/HEAD -> origin/main".
func (b Branch) IsSymbolic() bool {
	return b.Target != ""
}

var (
	// "* main   <sha> [ahead 1] subject" and "  (HEAD detached at 1a2b3c4) <sha> subject"
	branchCommitLine = regexp.MustCompile(
		`^([*+ ]) (\([^)]*\)|\S+) +([0-9a-f]{4,64})(?: \[([^\]]*)\])?(?: (.*))?$`)
	// "  remotes/origin/HEAD -> origin/main"
	branchAliasLine = regexp.MustCompile(`^([*+ ]) (\S+) +-> (\S+)$`)
)

// ParseBranchLine parses one line of verbose branch output.
func ParseBranchLine(line string) (Branch, error) {
	line = strings.TrimRight(line, "\r")
	if m := branchAliasLine.FindStringSubmatch(line); m != nil {
		return newBranch(m[1], m[2], Branch{Target: m[3]}), nil
	}
	m := branchCommitLine.FindStringSubmatch(line)
	if m == nil {
		return Branch{}, NewParseError(line, "line does not match the verbose branch format")
	}
	b := newBranch(m[1], m[2], Branch{
		Commit:   m[3],
		Tracking: m[4],
		Subject:  strings.TrimSpace(m[5]),
	})
	return b, nil
}

// ParseBranchLines parses every non-blank line, stopping at the first malformed one.
func ParseBranchLines(lines []string) ([]Branch, error) {
	branches := make([]Branch, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b, err := ParseBranchLine(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = i + 1
			}
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

func newBranch(marker, name string, b Branch) Branch {
	b.Name = name
	b.Current = marker == "*"
	b.Worktree = marker == "+"
	b.Detached = strings.HasPrefix(name, "(")
	b.Remote = strings.HasPrefix(name, RemoteBranchPrefix)
	return b
}

// BranchName strips the current/worktree marker and padding from a plain `git branch` line.
func BranchName(line string) string {
	if len(line) >= 2 && line[1] == ' ' && strings.ContainsRune("*+ ", rune(line[0])) {
		line = line[2:]
	}
	return strings.TrimSpace(line)
}
