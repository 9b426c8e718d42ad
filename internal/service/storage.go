package service

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const gitFilePrefix = "gitdir:"

// GitDir returns the GIT_DIR for workdir: the directory itself for a bare
// repository, <workdir>/.git otherwise (including before `git init`).
func GitDir(fs afero.Fs, workdir string) string {
	dotGit := filepath.Join(workdir, ".git")
	if exists, _ := afero.Exists(fs, dotGit); exists {
		return dotGit
	}
	head, _ := afero.Exists(fs, filepath.Join(workdir, "HEAD"))
	objects, _ := afero.DirExists(fs, filepath.Join(workdir, "objects"))
	if head && objects {
		return workdir
	}
	return dotGit
}

// StorageDir resolves the directory that holds the repository storage of workdir,
// following the gitfile of a linked worktree. ok is false when there is no
// repository at workdir yet.
func StorageDir(fs afero.Fs, workdir string) (dir string, ok bool) {
	dir = GitDir(fs, workdir)
	if isDir, _ := afero.DirExists(fs, dir); isDir {
		return dir, true
	}
	data, err := afero.ReadFile(fs, dir)
	if err != nil {
		return dir, false
	}
	target, found := strings.CutPrefix(strings.TrimSpace(string(data)), gitFilePrefix)
	if !found {
		return dir, false
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(workdir, target)
	}
	exists, _ := afero.DirExists(fs, target)
	return target, exists
}
