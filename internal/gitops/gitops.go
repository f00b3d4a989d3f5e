package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned by Commit when the given paths are unchanged.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who records a commit.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init creates an empty git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, Author{}, "init", "--quiet"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Commit stages paths (relative to dir) and commits them as author. It
// returns the short hash of the new commit.
func Commit(dir string, author Author, message string, paths ...string) (string, error) {
	args := append([]string{"add", "--all", "--"}, paths...)
	if out, err := git(dir, author, args...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	if _, err := git(dir, author, "diff", "--cached", "--quiet"); err == nil {
		return "", ErrNothingToCommit
	}

	if out, err := git(dir, author, "commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, author, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return out, nil
}

// git runs a git subcommand in dir. The committer is set to author so that
// commits work without a global git identity.
func git(dir string, author Author, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if author.Name != "" {
		cmd.Env = append(cmd.Env,
			"GIT_COMMITTER_NAME="+author.Name,
			"GIT_COMMITTER_EMAIL="+author.Email)
	}
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
