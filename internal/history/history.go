// Package history keeps the data directory under git so every persisted
// change to data.json is recoverable. It uses go-git, so no git binary is
// required on the host.
package history

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "lettingscope"
	authorEmail = "lettingscope@localhost"
)

// Commit is one entry of the data directory history.
type Commit struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}

// Repo wraps a git repository rooted at the data directory.
type Repo struct {
	dir  string
	repo *gogit.Repository
	mu   sync.Mutex
}

// Open opens the repository at dir, initializing it on first use.
func Open(dir string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("failed to read git config: %w", err)
		}
		cfg.User.Name = authorName
		cfg.User.Email = authorEmail
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to write git config: %w", err)
		}
	}
	return &Repo{dir: dir, repo: repo}, nil
}

// Commit stages the given files and commits them with msg. A commit that
// would be empty is silently skipped.
func (r *Repo) Commit(_ context.Context, msg string, files ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	for _, f := range files {
		if _, err := w.Add(f); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f, err)
		}
	}
	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("failed to get worktree status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	now := time.Now()
	sig := &object.Signature{Name: authorName, Email: authorEmail, When: now}
	if _, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Recent returns up to n commits, newest first. A repository with no commits
// yet yields an empty history, not an error.
func (r *Repo) Recent(_ context.Context, n int) ([]Commit, error) {
	if n <= 0 || n > 1000 {
		n = 1000
	}
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return nil, nil
	}
	defer iter.Close()

	var commits []Commit
	for range n {
		c, err := iter.Next()
		if err != nil {
			break
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Message: subject,
			Date:    c.Author.When,
		})
	}
	return commits, nil
}

// FileAt returns the content of a file at a specific commit hash, or at HEAD.
func (r *Repo) FileAt(_ context.Context, hash, filePath string) ([]byte, error) {
	h := plumbing.NewHash(hash)
	if hash == "HEAD" {
		ref, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
		}
		h = ref.Hash()
	}
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	f, err := c.File(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file at commit: %w", err)
	}
	reader, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}
