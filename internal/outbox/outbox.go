// Package outbox keeps the applications a candidate has submitted, one JSON
// file per submission.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no submission has the requested ID.
var ErrNotFound = errors.New("submission not found")

const withdrawnDir = "withdrawn"

// Outbox manages a single outbox directory
type Outbox struct {
	dir string
	now func() time.Time
}

// New creates an Outbox rooted at dir and ensures the directory and its
// withdrawn/ subdirectory exist.
func New(dir string) (*Outbox, error) {
	if err := os.MkdirAll(filepath.Join(dir, withdrawnDir), 0o755); err != nil {
		return nil, fmt.Errorf("create outbox dir %s: %w", dir, err)
	}
	return &Outbox{dir: dir, now: time.Now}, nil
}

// Dir returns the outbox directory.
func (o *Outbox) Dir() string {
	return o.dir
}

// Push stores sub atomically by writing to a temp file then renaming.
func (o *Outbox) Push(sub Submission) error {
	if !validID(sub.ID) {
		return fmt.Errorf("push submission: invalid id %q", sub.ID)
	}
	return o.write(filepath.Join(o.dir, sub.ID+".json"), sub)
}

// List returns submitted and withdrawn records, newest first.
func (o *Outbox) List() ([]Submission, error) {
	active, err := o.readDir(o.dir)
	if err != nil {
		return nil, err
	}
	withdrawn, err := o.readDir(filepath.Join(o.dir, withdrawnDir))
	if err != nil {
		return nil, err
	}
	subs := append(active, withdrawn...)
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs, nil
}

// Count returns the depth summary for the outbox.
func (o *Outbox) Count() (Depth, error) {
	subs, err := o.List()
	if err != nil {
		return Depth{}, err
	}
	var d Depth
	for _, s := range subs {
		switch s.Status {
		case StatusWithdrawn:
			d.Withdrawn++
		default:
			d.Submitted++
		}
	}
	return d, nil
}

// Get retrieves a single submission by ID. A unique ID prefix is accepted.
func (o *Outbox) Get(id string) (*Submission, error) {
	path, err := o.find(id)
	if err != nil {
		return nil, err
	}
	return readFile(path)
}

// Withdraw marks a submission withdrawn and moves it to withdrawn/.
func (o *Outbox) Withdraw(id string) (*Submission, error) {
	src, err := o.find(id)
	if err != nil {
		return nil, err
	}
	sub, err := readFile(src)
	if err != nil {
		return nil, fmt.Errorf("read submission %s: %w", id, err)
	}
	if sub.Status == StatusWithdrawn {
		return sub, nil
	}

	at := o.now().UTC()
	sub.Status = StatusWithdrawn
	sub.WithdrawnAt = &at

	if err := o.write(filepath.Join(o.dir, withdrawnDir, sub.ID+".json"), *sub); err != nil {
		return nil, err
	}
	if err := os.Remove(src); err != nil {
		return nil, fmt.Errorf("remove original submission: %w", err)
	}
	return sub, nil
}

func (o *Outbox) write(finalPath string, sub Submission) error {
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(finalPath), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename to final path: %w", err)
	}
	return nil
}

// readDir parses every .json file directly inside dir.
func (o *Outbox) readDir(dir string) ([]Submission, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read outbox dir %s: %w", dir, err)
	}
	var subs []Submission
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		sub, err := readFile(filepath.Join(dir, name))
		if err != nil {
			continue // skip malformed files
		}
		subs = append(subs, *sub)
	}
	return subs, nil
}

// find locates the file for id, checking the active directory first.
func (o *Outbox) find(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("submission %q: %w", id, ErrNotFound)
	}
	var matches []string
	for _, dir := range []string{o.dir, filepath.Join(o.dir, withdrawnDir)} {
		direct := filepath.Join(dir, id+".json")
		if _, err := os.Stat(direct); err == nil {
			return direct, nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("read outbox dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".tmp-") {
				continue
			}
			if strings.HasPrefix(name, id) && strings.HasSuffix(name, ".json") {
				matches = append(matches, filepath.Join(dir, entry.Name()))
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("submission %s: %w", id, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("submission prefix %s matches %d records", id, len(matches))
	}
}

// validID rejects ids that could name a file outside the outbox or one of
// its temp files.
func validID(id string) bool {
	return id != "" && !strings.HasPrefix(id, ".") && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func readFile(path string) (*Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
