// Package evidence persists what a run leaves behind: failure screenshots,
// text attachments such as verification reports, and an optional filmstrip GIF
// of the steps with the pointer gestures drawn in.
package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// timestampLayout matches the screenshot naming used by the suite: name_20060102_150405.png
const timestampLayout = "20060102_150405"

// Attachment is one text artifact produced by a scenario
type Attachment struct {
	Scenario string
	Name     string
	Path     string
	Content  string
}

// Store writes screenshots and attachments below two directories
type Store struct {
	screenshots string
	artifacts   string
	log         *zap.Logger
	now         func() time.Time

	attachments []Attachment
}

// NewStore creates the directories lazily on first write
func NewStore(screenshotDir, artifactDir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		screenshots: screenshotDir,
		artifacts:   artifactDir,
		log:         log.Named("evidence"),
		now:         time.Now,
	}
}

// SaveScreenshot writes png as <name>_<timestamp>.png and returns the path
func (s *Store) SaveScreenshot(name string, png []byte) (string, error) {
	if err := os.MkdirAll(s.screenshots, 0o755); err != nil {
		return "", fmt.Errorf("screenshot dir: %w", err)
	}
	path := filepath.Join(s.screenshots, fmt.Sprintf("%s_%s.png", slug(name), s.now().Format(timestampLayout)))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	s.log.Info("screenshot saved", zap.String("path", path))
	return path, nil
}

// Attach writes a text artifact under <artifacts>/<scenario>/ and records it
func (s *Store) Attach(scenario, name, content string) (Attachment, error) {
	return s.AttachFile(scenario, slug(name)+".txt", name, []byte(content))
}

// AttachFile writes raw bytes under <artifacts>/<scenario>/<file>
func (s *Store) AttachFile(scenario, file, name string, data []byte) (Attachment, error) {
	dir := s.ArtifactDir(scenario)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Attachment{}, fmt.Errorf("attachment dir: %w", err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Attachment{}, fmt.Errorf("write attachment %s: %w", name, err)
	}
	a := Attachment{Scenario: scenario, Name: name, Path: path}
	if strings.HasSuffix(file, ".txt") || strings.HasSuffix(file, ".json") {
		a.Content = string(data)
	}
	s.attachments = append(s.attachments, a)
	s.log.Debug("attachment written", zap.String("name", name), zap.String("path", path))
	return a, nil
}

// Attachments returns what has been attached so far, in order
func (s *Store) Attachments() []Attachment {
	out := make([]Attachment, len(s.attachments))
	copy(out, s.attachments)
	return out
}

// ArtifactDir is where a scenario's attachments land
func (s *Store) ArtifactDir(scenario string) string {
	return filepath.Join(s.artifacts, slug(scenario))
}

// slug keeps letters, digits, dash and underscore; everything else becomes '_'
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
