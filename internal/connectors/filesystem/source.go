// Package filesystem loads documents from a directory tree and watches it
// for new or rewritten files.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/neardup/internal/core/domain"
	"github.com/custodia-labs/neardup/internal/core/ports/driven"
	"github.com/custodia-labs/neardup/internal/logger"
)

// SourceType identifies documents loaded from the filesystem.
const SourceType = "filesystem"

const (
	defaultWorkers     = 8
	defaultMaxFileSize = 10 << 20

	// DefaultSettleDelay is how long a watched file must go without
	// writes before it is read.
	DefaultSettleDelay = 250 * time.Millisecond
)

// ErrClosed is returned when a closed source is used.
var ErrClosed = errors.New("filesystem source is closed")

// Ensure Source implements the interfaces.
var (
	_ driven.DocumentSource  = (*Source)(nil)
	_ driven.WatchableSource = (*Source)(nil)
)

// Source reads every regular, non-hidden file under a root directory.
// Document IDs are slash-separated paths relative to the root.
type Source struct {
	rootPath    string
	workers     int
	maxFileSize int64
	extensions  map[string]struct{}
	normalisers driven.NormaliserRegistry
	settleDelay time.Duration

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// Option configures a Source.
type Option func(*Source)

// WithWorkers sets how many files are read concurrently.
func WithWorkers(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxFileSize skips files larger than n bytes.
func WithMaxFileSize(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithExtensions restricts loading to files with the given extensions
// (e.g. ".txt", ".md"). Matching is case-insensitive.
func WithExtensions(exts ...string) Option {
	return func(s *Source) {
		if len(exts) == 0 {
			return
		}
		s.extensions = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			s.extensions[ext] = struct{}{}
		}
	}
}

// WithNormalisers converts files with a registered format to plain text
// before they are returned. Other files are read as-is.
func WithNormalisers(registry driven.NormaliserRegistry) Option {
	return func(s *Source) {
		s.normalisers = registry
	}
}

// WithSettleDelay sets how long Watch waits after the last write to a
// file before reading it.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.settleDelay = d
		}
	}
}

// New creates a filesystem source rooted at rootPath.
func New(rootPath string, opts ...Option) *Source {
	s := &Source{
		rootPath:    rootPath,
		workers:     defaultWorkers,
		maxFileSize: defaultMaxFileSize,
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type returns the source type.
func (s *Source) Type() string {
	return SourceType
}

// RootPath returns the directory being read.
func (s *Source) RootPath() string {
	return s.rootPath
}

// Load reads all matching files and returns them sorted by ID.
func (s *Source) Load(ctx context.Context) ([]domain.Document, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	paths, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("filesystem: reading %d files under %s", len(paths), s.rootPath)

	docs := make([]domain.Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.readDocument(gctx, path)
			if err != nil {
				return err
			}
			docs[i] = *doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// collect walks the tree and returns the files to read.
func (s *Source) collect(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path != s.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.matches(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > s.maxFileSize {
			logger.Warn("filesystem: skipping %s (%d bytes exceeds limit)", path, info.Size())
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.rootPath, err)
	}
	return paths, nil
}

// readDocument reads one file into a document.
func (s *Source) readDocument(ctx context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	id, err := s.documentID(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	doc := &domain.Document{
		ID:   id,
		Text: string(content),
		URI:  abs,
		Metadata: map[string]any{
			"size":     info.Size(),
			"mod_time": info.ModTime().UTC(),
		},
	}
	s.normalise(ctx, path, content, doc)
	return doc, nil
}

// normalise replaces the document text with its normalised form when a
// normaliser is registered for the file's extension. A file that fails to
// normalise keeps its raw text.
func (s *Source) normalise(ctx context.Context, path string, content []byte, doc *domain.Document) {
	if s.normalisers == nil {
		return
	}
	n, ok := s.normalisers.ForPath(path)
	if !ok {
		return
	}
	text, err := n.Normalise(ctx, content)
	if err != nil {
		logger.Warn("filesystem: normalising %s as %s: %v", path, n.Format(), err)
		return
	}
	doc.Text = text
	doc.Metadata["format"] = n.Format()
}

// documentID returns the slash-separated path of path relative to the root.
func (s *Source) documentID(path string) (string, error) {
	rel, err := filepath.Rel(s.rootPath, path)
	if err != nil {
		return "", fmt.Errorf("relative path for %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

func (s *Source) matches(path string) bool {
	if s.extensions == nil {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Watch reports files created or rewritten under the root until ctx is done.
// A file is read once writes to it have stopped for the settle delay, so a
// file written in several chunks yields one event carrying its final text.
// Removals are not reported: indexed documents are never deleted.
func (s *Source) Watch(ctx context.Context) (<-chan domain.DocumentEvent, error) {
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	s.watcher = watcher
	s.mu.Unlock()

	if err := s.addWatches(watcher, s.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}

	events := make(chan domain.DocumentEvent)
	go s.watchLoop(ctx, watcher, events)

	return events, nil
}

// pendingFile is a path with writes still arriving.
type pendingFile struct {
	gen     uint64
	created bool
	timer   *time.Timer
}

type settledFile struct {
	path string
	gen  uint64
}

func (s *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- domain.DocumentEvent) {
	defer close(events)
	defer watcher.Close()

	pending := make(map[string]*pendingFile)
	settled := make(chan settledFile)
	done := make(chan struct{})
	defer func() {
		close(done)
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !isHidden(filepath.Base(ev.Name)) {
					if err := s.addWatches(watcher, ev.Name); err != nil {
						logger.Warn("filesystem: watching %s: %v", ev.Name, err)
					}
				}
			}
			if !s.tracks(ev) {
				continue
			}

			p, ok := pending[ev.Name]
			if !ok {
				p = &pendingFile{}
				pending[ev.Name] = p
			} else {
				p.timer.Stop()
			}
			p.gen++
			p.created = p.created || ev.Has(fsnotify.Create)
			next := settledFile{path: ev.Name, gen: p.gen}
			p.timer = time.AfterFunc(s.settleDelay, func() {
				select {
				case settled <- next:
				case <-done:
				}
			})

		case q := <-settled:
			// A timer that fired just before a newer write re-armed it is stale.
			p, ok := pending[q.path]
			if !ok || p.gen != q.gen {
				continue
			}
			delete(pending, q.path)

			op := fsnotify.Write
			if p.created {
				op = fsnotify.Create
			}
			event := s.handleFsEvent(ctx, fsnotify.Event{Name: q.path, Op: op})
			if event == nil {
				continue
			}
			select {
			case events <- *event:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("filesystem: watch error: %v", err)
		}
	}
}

// tracks reports whether ev may change the text of a document.
func (s *Source) tracks(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	id, err := s.documentID(ev.Name)
	return err == nil && !isHidden(id) && s.matches(ev.Name)
}

// addWatches watches dir and every non-hidden directory below it.
func (s *Source) addWatches(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// handleFsEvent converts a filesystem event into a document event.
// Returns nil for events that carry no new document text.
func (s *Source) handleFsEvent(ctx context.Context, ev fsnotify.Event) *domain.DocumentEvent {
	id, err := s.documentID(ev.Name)
	if err != nil || isHidden(id) {
		return nil
	}

	var eventType domain.DocumentEventType
	switch {
	case ev.Has(fsnotify.Create):
		eventType = domain.DocumentCreated
	case ev.Has(fsnotify.Write):
		eventType = domain.DocumentUpdated
	default:
		return nil
	}

	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() || !s.matches(ev.Name) || info.Size() > s.maxFileSize {
		return nil
	}

	doc, err := s.readDocument(ctx, ev.Name)
	if err != nil {
		logger.Warn("filesystem: %v", err)
		return nil
	}

	return &domain.DocumentEvent{Type: eventType, Document: *doc}
}

// Close stops any active watch. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Source) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Source) checkRoot() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", s.rootPath)
	}
	return nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
