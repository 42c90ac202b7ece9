// ABOUTME: Scheduler owns the periodic capture session and one-shot captures
// ABOUTME: One session per process; Start replaces, Stop cancels synchronously

package capture

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deskmote/deskmote/internal/log"
)

// Options configure a Scheduler. Zero fields get production defaults.
type Options struct {
	Grabber Grabber
	Locator Locator
	Codec   *Codec
	Buffer  *Buffer
	Clock   func() time.Time
}

// Scheduler captures frames, either on demand or on a periodic session, and
// publishes them into its Buffer. It is the Buffer's sole writer.
type Scheduler struct {
	grabber Grabber
	locator Locator
	codec   *Codec
	buffer  *Buffer
	clock   func() time.Time

	mu     sync.Mutex
	sess   *session
	misses atomic.Uint64
}

// Session describes the active periodic capture configuration.
type Session struct {
	Interval time.Duration
	Quality  int
	Source   Source
}

type session struct {
	Session
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a Scheduler, filling unset options with defaults.
func NewScheduler(opts Options) *Scheduler {
	if opts.Grabber == nil {
		opts.Grabber = NewScreenGrabber()
	}
	if opts.Locator == nil {
		opts.Locator = NewSystemLocator()
	}
	if opts.Codec == nil {
		opts.Codec = &Codec{}
	}
	if opts.Buffer == nil {
		opts.Buffer = NewBuffer()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Scheduler{
		grabber: opts.Grabber,
		locator: opts.Locator,
		codec:   opts.Codec,
		buffer:  opts.Buffer,
		clock:   opts.Clock,
	}
}

// Start begins periodic capture, replacing any running session. The previous
// session is fully cancelled before the new one begins, so two ticks never
// race to publish. Invalid parameters fail without touching a running session.
func (s *Scheduler) Start(interval time.Duration, quality int, source Source) error {
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}
	if !ValidQuality(quality) {
		return fmt.Errorf("quality %d out of range [1,100]", quality)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		Session: Session{Interval: interval, Quality: quality, Source: source},
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.sess = sess
	go s.run(ctx, sess)
	return nil
}

// Stop halts the active session. It returns only after the session goroutine
// has exited, so no publish happens after Stop returns. Stopping an already
// stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.sess == nil {
		return
	}
	s.sess.cancel()
	<-s.sess.done
	s.sess = nil
}

// Active returns the running session configuration, if any.
func (s *Scheduler) Active() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return Session{}, false
	}
	return s.sess.Session, true
}

// Latest returns the most recent published frame, or nil if none exists.
func (s *Scheduler) Latest() *Frame {
	return s.buffer.Latest()
}

// Misses returns the number of ticks skipped because the capture target could
// not be resolved or grabbed.
func (s *Scheduler) Misses() uint64 {
	return s.misses.Load()
}

// Capture performs a single synchronous capture outside any session and
// publishes the frame so Latest stays consistent with one-shot captures.
func (s *Scheduler) Capture(ctx context.Context, quality int, source Source) (*Frame, error) {
	if !ValidQuality(quality) {
		return nil, fmt.Errorf("quality %d out of range [1,100]", quality)
	}
	frame, err := s.captureFrame(ctx, quality, source)
	if err != nil {
		return nil, err
	}
	s.buffer.Publish(frame)
	return frame, nil
}

func (s *Scheduler) run(ctx context.Context, sess *session) {
	defer close(sess.done)
	ticker := time.NewTicker(sess.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := s.captureFrame(ctx, sess.Quality, sess.Source)
		if err != nil {
			// Transient miss: the window may be gone for a moment or the
			// display busy. The session keeps running.
			s.misses.Add(1)
			log.Debug("capture tick skipped (%s): %v", sess.Source, err)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		s.buffer.Publish(frame)
	}
}

func (s *Scheduler) captureFrame(ctx context.Context, quality int, source Source) (*Frame, error) {
	var bounds image.Rectangle
	var err error
	if source.IsScreen() {
		bounds, err = s.grabber.DisplayBounds()
	} else {
		bounds, err = s.locator.Locate(ctx, source.Window)
	}
	if err != nil {
		return nil, err
	}

	img, err := s.grabber.Grab(ctx, bounds)
	if err != nil {
		return nil, err
	}
	data, err := s.codec.Encode(img, quality)
	if err != nil {
		return nil, err
	}
	return &Frame{
		Bounds:     bounds,
		Data:       data,
		Format:     FormatJPEG,
		Quality:    quality,
		CapturedAt: s.clock(),
		Source:     source,
	}, nil
}
