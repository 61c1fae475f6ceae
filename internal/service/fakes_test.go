package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"seungpyo.lee/PersonalBlog/internal/domain"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// inlineSubmitter runs jobs synchronously so tests can observe their effects.
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(f func()) error {
	f()
	return nil
}

type fakePictures struct {
	stored   []string
	deleted  []string
	storeErr error
	next     int
}

func (p *fakePictures) Store(_ context.Context, dataURL, _ string) (string, error) {
	if p.storeErr != nil {
		return "", p.storeErr
	}
	if dataURL == "" {
		return "", errors.New("empty picture")
	}
	p.next++
	ref := fmt.Sprintf("pic-%d.png", p.next)
	p.stored = append(p.stored, ref)
	return ref, nil
}

func (p *fakePictures) Delete(_ context.Context, ref string) error {
	if ref == domain.DefaultImageRef {
		return nil
	}
	p.deleted = append(p.deleted, ref)
	return nil
}

func (p *fakePictures) URL(ref string) string { return "/static/profile_pics/" + ref }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)}
}
