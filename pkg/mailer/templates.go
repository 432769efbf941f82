package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	texttemplate "text/template"
	"time"

	"tikclone/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

//go:embed templates/*.html templates/*.txt
var builtin embed.FS

const (
	TemplateVerifyEmail   = "verify_email"
	TemplateResetPassword = "reset_password"
)

var templateNames = []string{TemplateVerifyEmail, TemplateResetPassword}

type templatePair struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// Templates holds the parsed email templates. Files found in an override
// directory replace the embedded defaults of the same name.
type Templates struct {
	mu  sync.RWMutex
	set map[string]templatePair
	dir string
	log logging.Logger
}

// NewTemplates parses the embedded templates, then any overrides in dir.
func NewTemplates(dir string, log logging.Logger) (*Templates, error) {
	t := &Templates{dir: dir, log: log}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-parses every template. On error the previous set stays in use.
func (t *Templates) Reload() error {
	set := make(map[string]templatePair, len(templateNames))
	for _, name := range templateNames {
		htmlSrc, err := t.source(name + ".html")
		if err != nil {
			return err
		}
		textSrc, err := t.source(name + ".txt")
		if err != nil {
			return err
		}
		h, err := htmltemplate.New(name).Parse(htmlSrc)
		if err != nil {
			return fmt.Errorf("parse %s.html: %w", name, err)
		}
		x, err := texttemplate.New(name).Parse(textSrc)
		if err != nil {
			return fmt.Errorf("parse %s.txt: %w", name, err)
		}
		set[name] = templatePair{html: h, text: x}
	}
	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

func (t *Templates) source(file string) (string, error) {
	if t.dir != "" {
		b, err := os.ReadFile(filepath.Join(t.dir, file))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	b, err := builtin.ReadFile("templates/" + file)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Render executes both parts of the named template.
func (t *Templates) Render(name string, data any) (html, text string, err error) {
	t.mu.RLock()
	p, ok := t.set[name]
	t.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	var hb, tb bytes.Buffer
	if err := p.html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := p.text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// Watch reloads the templates whenever a file in the override directory changes,
// until ctx is done. Events are debounced.
func (t *Templates) Watch(ctx context.Context) error {
	if t.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(t.dir); err != nil {
		w.Close()
		return err
	}
	go func() {
		defer w.Close()
		const settle = 200 * time.Millisecond
		timer := time.NewTimer(settle)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !isTemplateFile(ev.Name) {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					timer.Reset(settle)
				}
			case <-timer.C:
				if err := t.Reload(); err != nil {
					t.log.Warn(ctx, "mail template reload failed", "dir", t.dir, "err", err)
					continue
				}
				t.log.Info(ctx, "mail templates reloaded", "dir", t.dir)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				t.log.Warn(ctx, "mail template watch error", "err", err)
			}
		}
	}()
	return nil
}

func isTemplateFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".txt"
}
