package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var ErrTemplateNotFound = errors.New("template not found")

var parseFiles = template.ParseFiles

// templateRenderer renders a single template file without data.
// With cache unset the file is parsed on every call.
type templateRenderer struct {
	path  string
	cache bool

	mux  sync.RWMutex
	tmpl *template.Template
	gen  uint64 // bumped by Invalidate
}

func (r *templateRenderer) load() (*template.Template, error) {
	var gen uint64
	if r.cache {
		r.mux.RLock()
		tmpl := r.tmpl
		gen = r.gen
		r.mux.RUnlock()
		if tmpl != nil {
			return tmpl, nil
		}
	}

	tmpl, err := parseFiles(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, r.path)
		}
		return nil, fmt.Errorf("parse template %s: %w", r.path, err)
	}

	// a parse that raced with Invalidate may hold the old file; use it
	// for this request but do not cache it
	if r.cache {
		r.mux.Lock()
		if r.gen == gen {
			r.tmpl = tmpl
		}
		r.mux.Unlock()
	}
	return tmpl, nil
}

// Render executes the template into memory so a failure never leaves a
// half-written response behind.
func (r *templateRenderer) Render() ([]byte, error) {
	tmpl, err := r.load()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return nil, fmt.Errorf("render template %s: %w", r.path, err)
	}
	return buf.Bytes(), nil
}

func (r *templateRenderer) Invalidate() {
	r.mux.Lock()
	r.tmpl = nil
	r.gen++
	r.mux.Unlock()
}

// renderError writes an error response. In debug mode the body carries the
// error and, for panics, the stack trace.
func (s *WebServer) renderError(c *gin.Context, statusCode int, err error, stack []byte) {
	_ = c.Error(err)
	if c.Writer.Written() {
		c.Abort()
		return
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "%d %s\n", statusCode, http.StatusText(statusCode))
	if s.Config.Debug {
		fmt.Fprintf(&body, "\n%v\n", err)
		if len(stack) > 0 {
			fmt.Fprintf(&body, "\n%s", stack)
		}
	}
	c.Data(statusCode, "text/plain; charset=utf-8", body.Bytes())
	c.Abort()
}
