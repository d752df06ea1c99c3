// Package view renders the server-side pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"klaxon/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates.
const (
	Home           = "home.html"
	Connected      = "connected.html"
	Admin          = "admin.html"
	Login          = "login.html"
	RideForm       = "ride_form.html"
	AdminRides     = "admin_rides.html"
	Users          = "users.html"
	UserForm       = "user_form.html"
	Agencies       = "agencies.html"
	AgencyForm     = "agency_form.html"
	ChangePassword = "change_password.html"
	Error          = "error.html"
)

const layoutFile = "layout.html"

// Page is the data bag handed to every template.
type Page struct {
	Title       string
	Description string
	User        *session.Identity
	IsAdmin     bool
	CSRFToken   string
	Flashes     []session.Flash
	Data        map[string]any
}

// Set stores a template value and returns p for chaining.
func (p *Page) Set(key string, value any) *Page {
	if p.Data == nil {
		p.Data = make(map[string]any)
	}
	p.Data[key] = value
	return p
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
	"formtime": func(t time.Time) string {
		return t.Format("2006-01-02T15:04")
	},
	"city": func(names map[uint]string, id uint) string {
		if name, ok := names[id]; ok {
			return name
		}
		return fmt.Sprintf("#%d", id)
	},
}

// New parses the layout once and every page on top of it.
func New() (*Renderer, error) {
	base, err := template.New(layoutFile).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := path.Base(f)
		if name == layoutFile {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the layout with the named page as content.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
