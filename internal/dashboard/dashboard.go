// Package dashboard serves the Discord announcement pages and receives their
// form posts.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"announcement-dashboard/internal/announcements"
	"announcement-dashboard/internal/announcements/service"
	"announcement-dashboard/internal/formmode"
	"announcement-dashboard/internal/logging"
)

const pagePath = formmode.PageRoute

// AnnouncementService describes the use cases the page and form handlers call.
type AnnouncementService interface {
	List(ctx context.Context, guildID string, kind announcements.Kind) ([]announcements.Announcement, error)
	Create(ctx context.Context, req service.CreateRequest) (announcements.Announcement, error)
	Update(ctx context.Context, req service.UpdateRequest) (announcements.Announcement, error)
	Delete(ctx context.Context, req service.DeleteRequest) (announcements.Announcement, error)
}

// Options configures a Dashboard.
type Options struct {
	Registry *announcements.Registry
	Service  AnnouncementService
	Logger   logging.Logger
	// TwitchLabels labels stream forms "Twitch" instead of the generic text.
	TwitchLabels bool
	// Static serves /static/ assets. Nil disables the route.
	Static http.Handler
}

// Dashboard renders pages from a registry and applies form posts through a
// service.
type Dashboard struct {
	registry     *announcements.Registry
	service      AnnouncementService
	logger       logging.Logger
	twitchLabels bool
	static       http.Handler
}

// New builds a Dashboard.
func New(opts Options) (*Dashboard, error) {
	if opts.Registry == nil {
		return nil, errors.New("announcement registry is required")
	}
	if opts.Service == nil {
		opts.Service = service.New(service.Options{Registry: opts.Registry})
	}
	if opts.Logger == nil {
		opts.Logger = logging.New()
	}
	return &Dashboard{
		registry:     opts.Registry,
		service:      opts.Service,
		logger:       opts.Logger,
		twitchLabels: opts.TwitchLabels,
		static:       opts.Static,
	}, nil
}

// NewRouter constructs the dashboard's HTTP routes.
func (d *Dashboard) NewRouter() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(pagePath, d.handlePage)

	forms := []struct {
		route string
		kind  announcements.Kind
		op    operation
	}{
		{formmode.AnnouncementAddRoute, announcements.KindStream, opAdd},
		{formmode.AnnouncementEditRoute, announcements.KindStream, opEdit},
		{formmode.AnnouncementDeleteRoute, announcements.KindStream, opDelete},
		{formmode.YTAnnouncementAddRoute, announcements.KindYouTube, opAdd},
		{formmode.YTAnnouncementEditRoute, announcements.KindYouTube, opEdit},
		{formmode.YTAnnouncementDeleteRoute, announcements.KindYouTube, opDelete},
	}
	for _, f := range forms {
		mux.Handle(f.route, d.formHandler(f.kind, f.op))
	}

	if d.static != nil {
		mux.Handle("/static/", http.StripPrefix("/static", d.static))
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, pagePath, http.StatusFound)
	})

	return logging.WithHTTPLogging(mux, d.logger)
}

func (d *Dashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	opts := PageOptions{
		EditID: strings.TrimSpace(r.URL.Query().Get("edit")),
		Flash:  takeFlash(w, r),
	}

	var buf bytes.Buffer
	err := d.RenderPage(r.Context(), &buf, opts)
	if err != nil && opts.EditID != "" {
		d.logger.Printf("open announcement %s for editing: %v", opts.EditID, err)
		buf.Reset()
		opts.Flash = editFailureMessage(err)
		opts.EditID = ""
		err = d.RenderPage(r.Context(), &buf, opts)
	}
	if err != nil {
		d.logger.Printf("render dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

type operation int

const (
	opAdd operation = iota
	opEdit
	opDelete
)

func (d *Dashboard) formHandler(kind announcements.Kind, op operation) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}

		redirect := pagePath
		var (
			message string
			err     error
		)
		switch op {
		case opAdd:
			_, err = d.service.Create(r.Context(), service.CreateRequest{
				GuildID:   r.PostForm.Get("guild"),
				Kind:      kind,
				Name:      primaryValue(r.PostForm, kind),
				ChannelID: r.PostForm.Get("channel"),
				Text:      r.PostForm.Get("announcementText"),
			})
			message = "Announcement added."
		case opEdit:
			id := strings.TrimSpace(r.PostForm.Get(formmode.RecordIDField))
			req := service.UpdateRequest{ID: id, Kind: kind}
			if name, ok := postedValue(r.PostForm, primaryField(kind)); ok {
				req.Name = &name
			}
			if channel, ok := postedValue(r.PostForm, "channel"); ok {
				req.ChannelID = &channel
			}
			if text, ok := postedValue(r.PostForm, "announcementText"); ok {
				req.Text = &text
			}
			_, err = d.service.Update(r.Context(), req)
			message = "Announcement updated."
			if err != nil && id != "" && !errors.Is(err, announcements.ErrNotFound) {
				redirect = pagePath + "?edit=" + url.QueryEscape(id)
			}
		case opDelete:
			_, err = d.service.Delete(r.Context(), service.DeleteRequest{
				ID:   r.PostForm.Get(formmode.RecordIDField),
				Kind: kind,
			})
			message = "Announcement deleted."
		}
		if err != nil {
			message = d.errorMessage(err)
		}
		setFlash(w, message)
		http.Redirect(w, r, redirect, http.StatusSeeOther)
	})
}

func (d *Dashboard) errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return err.Error()
	case errors.Is(err, announcements.ErrNotFound):
		return "announcement not found"
	case errors.Is(err, announcements.ErrUnknownGuild):
		return "unknown guild"
	case errors.Is(err, announcements.ErrDuplicateID):
		return "an announcement with that id already exists"
	default:
		d.logger.Printf("save announcement: %v", err)
		return "failed to save announcement"
	}
}

func editFailureMessage(err error) string {
	switch {
	case errors.Is(err, announcements.ErrNotFound):
		return "announcement not found"
	case errors.Is(err, formmode.ErrMalformedRecordSummary), errors.Is(err, formmode.ErrMissingFormElement):
		return "could not open announcement for editing"
	default:
		return "failed to open announcement for editing"
	}
}

func primaryField(kind announcements.Kind) string {
	if kind == announcements.KindYouTube {
		return "youtubeChannel"
	}
	return "streamName"
}

func primaryValue(form url.Values, kind announcements.Kind) string {
	return form.Get(primaryField(kind))
}

func postedValue(form url.Values, key string) (string, bool) {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
