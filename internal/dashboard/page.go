package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"announcement-dashboard/internal/announcements"
	"announcement-dashboard/internal/formmode"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

const pageTitle = "Discord Announcements"

// PageOptions selects what RenderPage draws.
type PageOptions struct {
	// GuildID limits the page to one guild. Empty renders every guild.
	GuildID string
	// EditID renders the page with the announcement's form in edit mode.
	EditID string
	Flash  string
}

type pageData struct {
	Title   string
	Flash   string
	Guilds  []guildView
	Stream  sectionView
	YouTube sectionView
}

type sectionView struct {
	Heading string
	Variant formmode.Variant
}

type guildView struct {
	ID       string
	Name     string
	Channels []announcements.Channel
	Streams  []summaryView
	Videos   []summaryView
}

type summaryView struct {
	ID          string
	FormID      string
	DeleteRoute string
	GuildID     string
	ChannelID   string
	Kind        announcements.Kind
	Name        string
	Lines       []string
}

// RenderPage writes the dashboard page. When opts.EditID is set the page is
// rendered, then the announcement's form is switched to edit mode with the
// same controller the browser runs.
func (d *Dashboard) RenderPage(ctx context.Context, w io.Writer, opts PageOptions) error {
	data, err := d.pageData(ctx, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	if strings.TrimSpace(opts.EditID) == "" {
		_, err := buf.WriteTo(w)
		return err
	}
	return d.renderEdit(w, buf.Bytes(), opts.EditID)
}

func (d *Dashboard) renderEdit(w io.Writer, page []byte, editID string) error {
	record, err := d.registry.Get(editID)
	if err != nil {
		return err
	}
	doc, err := formmode.ParseHTML(bytes.NewReader(page))
	if err != nil {
		return err
	}
	ctrl, err := formmode.Bind(doc, d.variantFor(record.Kind), record.GuildID)
	if err != nil {
		return err
	}
	if err := ctrl.EditRecord(record.ID, record.ChannelID); err != nil {
		return err
	}
	return doc.Render(w)
}

func (d *Dashboard) pageData(ctx context.Context, opts PageOptions) (pageData, error) {
	data := pageData{
		Title:   pageTitle,
		Flash:   opts.Flash,
		Stream:  sectionView{Heading: "Stream announcements", Variant: d.variantFor(announcements.KindStream)},
		YouTube: sectionView{Heading: "YouTube announcements", Variant: d.variantFor(announcements.KindYouTube)},
	}
	guilds := d.registry.Guilds()
	if id := strings.TrimSpace(opts.GuildID); id != "" {
		guild, err := d.registry.Guild(id)
		if err != nil {
			return pageData{}, err
		}
		guilds = []announcements.Guild{guild}
	}
	for _, g := range guilds {
		view := guildView{ID: g.ID, Name: g.Name, Channels: g.Channels}
		if view.Name == "" {
			view.Name = g.ID
		}
		streams, err := d.service.List(ctx, g.ID, announcements.KindStream)
		if err != nil {
			return pageData{}, err
		}
		for _, a := range streams {
			view.Streams = append(view.Streams, d.summary(g, a))
		}
		videos, err := d.service.List(ctx, g.ID, announcements.KindYouTube)
		if err != nil {
			return pageData{}, err
		}
		for _, a := range videos {
			view.Videos = append(view.Videos, d.summary(g, a))
		}
		data.Guilds = append(data.Guilds, view)
	}
	return data, nil
}

func (d *Dashboard) summary(g announcements.Guild, a announcements.Announcement) summaryView {
	variant := d.variantFor(a.Kind)
	channelName := a.ChannelID
	if ch, ok := g.Channel(a.ChannelID); ok {
		channelName = ch.Name
	}
	deleteRoute := formmode.AnnouncementDeleteRoute
	if a.Kind == announcements.KindYouTube {
		deleteRoute = formmode.YTAnnouncementDeleteRoute
	}
	return summaryView{
		ID:          a.ID,
		FormID:      variant.SummaryID(a.ID),
		DeleteRoute: deleteRoute,
		GuildID:     a.GuildID,
		ChannelID:   a.ChannelID,
		Kind:        a.Kind,
		Name:        a.Name,
		Lines:       summaryLines(channelName, a.Text),
	}
}

// summaryLines lays out the summary body as "Channel: name", "Text: first
// line" and the remaining text lines.
func summaryLines(channelName, text string) []string {
	lines := []string{"Channel: " + channelName}
	body := strings.Split(text, "\n")
	lines = append(lines, "Text: "+body[0])
	return append(lines, body[1:]...)
}

func (d *Dashboard) variantFor(kind announcements.Kind) formmode.Variant {
	if kind == announcements.KindYouTube {
		return formmode.YouTubeAnnouncement
	}
	if d.twitchLabels {
		return formmode.TwitchAnnouncement
	}
	return formmode.Announcement
}
