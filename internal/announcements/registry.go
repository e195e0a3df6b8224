// Package announcements keeps the guilds, channels and announcement records
// shown on the dashboard. Records live in memory only.
package announcements

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes stream (Twitch) announcements from YouTube ones.
type Kind string

const (
	KindStream  Kind = "stream"
	KindYouTube Kind = "youtube"
)

// ParseKind maps config and form values onto a Kind.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stream", "twitch", "announcement", "":
		return KindStream, true
	case "youtube", "yt", "ytannouncement":
		return KindYouTube, true
	default:
		return "", false
	}
}

// Channel is a Discord text channel announcements can be posted to.
type Channel struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Guild is the scope a set of announcement forms belongs to.
type Guild struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Channels []Channel `json:"channels" yaml:"channels"`
}

// HasChannel reports whether the guild owns the channel ID.
func (g Guild) HasChannel(channelID string) bool {
	_, ok := g.Channel(channelID)
	return ok
}

// Channel returns the guild's channel with the given ID.
func (g Guild) Channel(channelID string) (Channel, bool) {
	for _, ch := range g.Channels {
		if ch.ID == channelID {
			return ch, true
		}
	}
	return Channel{}, false
}

// Announcement is one configured go-live announcement.
type Announcement struct {
	ID        string    `json:"id"`
	GuildID   string    `json:"guildId"`
	Kind      Kind      `json:"kind"`
	Name      string    `json:"name"`
	ChannelID string    `json:"channelId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrNotFound     = errors.New("announcement not found")
	ErrUnknownGuild = errors.New("unknown guild")
	ErrDuplicateID  = errors.New("announcement id already exists")
)

// UpdateFields describes the mutable announcement fields.
type UpdateFields struct {
	ID        string
	Name      *string
	ChannelID *string
	Text      *string
}

// Registry holds guilds and their announcements. It is safe for concurrent use.
type Registry struct {
	mu            sync.RWMutex
	guilds        []Guild
	announcements map[string]Announcement
}

// NewRegistry returns a Registry serving the given guilds.
func NewRegistry(guilds []Guild) *Registry {
	r := &Registry{announcements: make(map[string]Announcement)}
	r.guilds = append(r.guilds, guilds...)
	return r
}

// Guilds returns every configured guild in configuration order.
func (r *Registry) Guilds() []Guild {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Guild, len(r.guilds))
	copy(out, r.guilds)
	return out
}

// Guild returns a single guild by ID.
func (r *Registry) Guild(id string) (Guild, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.guildLocked(id)
}

func (r *Registry) guildLocked(id string) (Guild, error) {
	id = strings.TrimSpace(id)
	for _, g := range r.guilds {
		if g.ID == id {
			return g, nil
		}
	}
	return Guild{}, fmt.Errorf("%w: %s", ErrUnknownGuild, id)
}

// Add stores a new announcement and returns it with ID and timestamps set.
func (r *Registry) Add(a Announcement) (Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.guildLocked(a.GuildID); err != nil {
		return Announcement{}, err
	}
	if a.ID == "" {
		a.ID = newID()
	}
	if _, exists := r.announcements[a.ID]; exists {
		return Announcement{}, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.announcements[a.ID] = a
	return a, nil
}

// Get returns a single announcement by ID.
func (r *Registry) Get(id string) (Announcement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.announcements[strings.TrimSpace(id)]
	if !ok {
		return Announcement{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

// Update applies modifications to an existing announcement.
func (r *Registry) Update(fields UpdateFields) (Announcement, error) {
	id := strings.TrimSpace(fields.ID)
	if id == "" {
		return Announcement{}, errors.New("announcement id is required")
	}
	if fields.Name == nil && fields.ChannelID == nil && fields.Text == nil {
		return Announcement{}, errors.New("no fields provided to update")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.announcements[id]
	if !ok {
		return Announcement{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if fields.Name != nil {
		a.Name = *fields.Name
	}
	if fields.ChannelID != nil {
		a.ChannelID = *fields.ChannelID
	}
	if fields.Text != nil {
		a.Text = *fields.Text
	}
	a.UpdatedAt = time.Now().UTC()
	r.announcements[id] = a
	return a, nil
}

// Delete removes an announcement by ID and returns it.
func (r *Registry) Delete(id string) (Announcement, error) {
	id = strings.TrimSpace(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.announcements[id]
	if !ok {
		return Announcement{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.announcements, id)
	return a, nil
}

// List returns a guild's announcements of one kind, oldest first.
func (r *Registry) List(guildID string, kind Kind) []Announcement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Announcement
	for _, a := range r.announcements {
		if a.GuildID == guildID && a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// newID returns a random identifier usable as an HTML id prefix.
func newID() string {
	return "a" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
