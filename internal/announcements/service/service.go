// Package service implements the announcement use cases behind the dashboard
// form posts.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"announcement-dashboard/internal/announcements"
)

// ErrValidation indicates the request payload is invalid.
var ErrValidation = errors.New("validation error")

// Options configures a Service instance.
type Options struct {
	Registry *announcements.Registry
}

// Service implements the business logic for announcement operations.
type Service struct {
	registry *announcements.Registry
}

// CreateRequest captures the fields accepted by Create.
type CreateRequest struct {
	GuildID   string
	Kind      announcements.Kind
	Name      string
	ChannelID string
	Text      string
}

// UpdateRequest captures mutable announcement fields.
type UpdateRequest struct {
	ID        string
	Kind      announcements.Kind
	Name      *string
	ChannelID *string
	Text      *string
}

// DeleteRequest describes the announcement deletion payload.
type DeleteRequest struct {
	ID   string
	Kind announcements.Kind
}

// New instantiates a Service.
func New(opts Options) *Service {
	return &Service{registry: opts.Registry}
}

// List returns a guild's announcements of one kind.
func (s *Service) List(ctx context.Context, guildID string, kind announcements.Kind) ([]announcements.Announcement, error) {
	if err := s.ensureRegistry(); err != nil {
		return nil, err
	}
	if _, err := s.registry.Guild(guildID); err != nil {
		return nil, err
	}
	return s.registry.List(guildID, kind), nil
}

// Create validates and stores a new announcement.
func (s *Service) Create(ctx context.Context, req CreateRequest) (announcements.Announcement, error) {
	if err := s.ensureRegistry(); err != nil {
		return announcements.Announcement{}, err
	}
	guildID := strings.TrimSpace(req.GuildID)
	if guildID == "" {
		return announcements.Announcement{}, fmt.Errorf("%w: guild is required", ErrValidation)
	}
	guild, err := s.registry.Guild(guildID)
	if err != nil {
		return announcements.Announcement{}, err
	}
	kind := req.Kind
	if kind == "" {
		kind = announcements.KindStream
	}
	name := normaliseName(req.Name)
	if name == "" {
		return announcements.Announcement{}, fmt.Errorf("%w: %s is required", ErrValidation, nameField(kind))
	}
	if err := checkPlainText(nameField(kind), name); err != nil {
		return announcements.Announcement{}, err
	}
	channelID := strings.TrimSpace(req.ChannelID)
	if err := checkChannel(guild, channelID); err != nil {
		return announcements.Announcement{}, err
	}
	text, err := ValidateText(req.Text)
	if err != nil {
		return announcements.Announcement{}, err
	}
	return s.registry.Add(announcements.Announcement{
		GuildID:   guild.ID,
		Kind:      kind,
		Name:      name,
		ChannelID: channelID,
		Text:      text,
	})
}

// Update modifies an existing announcement.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (announcements.Announcement, error) {
	if err := s.ensureRegistry(); err != nil {
		return announcements.Announcement{}, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return announcements.Announcement{}, fmt.Errorf("%w: announcement id is required", ErrValidation)
	}
	current, err := s.registry.Get(id)
	if err != nil {
		return announcements.Announcement{}, err
	}
	if req.Kind != "" && req.Kind != current.Kind {
		return announcements.Announcement{}, fmt.Errorf("%w: announcement %s is not a %s announcement", ErrValidation, id, req.Kind)
	}
	update := announcements.UpdateFields{ID: id}
	var hasUpdate bool
	if req.Name != nil {
		name := normaliseName(*req.Name)
		if name == "" {
			return announcements.Announcement{}, fmt.Errorf("%w: %s cannot be blank", ErrValidation, nameField(current.Kind))
		}
		if err := checkPlainText(nameField(current.Kind), name); err != nil {
			return announcements.Announcement{}, err
		}
		update.Name = &name
		hasUpdate = true
	}
	if req.ChannelID != nil {
		channelID := strings.TrimSpace(*req.ChannelID)
		guild, err := s.registry.Guild(current.GuildID)
		if err != nil {
			return announcements.Announcement{}, err
		}
		if err := checkChannel(guild, channelID); err != nil {
			return announcements.Announcement{}, err
		}
		update.ChannelID = &channelID
		hasUpdate = true
	}
	if req.Text != nil {
		text, err := ValidateText(*req.Text)
		if err != nil {
			return announcements.Announcement{}, err
		}
		update.Text = &text
		hasUpdate = true
	}
	if !hasUpdate {
		return announcements.Announcement{}, fmt.Errorf("%w: at least one announcement field must be provided", ErrValidation)
	}
	return s.registry.Update(update)
}

// Delete removes an announcement.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (announcements.Announcement, error) {
	if err := s.ensureRegistry(); err != nil {
		return announcements.Announcement{}, err
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return announcements.Announcement{}, fmt.Errorf("%w: announcement id is required", ErrValidation)
	}
	current, err := s.registry.Get(id)
	if err != nil {
		return announcements.Announcement{}, err
	}
	if req.Kind != "" && req.Kind != current.Kind {
		return announcements.Announcement{}, fmt.Errorf("%w: announcement %s is not a %s announcement", ErrValidation, id, req.Kind)
	}
	return s.registry.Delete(id)
}

func (s *Service) ensureRegistry() error {
	if s == nil {
		return errors.New("announcement service is nil")
	}
	if s.registry == nil {
		return errors.New("announcement registry is not configured")
	}
	return nil
}

func checkChannel(guild announcements.Guild, channelID string) error {
	if channelID == "" {
		return fmt.Errorf("%w: channel is required", ErrValidation)
	}
	if !guild.HasChannel(channelID) {
		return fmt.Errorf("%w: channel %s does not belong to guild %s", ErrValidation, channelID, guild.ID)
	}
	return nil
}

func nameField(kind announcements.Kind) string {
	if kind == announcements.KindYouTube {
		return "youtube channel"
	}
	return "stream name"
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// NormaliseText trims every line of announcement text and drops blank lines.
// The text is otherwise kept as typed; templates escape it on render.
func NormaliseText(raw string) string {
	lines := strings.Split(normaliseNewlines(raw), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// ValidateText normalises announcement text and rejects text that is blank or
// carries HTML markup.
func ValidateText(raw string) (string, error) {
	text := NormaliseText(raw)
	if text == "" {
		return "", fmt.Errorf("%w: announcement text is required", ErrValidation)
	}
	if err := checkPlainText("announcement text", text); err != nil {
		return "", err
	}
	return text, nil
}

func normaliseName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// checkPlainText reports markup the strict policy would remove. Entities and
// stray angle brackets survive the policy unchanged and are accepted.
func checkPlainText(field, value string) error {
	sanitized := html.UnescapeString(policy().Sanitize(value))
	if sanitized != html.UnescapeString(normaliseNewlines(value)) {
		return fmt.Errorf("%w: %s must be plain text, not HTML", ErrValidation, field)
	}
	return nil
}

func normaliseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
