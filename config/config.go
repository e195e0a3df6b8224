package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr = "127.0.0.1"
	defaultPort = ":8880"
)

// ServerConfig configures the HTTP listener used by the dashboard.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Port string `json:"port" yaml:"port"`
}

// ChannelConfig is a text channel announcements can be posted to.
type ChannelConfig struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// GuildConfig is a Discord guild shown on the dashboard.
type GuildConfig struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Channels []ChannelConfig `json:"channels" yaml:"channels"`
}

// AnnouncementConfig seeds an announcement at startup.
type AnnouncementConfig struct {
	ID      string `json:"id" yaml:"id"`
	Guild   string `json:"guild" yaml:"guild"`
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name" yaml:"name"`
	Channel string `json:"channel" yaml:"channel"`
	Text    string `json:"text" yaml:"text"`
}

// DashboardConfig describes the guilds and announcements served.
type DashboardConfig struct {
	TwitchLabels  bool                 `json:"twitch_labels" yaml:"twitch_labels"`
	Guilds        []GuildConfig        `json:"guilds" yaml:"guilds"`
	Announcements []AnnouncementConfig `json:"announcements" yaml:"announcements"`
}

// Config represents the combined runtime settings parsed from the config file.
type Config struct {
	Server    ServerConfig
	Dashboard DashboardConfig
}

type fileConfig struct {
	ServerBlock *ServerConfig `json:"server" yaml:"server"`
	Addr        string        `json:"addr" yaml:"addr"`
	Port        string        `json:"port" yaml:"port"`
	Dashboard   struct {
		TwitchLabels  *bool                `json:"twitch_labels" yaml:"twitch_labels"`
		Guilds        []GuildConfig        `json:"guilds" yaml:"guilds"`
		Announcements []AnnouncementConfig `json:"announcements" yaml:"announcements"`
	} `json:"dashboard" yaml:"dashboard"`
}

// Load reads the config file at path. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	server := ServerConfig{Addr: raw.Addr, Port: raw.Port}
	if raw.ServerBlock != nil {
		server = *raw.ServerBlock
		if server.Addr == "" {
			server.Addr = raw.Addr
		}
		if server.Port == "" {
			server.Port = raw.Port
		}
	}
	if server.Addr == "" {
		server.Addr = defaultAddr
	}
	if server.Port == "" {
		server.Port = defaultPort
	}

	dashboard := DashboardConfig{
		TwitchLabels:  true,
		Guilds:        raw.Dashboard.Guilds,
		Announcements: raw.Dashboard.Announcements,
	}
	if raw.Dashboard.TwitchLabels != nil {
		dashboard.TwitchLabels = *raw.Dashboard.TwitchLabels
	}
	if err := dashboard.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return Config{Server: server, Dashboard: dashboard}, nil
}

func (d DashboardConfig) validate() error {
	channels := make(map[string]map[string]struct{}, len(d.Guilds))
	for i, g := range d.Guilds {
		id := strings.TrimSpace(g.ID)
		if id == "" {
			return fmt.Errorf("dashboard.guilds[%d].id is required", i)
		}
		if _, dup := channels[id]; dup {
			return fmt.Errorf("dashboard.guilds[%d]: duplicate guild id %q", i, id)
		}
		set := make(map[string]struct{}, len(g.Channels))
		for j, ch := range g.Channels {
			if strings.TrimSpace(ch.ID) == "" {
				return fmt.Errorf("dashboard.guilds[%d].channels[%d].id is required", i, j)
			}
			set[ch.ID] = struct{}{}
		}
		channels[id] = set
	}
	for i, a := range d.Announcements {
		set, ok := channels[strings.TrimSpace(a.Guild)]
		if !ok {
			return fmt.Errorf("dashboard.announcements[%d]: unknown guild %q", i, a.Guild)
		}
		if _, ok := set[a.Channel]; !ok {
			return fmt.Errorf("dashboard.announcements[%d]: unknown channel %q in guild %q", i, a.Channel, a.Guild)
		}
	}
	return nil
}
