// CLAUDE:SUMMARY Chrome lifecycle for the live picker: launch locally (headless or headful) or connect to a remote instance.
// Package picker drives a real browser so a user (or a script) can point at
// an element and get its locator candidates. The page DOM is snapshotted
// and mapped onto a parsed tree; candidate generation itself never talks to
// the browser.
package picker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/hazyhaar/xpick/internal/config"
)

// Level controls how the browser is run.
type Level int

const (
	LevelPlain    Level = 0 // no stealth patches
	LevelHeadless Level = 1 // headless + stealth
	LevelHeadful  Level = 2 // visible window + stealth, for interactive picks
)

// ParseLevel maps "none", "headless" and "headful" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "plain":
		return LevelPlain, nil
	case "", "headless":
		return LevelHeadless, nil
	case "headful":
		return LevelHeadful, nil
	}
	return 0, fmt.Errorf("picker: unknown stealth level %q", s)
}

func (l Level) String() string {
	switch l {
	case LevelPlain:
		return "none"
	case LevelHeadful:
		return "headful"
	default:
		return "headless"
	}
}

// Config configures the browser manager.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome.
	// Empty launches a local Chrome.
	RemoteURL string

	Level Level

	// NavTimeout bounds navigation and load. Default: 30s.
	NavTimeout time.Duration

	// ResourceBlocking lists resource types to block (images, fonts, media, stylesheets).
	ResourceBlocking []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// ConfigFrom converts the browser section of the configuration file.
func ConfigFrom(b config.Browser, logger *slog.Logger) (Config, error) {
	lvl, err := ParseLevel(b.Stealth)
	if err != nil {
		return Config{}, err
	}
	return Config{
		RemoteURL:        b.Remote,
		Level:            lvl,
		NavTimeout:       b.NavTimeout,
		ResourceBlocking: b.ResourceBlocking,
		Logger:           logger,
	}, nil
}

// Manager owns one Chrome process or remote connection.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a Manager. Call Start to launch Chrome.
func NewManager(cfg Config) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to the remote instance).
func (m *Manager) Start(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("picker: manager is closed")
	}
	if m.browser != nil {
		return m.browser, nil
	}

	log := m.cfg.Logger
	wsURL := m.cfg.RemoteURL
	if wsURL != "" {
		log.Info("picker: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(m.cfg.Level != LevelHeadful).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("picker: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("picker: launched local chrome", "url", wsURL, "level", m.cfg.Level)
	}

	b := rod.New().Context(ctx).ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		m.cleanup()
		return nil, fmt.Errorf("picker: connect: %w", err)
	}
	m.browser = b
	return b, nil
}

// Browser returns the current browser handle, nil before Start.
func (m *Manager) Browser() *rod.Browser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.browser
}

// Close shuts Chrome down.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.cleanup()
}

func (m *Manager) cleanup() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return err
}
