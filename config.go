package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SintaW245/unsplash-gallery/internal/session"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "conf/config.json"

type Config struct {
	Unsplash struct {
		AccessKey string `json:"access" yaml:"access"`
		URL       string `json:"url" yaml:"url"`
		Timeout   string `json:"timeout" yaml:"timeout"`
	} `json:"unsplash.com" yaml:"unsplash.com"`
	Session struct {
		Backend  string `json:"backend" yaml:"backend"`
		Database string `json:"database" yaml:"database"`
		Redis    struct {
			Addr     string `json:"addr" yaml:"addr"`
			Password string `json:"password" yaml:"password"`
			DB       int    `json:"db" yaml:"db"`
		} `json:"redis" yaml:"redis"`
		TTL      string `json:"ttl" yaml:"ttl"`
		Capacity int    `json:"capacity" yaml:"capacity"`
	} `json:"session" yaml:"session"`
	Server struct {
		Listen string `json:"listen" yaml:"listen"`
	} `json:"server" yaml:"server"`
	Search struct {
		Denylist []string `json:"denylist" yaml:"denylist"`
	} `json:"search" yaml:"search"`
	Debug struct {
		PrettyJson bool   `json:"prettyJson" yaml:"prettyJson"`
		LogLevel   string `json:"logLevel" yaml:"logLevel"`
	} `json:"debug" yaml:"debug"`
}

// loadConfig reads a JSON or, by extension, YAML configuration file. The
// access key may also come from UNSPLASH_ACCESS_KEY.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		switch err := decoder.Decode(&cfg).(type) {
		case nil:
		case *json.SyntaxError:
			pos := findPos(bufio.NewReader(bytes.NewReader(data)), int(err.Offset))
			return nil, fmt.Errorf("unable to decode configuration file (Line: %d, Pos: %d): %w", pos.line, pos.pos, err)
		default:
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		cfg.Unsplash.AccessKey = key
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	if _, err := parseDuration(cfg.Unsplash.Timeout); err != nil {
		return fmt.Errorf("unsplash.com timeout: %w", err)
	}
	if _, err := parseDuration(cfg.Session.TTL); err != nil {
		return fmt.Errorf("session ttl: %w", err)
	}
	return nil
}

func (cfg *Config) UnsplashTimeout() time.Duration {
	d, _ := parseDuration(cfg.Unsplash.Timeout)
	if d <= 0 {
		return unsplash.DefaultTimeout
	}
	return d
}

func (cfg *Config) SessionConfig() session.Config {
	ttl, _ := parseDuration(cfg.Session.TTL)
	return session.Config{
		Backend:       cfg.Session.Backend,
		Database:      cfg.Session.Database,
		RedisAddr:     cfg.Session.Redis.Addr,
		RedisPassword: cfg.Session.Redis.Password,
		RedisDB:       cfg.Session.Redis.DB,
		TTL:           ttl,
		Capacity:      cfg.Session.Capacity,
	}
}

func (cfg *Config) ListenAddr() string {
	if cfg.Server.Listen == "" {
		return ":8081"
	}
	return cfg.Server.Listen
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

type FilePos struct {
	line int
	pos  int
}

// findPos turns a byte offset into a 1-based line and the offset within it.
func findPos(file *bufio.Reader, offset int) FilePos {
	p := FilePos{line: 1, pos: offset}
	for {
		line, err := file.ReadBytes('\n')
		if len(line) == 0 {
			return p
		}
		if p.pos <= len(line) || line[len(line)-1] != '\n' {
			return p
		}
		p.line++
		p.pos -= len(line)
		if err == io.EOF {
			return p
		}
	}
}
