package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tasktabs"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Toggle        string `toml:"toggle"`
	Complete      string `toml:"complete"`
	Delete        string `toml:"delete"`
	ClearAll      string `toml:"clear_all"`
	NextFilter    string `toml:"next_filter"`
	PrevFilter    string `toml:"prev_filter"`
	ShowAll       string `toml:"show_all"`
	ShowPending   string `toml:"show_pending"`
	ShowCompleted string `toml:"show_completed"`
	Confirm       string `toml:"confirm"`
	Cancel        string `toml:"cancel"`
	ConfirmYes    string `toml:"confirm_yes"`
	ConfirmNo     string `toml:"confirm_no"`
}

type Config struct {
	DBPath        string `toml:"db_path"`
	DefaultFilter string `toml:"default_filter"`
	LogPath       string `toml:"log_path"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath prefers $TASKTABS_CONFIG, then the user config
// directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv("TASKTABS_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// if the file does not exist. Relative paths inside the file are resolved
// against the file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg.Keys = cfg.Keys.withDefaults(Default().Keys)
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Complete, d.Complete)
	fill(&k.Delete, d.Delete)
	fill(&k.ClearAll, d.ClearAll)
	fill(&k.NextFilter, d.NextFilter)
	fill(&k.PrevFilter, d.PrevFilter)
	fill(&k.ShowAll, d.ShowAll)
	fill(&k.ShowPending, d.ShowPending)
	fill(&k.ShowCompleted, d.ShowCompleted)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.ConfirmYes, d.ConfirmYes)
	fill(&k.ConfirmNo, d.ConfirmNo)
	return k
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			Toggle:        " ",
			Complete:      "u",
			Delete:        "d",
			ClearAll:      "C",
			NextFilter:    "tab",
			PrevFilter:    "shift+tab",
			ShowAll:       "1",
			ShowPending:   "2",
			ShowCompleted: "3",
			Confirm:       "enter",
			Cancel:        "esc",
			ConfirmYes:    "y",
			ConfirmNo:     "n",
		},
	}
}
