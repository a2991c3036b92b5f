package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/odysseus0/headlines/internal/model"
	"github.com/odysseus0/headlines/internal/opml"
)

const (
	defaultHTTPTimeoutSec  = 15
	defaultPerSourceLimit  = 4
	defaultGlobalFetchCap  = 12
	defaultGlobalTopLimit  = 4
	defaultFetchConcurrent = 1
)

const (
	// DefaultUserAgent identifies as a desktop browser; several publishers
	// answer generic clients with an HTML interstitial instead of the feed.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0 Safari/537.36"

	defaultCSVName    = "news_headlines.csv"
	defaultXLSXName   = "news_headlines.xlsx"
	configFolderName  = "headlines"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	OutDir           string
	CSVName          string
	XLSXName         string
	DBPath           string
	HTTPTimeout      time.Duration
	UserAgent        string
	PerSourceLimit   int
	GlobalFetchLimit int
	GlobalTopLimit   int
	FetchConcurrency int
	SourcesOPML      string
	Sources          []model.Source
}

// DefaultSources is used when neither the config file nor an OPML file names any.
func DefaultSources() []model.Source {
	return []model.Source{
		{
			Name: "TechCrunch",
			URLs: []string{"https://techcrunch.com/feed/"},
		},
		{
			Name: "Economic Times - Top Stories",
			URLs: []string{
				"https://b2b.economictimes.indiatimes.com/rss/topstories",
				"https://economictimes.indiatimes.com/feeds/newsdefault.cms",
				"https://economictimes.indiatimes.com/rssfeedsdefault.cms",
				"https://economictimes.indiatimes.com/defaultinterstitial.cms",
			},
		},
	}
}

func Default() Config {
	return Config{
		OutDir:           ".",
		CSVName:          defaultCSVName,
		XLSXName:         defaultXLSXName,
		HTTPTimeout:      defaultHTTPTimeoutSec * time.Second,
		UserAgent:        DefaultUserAgent,
		PerSourceLimit:   defaultPerSourceLimit,
		GlobalFetchLimit: defaultGlobalFetchCap,
		GlobalTopLimit:   defaultGlobalTopLimit,
		FetchConcurrency: defaultFetchConcurrent,
		Sources:          DefaultSources(),
	}
}

// MaxItems is the per-source cap handed to the resolver for a run in mode.
func (c Config) MaxItems(mode model.Mode) int {
	if mode == model.ModeGlobalTop {
		return c.GlobalFetchLimit
	}
	return c.PerSourceLimit
}

func (c Config) CSVPath() string {
	return filepath.Join(c.OutDir, c.CSVName)
}

func (c Config) XLSXPath() string {
	return filepath.Join(c.OutDir, c.XLSXName)
}

// LoadConfig builds the effective configuration: defaults, then the config
// file (explicitPath when set, otherwise the XDG locations), then env vars.
func LoadConfig(explicitPath string) (Config, error) {
	cfg := Default()

	configPath, hasConfig := strings.TrimSpace(explicitPath), strings.TrimSpace(explicitPath) != ""
	if !hasConfig {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		configPath, hasConfig, err = findConfigPath(home)
		if err != nil {
			return Config{}, err
		}
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = defaultFetchConcurrent
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	if cfg.SourcesOPML != "" {
		sources, err := opml.ReadSources(cfg.SourcesOPML)
		if err != nil {
			return Config{}, fmt.Errorf("%w: sources_opml %q: %v", ErrInvalidConfig, cfg.SourcesOPML, err)
		}
		cfg.Sources = sources
	}
	if err := ValidateSources(cfg.Sources); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	OutDir             *string        `toml:"out_dir"`
	CSVName            *string        `toml:"csv_name"`
	XLSXName           *string        `toml:"xlsx_name"`
	DBPath             *string        `toml:"db_path"`
	HTTPTimeoutSeconds *int           `toml:"http_timeout_seconds"`
	UserAgent          *string        `toml:"user_agent"`
	PerSourceLimit     *int           `toml:"per_source_limit"`
	GlobalFetchLimit   *int           `toml:"global_fetch_limit"`
	GlobalTopLimit     *int           `toml:"global_top_limit"`
	FetchConcurrency   *int           `toml:"fetch_concurrency"`
	SourcesOPML        *string        `toml:"sources_opml"`
	Sources            []model.Source `toml:"sources"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%w file %q: %v", ErrInvalidConfig, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("%w file %q: unknown key(s): %s", ErrInvalidConfig, path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	nonEmpty := map[string]*string{
		"out_dir":   cfg.OutDir,
		"csv_name":  cfg.CSVName,
		"xlsx_name": cfg.XLSXName,
	}
	for _, key := range []string{"out_dir", "csv_name", "xlsx_name"} {
		if v := nonEmpty[key]; v != nil && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w file %q: %s must be non-empty when provided", ErrInvalidConfig, path, key)
		}
	}
	positive := map[string]*int{
		"http_timeout_seconds": cfg.HTTPTimeoutSeconds,
		"per_source_limit":     cfg.PerSourceLimit,
		"global_fetch_limit":   cfg.GlobalFetchLimit,
		"global_top_limit":     cfg.GlobalTopLimit,
		"fetch_concurrency":    cfg.FetchConcurrency,
	}
	for _, key := range []string{"http_timeout_seconds", "per_source_limit", "global_fetch_limit", "global_top_limit", "fetch_concurrency"} {
		if v := positive[key]; v != nil && *v < 1 {
			return fmt.Errorf("%w file %q: %s must be >= 1", ErrInvalidConfig, path, key)
		}
	}
	if cfg.Sources != nil {
		if err := checkSources(cfg.Sources); err != nil {
			return fmt.Errorf("%w file %q: %v", ErrInvalidConfig, path, err)
		}
	}
	return nil
}

// ValidateSources enforces the source configuration invariants: at least one
// source, unique non-empty names, and a non-empty ordered URL list for each.
func ValidateSources(sources []model.Source) error {
	if err := checkSources(sources); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func checkSources(sources []model.Source) error {
	if len(sources) == 0 {
		return errors.New("no sources configured")
	}
	seen := make(map[string]struct{}, len(sources))
	for i, src := range sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			return fmt.Errorf("source #%d has no name", i+1)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("duplicate source %q", name)
		}
		seen[name] = struct{}{}
		if len(src.URLs) == 0 {
			return fmt.Errorf("source %q has no urls", name)
		}
		for _, u := range src.URLs {
			if strings.TrimSpace(u) == "" {
				return fmt.Errorf("source %q has an empty url", name)
			}
		}
	}
	return nil
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.OutDir != nil {
		cfg.OutDir = *fileCfg.OutDir
	}
	if fileCfg.CSVName != nil {
		cfg.CSVName = *fileCfg.CSVName
	}
	if fileCfg.XLSXName != nil {
		cfg.XLSXName = *fileCfg.XLSXName
	}
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.UserAgent != nil && strings.TrimSpace(*fileCfg.UserAgent) != "" {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.PerSourceLimit != nil {
		cfg.PerSourceLimit = *fileCfg.PerSourceLimit
	}
	if fileCfg.GlobalFetchLimit != nil {
		cfg.GlobalFetchLimit = *fileCfg.GlobalFetchLimit
	}
	if fileCfg.GlobalTopLimit != nil {
		cfg.GlobalTopLimit = *fileCfg.GlobalTopLimit
	}
	if fileCfg.FetchConcurrency != nil {
		cfg.FetchConcurrency = *fileCfg.FetchConcurrency
	}
	if fileCfg.SourcesOPML != nil {
		cfg.SourcesOPML = strings.TrimSpace(*fileCfg.SourcesOPML)
	}
	if len(fileCfg.Sources) > 0 {
		cfg.Sources = trimSources(fileCfg.Sources)
	}
}

func trimSources(in []model.Source) []model.Source {
	out := make([]model.Source, 0, len(in))
	for _, src := range in {
		urls := make([]string, 0, len(src.URLs))
		for _, u := range src.URLs {
			urls = append(urls, strings.TrimSpace(u))
		}
		out = append(out, model.Source{Name: strings.TrimSpace(src.Name), URLs: urls})
	}
	return out
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("HEADLINES_OUT_DIR"); ok && v != "" {
		cfg.OutDir = v
	}
	if v, ok := os.LookupEnv("HEADLINES_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("HEADLINES_SOURCES_OPML"); ok && v != "" {
		cfg.SourcesOPML = v
	}
	if v, ok := os.LookupEnv("HEADLINES_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("HEADLINES_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("HEADLINES_FETCH_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.FetchConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("HEADLINES_PER_SOURCE_LIMIT"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.PerSourceLimit = n
		}
	}
	if v, ok := os.LookupEnv("HEADLINES_GLOBAL_FETCH_LIMIT"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.GlobalFetchLimit = n
		}
	}
	if v, ok := os.LookupEnv("HEADLINES_GLOBAL_TOP_LIMIT"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.GlobalTopLimit = n
		}
	}
}
