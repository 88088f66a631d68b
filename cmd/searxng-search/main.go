package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	searxng "github.com/sammcj/searxng-go"
)

// Version information (set during build)
var (
	Version = "dev"
)

// fileConfig is the optional YAML configuration for default search settings.
type fileConfig struct {
	Instance   string   `yaml:"instance"`
	Language   string   `yaml:"language"`
	Categories []string `yaml:"categories"`
	Engines    []string `yaml:"engines"`
	SafeSearch *int     `yaml:"safesearch"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

func main() {
	// Load .env if present; environment variables win over file values.
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "searxng-search",
		Usage:   "query a SearXNG instance and print normalized results",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "instance",
				Aliases: []string{"i"},
				Usage:   "base URL of the SearXNG instance",
				EnvVars: []string{searxng.BaseURLEnvVar},
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file with instance and default filters",
			},
			&cli.StringSliceFlag{
				Name:  "category",
				Usage: "restrict to a category (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "engine",
				Usage: "restrict to an engine (repeatable)",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "search language tag, e.g. en or de-CH",
			},
			&cli.StringFlag{
				Name:  "time-range",
				Usage: "restrict results to day, month or year",
			},
			&cli.IntFlag{
				Name:  "safesearch",
				Usage: "safe search level: 0, 1 or 2",
				Value: -1,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "result page to fetch",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "fetch up to this many results across pages",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the normalized response as JSON",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no query given")
	}
	query := strings.Join(c.Args().Slice(), " ")

	logger := logrus.New()
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	var cfg fileConfig
	if path := c.String("config"); path != "" {
		loaded, err := loadFileConfig(path)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	instance := c.String("instance")
	if instance == "" {
		instance = cfg.Instance
	}
	if instance == "" {
		return fmt.Errorf("no instance configured: pass --instance, set %s, or use a config file", searxng.BaseURLEnvVar)
	}

	opts := []searxng.Option{searxng.WithLogger(logger)}
	if username := os.Getenv(searxng.UsernameEnvVar); username != "" {
		opts = append(opts, searxng.WithBasicAuth(username, os.Getenv(searxng.PasswordEnvVar)))
	}

	client, err := searxng.New(instance, searxng.FormatJSON, opts...)
	if err != nil {
		return err
	}

	builder := client.Search(query)
	if categories := c.StringSlice("category"); len(categories) > 0 {
		builder = builder.Categories(categories...)
	} else if len(cfg.Categories) > 0 {
		builder = builder.Categories(cfg.Categories...)
	}
	if engines := c.StringSlice("engine"); len(engines) > 0 {
		builder = builder.Engines(engines...)
	} else if len(cfg.Engines) > 0 {
		builder = builder.Engines(cfg.Engines...)
	}
	if lang := c.String("language"); lang != "" {
		builder = builder.Language(lang)
	} else if cfg.Language != "" {
		builder = builder.Language(cfg.Language)
	}
	if tr := c.String("time-range"); tr != "" {
		builder = builder.TimeRange(searxng.TimeRange(tr))
	}
	if level := c.Int("safesearch"); level >= 0 {
		builder = builder.SafeSearch(level)
	} else if cfg.SafeSearch != nil {
		builder = builder.SafeSearch(*cfg.SafeSearch)
	}
	if page := c.Int("page"); page > 0 {
		builder = builder.Page(page)
	}

	if count := c.Int("count"); count > 0 {
		results, err := builder.SendGetNum(c.Context, count)
		if err != nil {
			return err
		}
		return printResults(c, results, 0)
	}

	resp, err := builder.Send(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(resp)
	}
	return printResults(c, resp.Results, resp.SkippedResults)
}

func printResults(c *cli.Context, results []searxng.SearchResult, skipped int) error {
	if c.Bool("json") {
		return printJSON(results)
	}
	for i, r := range results {
		fmt.Printf("%2d. %s\n    %s\n", i+1, r.DisplayTitle(), r.DisplayURL())
		if content := r.Content(); content != "" {
			fmt.Printf("    %s\n", content)
		}
	}
	if skipped > 0 {
		fmt.Printf("(%d unrecognised result entries skipped)\n", skipped)
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
