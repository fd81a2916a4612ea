package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"iconfetcher/internal/chains"
	"iconfetcher/internal/config"
	"iconfetcher/internal/coordinator"
	"iconfetcher/internal/fetcher"
	"iconfetcher/internal/icons"
	"iconfetcher/internal/protocols"
	"iconfetcher/internal/store"
	"iconfetcher/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	// Interrupts cancel the run; icons written so far stay on disk
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		slog.Error("icon fetch failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	all := []string{chains.Source, protocols.Source, tokens.Source}

	return &cli.App{
		Name:  "iconfetcher",
		Usage: "download chain, protocol and token icons from DefiLlama",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every request"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
			&cli.StringFlag{Name: "config", Usage: "path to a config file (default: ./config.yaml)"},
		},
		Before: func(c *cli.Context) error {
			setupLogging(c)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   chains.Source,
				Usage:  "download chain icons",
				Action: runSources(out, chains.Source),
			},
			{
				Name:   protocols.Source,
				Usage:  "download one icon per protocol listed in the yield pools",
				Action: runSources(out, protocols.Source),
			},
			{
				Name:   tokens.Source,
				Usage:  "download token icons from the swap token lists",
				Action: runSources(out, tokens.Source),
			},
			{
				Name:   "all",
				Usage:  "download chain, protocol and token icons in that order",
				Action: runSources(out, all...),
			},
		},
		Action: runSources(out, all...),
	}
}

func setupLogging(c *cli.Context) {
	level := slog.LevelInfo
	switch {
	case c.Bool("verbose"):
		level = slog.LevelDebug
	case c.Bool("quiet"):
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runSources(out io.Writer, sources ...string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		jobs, err := buildJobs(cfg, out, sources)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Fetching icons...")
		if _, err := coordinator.New(jobs, out).Run(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(out, "All icons fetched!")
		return nil
	}
}

// buildJobs creates one job per requested source. Output directories are
// checked here, before any network traffic.
func buildJobs(cfg *config.Config, out io.Writer, sources []string) ([]fetcher.Job, error) {
	client := fetcher.NewClient(fetcher.NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout))
	reporter := icons.NewConsole(out)

	var jobs []fetcher.Job
	for _, source := range sources {
		switch source {
		case chains.Source:
			st, err := store.NewOS(cfg.ChainsDir)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, chains.NewChainsJob(client, st, reporter, chains.Options{
				ListURL:  cfg.ChainsListURL,
				IconBase: cfg.IconsBaseURL,
				IconSize: cfg.IconSize,
			}))
		case protocols.Source:
			st, err := store.NewOS(cfg.ProtocolsDir)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, protocols.NewProtocolsJob(client, st, reporter, protocols.Options{
				ListURL:  cfg.PoolsListURL,
				IconBase: cfg.IconsBaseURL,
				IconSize: cfg.IconSize,
			}))
		case tokens.Source:
			st, err := store.NewOS(cfg.TokensDir)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, tokens.NewTokensJob(client, st, reporter, tokens.Options{
				PageURL: cfg.TokensPageURL,
			}))
		default:
			return nil, fmt.Errorf("unknown source %q", source)
		}
	}

	return jobs, nil
}
