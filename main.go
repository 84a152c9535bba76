// Chessboard - an interactive chessboard built with Ebitengine
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/config"
	"github.com/hailam/chessboard/internal/feed"
	"github.com/hailam/chessboard/internal/logx"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/ui"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "chessboard",
		Usage: "interactive chessboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "fen",
				Usage: "initial placement (FEN)",
			},
			&cli.StringFlag{
				Name:  "orientation",
				Usage: "white or black at the bottom",
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Usage:   "logger level",
			},
			&cli.StringFlag{
				Name:  "feed",
				Usage: "websocket URL pushing placements",
			},
			&cli.BoolFlag{
				Name:  "resume",
				Usage: "continue the last stored session",
			},
		},
		Action: runView,
		Commands: []*cli.Command{
			{
				Name:   "view",
				Usage:  "open the board window (default)",
				Action: runView,
			},
			{
				Name:      "diff",
				Usage:     "print the transition between two placements",
				ArgsUsage: "FROM TO",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "matcher",
						Value: "greedy",
						Usage: "greedy or mincost",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.NArg() != 2 {
						return fmt.Errorf("diff needs FROM and TO placements")
					}
					cfg := config.Default()
					cfg.Board.Matcher = c.String("matcher")
					m, err := cfg.BoardMatcher()
					if err != nil {
						return err
					}
					return printDiff(os.Stdout, c.Args().Get(0), c.Args().Get(1), m)
				},
			},
		},
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if fen := c.String("fen"); fen != "" {
		cfg.Board.Placement = fen
	}
	if o := c.String("orientation"); o != "" {
		cfg.Board.Orientation = o
	}
	if l := c.String("level"); l != "" {
		cfg.Log.Level = l
	}
	if u := c.String("feed"); u != "" {
		cfg.Feed.URL = u
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runView(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, closeLog, err := logx.New(logx.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stderr: true,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync()

	opts := ui.Options{Config: cfg, Logger: logger, Resume: c.Bool("resume")}

	if !cfg.Storage.Disabled {
		store, err := storage.OpenDir(cfg.Storage.Dir)
		if err != nil {
			logger.Warn("storage unavailable, sessions are not saved", zap.Error(err))
		} else {
			opts.Store = store
		}
	}

	if cfg.Feed.URL != "" {
		client, err := feed.Dial(ctx, cfg.Feed.URL, logger.Named("feed"))
		if err != nil {
			logger.Warn("feed unavailable", zap.String("url", cfg.Feed.URL), zap.Error(err))
		} else {
			opts.Feed = client
		}
	}

	game, err := ui.NewGame(opts)
	if err != nil {
		if opts.Store != nil {
			opts.Store.Close()
		}
		return err
	}
	return ui.Run(game, "Chessboard")
}

func printDiff(w io.Writer, from, to string, m board.Matcher) error {
	pos, err := board.FromFEN(from)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	tr, err := pos.CalculateTransitionWith(to, m)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}
	for _, line := range tr.Lines() {
		fmt.Fprintln(w, line)
	}
	return nil
}
