// Command facetctl runs the facetdex engine in-process against a payload
// and prints results, available tags or an interactive session.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/facetdex/internal/logger"
	"github.com/kailas-cloud/facetdex/internal/version"
)

const loggerKey = "logger"

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:    "facetctl",
		Usage:   "Search and facet a document catalog from the command line",
		Version: version.Version,
		Reader:  in,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "taxonomy",
				Usage: "Path to a taxonomy YAML file replacing the built-in one",
			},
		},
		Before: setupLogger,
		After: func(c *cli.Context) error {
			_ = loggerFrom(c).Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "taxonomy",
				Usage:  "Print categories and their tags",
				Action: taxonomyCommand,
			},
			{
				Name:   "search",
				Usage:  "Run one search and print the results",
				Action: searchCommand,
				Flags: append(payloadFlags(), append(queryFlags(),
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort by relevance, alphabetical or type",
						Value: "relevance",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Sort direction (asc, desc)",
						Value: "desc",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the view as JSON",
					},
				)...),
			},
			{
				Name:   "facets",
				Usage:  "Print the tags still available for narrowing",
				Action: facetsCommand,
				Flags:  append(payloadFlags(), queryFlags()...),
			},
			{
				Name:   "repl",
				Usage:  "Drive an interactive search session",
				Action: replCommand,
				Flags:  payloadFlags(),
			},
			{
				Name:   "publish",
				Usage:  "Validate a payload file and store it under a Valkey key",
				Action: publishCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "payload",
						Aliases:  []string{"p"},
						Usage:    "Path to the payload JSON file",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "valkey-addr",
						Usage:    "Valkey address (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "valkey-password",
						Usage:   "Valkey password",
						EnvVars: []string{"VALKEY_PASSWORD"},
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Key the payload is stored under",
						Value: "facetdex:payload",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Connection readiness timeout",
						Value: defaultTimeout,
					},
				},
			},
		},
	}
}

func payloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "payload",
			Aliases: []string{"p"},
			Usage:   "Path to the payload JSON file",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Fetch the payload from this URL instead of a file",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Payload load timeout",
			Value: defaultTimeout,
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Free-text query",
		},
		&cli.StringSliceFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "Tag filter as category:tag[:include|exclude] (repeatable)",
		},
	}
}

func setupLogger(c *cli.Context) error {
	logger, err := logpkg.NewLogger("cli", c.String("log-level"))
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
