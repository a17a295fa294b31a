package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nrao/yoink/internal/orchestrator"
	"github.com/nrao/yoink/log"
	"github.com/nrao/yoink/settings"
	"github.com/nrao/yoink/yokerr"
)

const appName = "yoink"

func returnCodesHelp() string {
	return "Return codes:\n   " + strings.Join(yokerr.Descriptions(), "\n   ")
}

var app = &cli.App{
	Name:        appName,
	Usage:       "retrieve archive products from NGAS storage servers in bulk",
	Description: returnCodesHelp(),
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "product-locator",
			Usage: "archive product locator to resolve via the location service; mutually exclusive with --location-file",
		},
		&cli.StringFlag{
			Name:  "location-file",
			Usage: "path to a pre-fetched locations report, bypassing the location service; mutually exclusive with --product-locator",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "destination directory files are written under (default: current directory)",
		},
		&cli.StringFlag{
			Name:  "locator-service-url",
			Usage: "base URL of the archive location service",
			EnvVars: []string{
				"YOINK_LOCATOR_SERVICE_URL",
			},
		},
		&cli.StringFlag{
			Name:  "execution-site",
			Usage: "execution site name, used to decide whether a file is eligible for server-side direct copy",
			EnvVars: []string{
				"YOINK_EXECUTION_SITE",
			},
		},
		&cli.IntFlag{
			Name:  "threads-per-host",
			Usage: "number of concurrent fetch workers per storage server",
			Value: 4,
			EnvVars: []string{
				"YOINK_THREADS_PER_HOST",
			},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "resolve and plan the retrieval without downloading or writing any files",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite destination files that already exist",
		},
		&cli.BoolFlag{
			Name:  "sdm-only",
			Usage: "keep only .xml and .bin files from the resolved locations report",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable debug-level logging",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "enable JSON formatted output",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "CAPO configuration profile; defaults to the CAPO_PROFILE environment variable",
		},
	},
	Before: func(c *cli.Context) error {
		log.Init(c.Bool("verbose"), c.Bool("json"))
		return nil
	},
	Action: func(c *cli.Context) error {
		profile := c.String("profile")
		if profile == "" {
			profile = settings.DefaultProfile()
		}
		if profile == "" {
			err := yokerr.NewNoProfile("no --profile given and CAPO_PROFILE is not set")
			printError("retrieve", err)
			return cli.Exit("", err.ExitCode())
		}

		req, err := settings.NewRequest(
			c.String("product-locator"),
			c.String("location-file"),
			c.String("output-dir"),
			c.Bool("dry-run"),
			c.Bool("force"),
			c.Bool("sdm-only"),
			c.Bool("verbose"),
			profile,
		)
		if err != nil {
			printError("retrieve", err)
			return cli.Exit("", exitCode(err))
		}

		cfg, err := settings.NewSettings(
			c.String("locator-service-url"),
			c.String("execution-site"),
			c.Int("threads-per-host"),
		)
		if err != nil {
			printError("retrieve", err)
			return cli.Exit("", exitCode(err))
		}

		result, err := orchestrator.Run(c.Context, req, cfg, nil)
		if err != nil {
			printError("retrieve", err)
			return cli.Exit("", exitCode(err))
		}

		log.Success(log.InfoMessage{
			Operation:   "retrieve",
			Destination: fmt.Sprintf("%d files", len(result.Paths)),
		})
		return nil
	},
	After: func(c *cli.Context) error {
		log.Close()
		return nil
	},
}

// Main is the entrypoint function to run the application.
func Main(ctx context.Context, args []string) error {
	return app.RunContext(ctx, args)
}
