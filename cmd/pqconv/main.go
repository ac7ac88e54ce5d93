package main

import (
	"os"

	"github.com/m-mizutani/redload/internal"
	"github.com/m-mizutani/redload/pkg/converter"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

var logger = internal.Logger

func main() {
	var logLevel string

	app := &cli.App{
		Name:      "pqconv",
		Usage:     "Convert a local JSON file to parquet with warehouse-compatible column types",
		ArgsUsage: "<input.json> <output.parquet>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				EnvVars:     []string{"LOG_LEVEL"},
				Destination: &logLevel,
			},
		},
		Action: func(c *cli.Context) error {
			if logLevel != "" {
				internal.SetLogLevel(logLevel)
			}

			if c.NArg() != 2 {
				return errors.New("Usage: pqconv <input.json> <output.parquet>")
			}

			return converter.ConvertFile(c.Args().Get(0), c.Args().Get(1), converter.DefaultRules)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}
