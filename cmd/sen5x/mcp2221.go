package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/sen5x/adapter"
	"github.com/mklimuk/sen5x/cmd/sen5x/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 adapter maintenance",
	Subcommands: cli.Commands{
		{
			Name:  "status",
			Usage: "print the adapter I2C engine status",
			Action: func(c *cli.Context) error {
				return dumpStatus(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
					return a.Status(ctx)
				})
			},
		},
		{
			Name:  "release",
			Usage: "cancel the current transfer and release the bus",
			Action: func(c *cli.Context) error {
				return dumpStatus(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
					return a.ReleaseBus(ctx)
				})
			},
		},
	},
}

func dumpStatus(c *cli.Context, get func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error)) error {
	status, err := get(commandContext(c), adapter.NewMCP2221())
	if err != nil {
		return console.Exit(1, "adapter communication error: %s", console.Red(err))
	}
	enc := yaml.NewEncoder(console.Writer())
	defer func() {
		_ = enc.Close()
	}()
	if err := enc.Encode(status); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
