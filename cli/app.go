// Package cli contains the spiflash command line tool.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"go.viam.com/spiflash/controller/register"
)

// Flags.
const (
	flagConfig     = "config"
	flagBackend    = "backend"
	flagConnection = "connection"
	flagDebug      = "debug"
	flagQuiet      = "quiet"
	flagLogFile    = "log-file"

	flagWrite  = "write"
	flagRead   = "read"
	flagCmd    = "cmd"
	flagLength = "length"
	flagOutput = "output"
	flagInput  = "input"
)

// NewApp returns the spiflash application writing results to out and errors to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "spiflash",
		Usage:           "talk to the spi flash behind an mstar i2c port",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    flagBackend,
				Aliases: []string{"b"},
				Usage:   fmt.Sprintf("controller backend, one of %s", strings.Join(register.Backends(), ", ")),
			},
			&cli.StringFlag{
				Name:  flagConnection,
				Usage: "device node of bus backends, e.g. /dev/i2c-1",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "also append json logs to `FILE`, rotated at 10MB",
			},
			&cli.BoolFlag{
				Name:    flagQuiet,
				Aliases: []string{"q"},
				Usage:   "do not show progress",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list attached usb adapters",
				Action: ListAction,
			},
			{
				Name:   "probe",
				Usage:  "open the controller and report its transfer size",
				Action: ProbeAction,
			},
			{
				Name:  "xfer",
				Usage: "write bytes and read a reply in one chip select",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagWrite,
						Usage: "hex encoded bytes to write",
					},
					&cli.IntFlag{
						Name:  flagRead,
						Usage: "number of bytes to read after the write",
					},
				},
				Action: XferAction,
			},
			{
				Name:      "dump",
				Usage:     "send a command and save the bytes read after it",
				UsageText: "spiflash dump --cmd 03000000 --length 65536 --output flash.bin",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagCmd,
						Required: true,
						Usage:    "hex encoded command bytes",
					},
					&cli.IntFlag{
						Name:     flagLength,
						Required: true,
						Usage:    "number of bytes to read",
					},
					&cli.PathFlag{
						Name:     flagOutput,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "output `FILE`",
					},
				},
				Action: DumpAction,
			},
			{
				Name:      "program",
				Usage:     "send a command followed by the contents of a file",
				UsageText: "spiflash program --cmd 02000000 --input page.bin",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagCmd,
						Required: true,
						Usage:    "hex encoded command bytes",
					},
					&cli.PathFlag{
						Name:     flagInput,
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "input `FILE`",
					},
				},
				Action: ProgramAction,
			},
		},
	}
}
