//go:build !tinygo && !baremetal

// Command blecte inspects BLE advertising channel framing and runs the radio
// driver against the simulated RADIO.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli"
)

const defaultAddress = "C6:05:04:03:02:01"

var advFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "address, a",
		Value: defaultAddress,
		Usage: "Random static advertiser address, most significant byte first",
	},
	cli.StringFlag{
		Name:  "name, n",
		Usage: "Complete Local Name to put in the AdvData",
	},
	cli.StringFlag{
		Name:  "payload, p",
		Usage: "Raw AdvData in hex, appended after the name",
	},
	cli.IntFlag{
		Name:  "cte",
		Usage: "CTE length in 8 µs units, 0 or 2-20",
	},
}

func channelOption(value int) cli.IntFlag {
	return cli.IntFlag{
		Name:  "channel, c",
		Value: value,
		Usage: "Channel index 0-39",
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "blecte"
	app.Usage = "BLE advertising with Constant Tone Extension, on the desk"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "CRITICAL, ERROR, WARNING, NOTICE, INFO or DEBUG",
			EnvVar: "BLECTE_LOG_LEVEL",
		},
		cli.IntFlag{
			Name:   "tx-power",
			Usage:  "TX power in dBm for simulated radios",
			EnvVar: "BLECTE_TX_POWER",
		},
	}
	app.Before = func(c *cli.Context) error {
		SetupLogging("blecte", c.GlobalString("log-level"), logging.WARNING)
		return nil
	}
	app.Commands = []cli.Command{
		cli.Command{
			Name:   "channels",
			Usage:  "Print the channel index to frequency and whitening seed table",
			Action: channelsCommand,
		},
		cli.Command{
			Name:  "encode",
			Usage: "Encode an ADV_NONCONN_IND PDU",
			Flags: append([]cli.Flag{
				channelOption(37),
				cli.BoolFlag{
					Name:  "air",
					Usage: "Also print the whitened air packet for the channel",
				},
			}, advFlags...),
			Action: encodeCommand,
		},
		cli.Command{
			Name:      "decode",
			Usage:     "Decode an air packet (or a PDU with --pdu)",
			ArgsUsage: "<hex>",
			Flags: []cli.Flag{
				channelOption(37),
				cli.BoolFlag{
					Name:  "pdu",
					Usage: "Input is a PDU, not an air packet",
				},
				cli.StringFlag{
					Name:  "address, a",
					Usage: "Expected advertiser address; defaults to the one in the PDU",
				},
			},
			Action: decodeCommand,
		},
		cli.Command{
			Name:  "simulate",
			Usage: "Advertise and receive between two simulated radios",
			Flags: append([]cli.Flag{
				channelOption(37),
				cli.IntFlag{
					Name:  "count",
					Value: 1,
					Usage: "Advertising events to run",
				},
				cli.IntFlag{
					Name:  "samples",
					Usage: "IQ capture capacity; 0 sizes it from the CTE length",
				},
				cli.IntFlag{
					Name:  "show",
					Value: 8,
					Usage: "IQ samples to print per reception",
				},
				cli.IntFlag{
					Name:  "attempts",
					Usage: "Receive attempts before giving up, 0 for unlimited",
				},
				cli.DurationFlag{
					Name:  "timeout",
					Value: time.Second,
					Usage: "Deadline for the whole simulation",
				},
			}, advFlags...),
			Action: simulateCommand,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, Red(err.Error()))
		os.Exit(1)
	}
}
