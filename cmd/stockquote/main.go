// Command stockquote is a small demonstration CLI over the registry and
// blackscholes packages.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chartwell-labs/stockcore/blackscholes"
	"github.com/chartwell-labs/stockcore/registry"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/urfave/cli/v2"
)

func newLogger() *logiface.Logger[logiface.Event] {
	return stumpy.L.New(stumpy.WithStumpy()).Logger()
}

func newApp() *cli.App {
	r := registry.New(registry.WithLogger(newLogger()))

	return &cli.App{
		Name:  "stockquote",
		Usage: "fetch stock quotes and price options",
		Before: func(c *cli.Context) error {
			if err := r.Init(); err != nil && err != registry.ErrAlreadyInitialized {
				return err
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "synchronously fetch a ticker's quote",
				ArgsUsage: "TICKER",
				Action: func(c *cli.Context) error {
					ticker := c.Args().First()
					if ticker == "" {
						return cli.Exit("TICKER argument is required", 1)
					}
					out, err := r.FetchSync(c.Context, ticker)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %s (%s)\n", ticker, out["response"], out["companyname"])
					return nil
				},
			},
			{
				Name:      "fetch-async",
				Usage:     "asynchronously fetch a ticker's quote, then wait for it",
				ArgsUsage: "TICKER",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
				},
				Action: func(c *cli.Context) error {
					ticker := c.Args().First()
					if ticker == "" {
						return cli.Exit("TICKER argument is required", 1)
					}

					ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
					defer cancel()

					h, err := r.FetchAsync(ctx, ticker)
					if err != nil {
						return err
					}

					for {
						complete, err := r.IsComplete(h)
						if err != nil {
							return err
						}
						if complete {
							break
						}
						select {
						case <-ctx.Done():
							return ctx.Err()
						case <-time.After(50 * time.Millisecond):
						}
					}

					out, err := r.AsyncResult(h)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %s (%s)\n", ticker, out["response"], out["companyname"])
					return r.AsyncDispose(h)
				},
			},
			{
				Name:  "price",
				Usage: "price a European option with Black-Scholes",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Value: "call", Usage: "call or put"},
					&cli.Float64Flag{Name: "asset", Required: true},
					&cli.Float64Flag{Name: "strike", Required: true},
					&cli.Float64Flag{Name: "expiry", Required: true, Usage: "years to expiry"},
					&cli.Float64Flag{Name: "rate", Required: true, Usage: "risk-free interest rate"},
					&cli.Float64Flag{Name: "volatility", Required: true},
				},
				Action: func(c *cli.Context) error {
					asset := c.Float64("asset")
					strike := c.Float64("strike")
					expiry := c.Float64("expiry")
					rate := c.Float64("rate")
					vol := c.Float64("volatility")

					var price float64
					switch c.String("type") {
					case "call":
						price = blackscholes.CallPrice(asset, strike, expiry, rate, vol)
					case "put":
						price = blackscholes.PutPrice(asset, strike, expiry, rate, vol)
					default:
						return cli.Exit("type must be call or put", 1)
					}
					fmt.Printf("%.4f\n", price)
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
