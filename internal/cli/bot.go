package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"quanturnic/internal/engine"
	"quanturnic/internal/rpc"
	"quanturnic/internal/strategy"
)

var errTooFewPrices = fmt.Errorf("please enter at least %d price points", strategy.MinHistory)

type botFlags struct {
	addr    string
	timeout time.Duration
}

// call dials the server, runs fn under the command deadline and closes
// the connection.
func (f *botFlags) call(cmd *cobra.Command, fn func(ctx context.Context, c *rpc.Client) error) error {
	client, err := rpc.Dial(f.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.addr, err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()
	return fn(ctx, client)
}

func newBotCmd() *cobra.Command {
	f := &botFlags{}

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Control a running bot over gRPC",
	}
	cmd.PersistentFlags().StringVar(&f.addr, "addr", "localhost:9090", "bot gRPC address")
	cmd.PersistentFlags().DurationVar(&f.timeout, "timeout", 5*time.Second, "per-command deadline")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the bot is running and its balance",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					active, err := c.IsBotActive(ctx)
					if err != nil {
						return err
					}
					bal, err := c.GetBalance(ctx)
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Bot Status: %s\n", statusLabel(active))
					fmt.Fprintf(out, "Simulated Balance: $%s\n", formatBalance(bal))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "start",
			Short: "Start the bot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					if err := c.StartBot(ctx); err != nil {
						return err
					}
					return printStatus(ctx, cmd.OutOrStdout(), c)
				})
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the bot",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					if err := c.StopBot(ctx); err != nil {
						return err
					}
					return printStatus(ctx, cmd.OutOrStdout(), c)
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Stop the bot if it is running, start it otherwise",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					if err := toggle(ctx, c); err != nil {
						return err
					}
					return printStatus(ctx, cmd.OutOrStdout(), c)
				})
			},
		},
		newBotConfigCmd(f),
		&cobra.Command{
			Use:   "analyze <p1,p2,p3,...>",
			Short: "Analyze a comma-separated price history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prices := parsePrices(args[0])
				if len(prices) < strategy.MinHistory {
					return errTooFewPrices
				}
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					decision, err := c.AnalyzeMarket(ctx, prices)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Decision: %s\n", decision)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "logs",
			Short: "List trade logs, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					logs, err := c.GetTradeLogs(ctx)
					if err != nil {
						return err
					}
					renderTradeLogs(cmd.OutOrStdout(), logs)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "balance",
			Short: "Show the simulated balance",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					bal, err := c.GetBalance(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "$%s\n", formatBalance(bal))
					return nil
				})
			},
		},
	)
	return cmd
}

func newBotConfigCmd(f *botFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or replace the bot configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show strategy and threshold",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					cfg, err := c.GetBotConfig(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "strategy=%s threshold=%v\n", cfg.Strategy, cfg.Threshold)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <strategy> <threshold>",
			Short: "Replace the configuration (strategies: basic, macd; others always HOLD)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				threshold, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
				if err != nil {
					return fmt.Errorf("threshold %q is not a number", args[1])
				}
				return f.call(cmd, func(ctx context.Context, c *rpc.Client) error {
					if err := c.UpdateConfig(ctx, args[0], threshold); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated!")
					return nil
				})
			},
		},
	)
	return cmd
}

// botControl is the slice of rpc.Client the toggle and status helpers need.
type botControl interface {
	StartBot(ctx context.Context) error
	StopBot(ctx context.Context) error
	IsBotActive(ctx context.Context) (bool, error)
}

func toggle(ctx context.Context, c botControl) error {
	active, err := c.IsBotActive(ctx)
	if err != nil {
		return err
	}
	if active {
		return c.StopBot(ctx)
	}
	return c.StartBot(ctx)
}

func printStatus(ctx context.Context, w io.Writer, c botControl) error {
	active, err := c.IsBotActive(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Bot Status: %s\n", statusLabel(active))
	return nil
}

func statusLabel(active bool) string {
	if active {
		return "Running"
	}
	return "Stopped"
}

// parsePrices splits a comma-separated list the way the web control panel
// does: blank items count as 0, items that are not numbers are dropped.
func parsePrices(input string) []float64 {
	var prices []float64
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			prices = append(prices, 0)
			continue
		}
		p, err := strconv.ParseFloat(item, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				prices = append(prices, p) // overflow still yields ±Inf
			}
			continue
		}
		if math.IsNaN(p) || (math.IsInf(p, 0) && !isInfinityLiteral(item)) {
			continue
		}
		prices = append(prices, p)
	}
	return prices
}

// isInfinityLiteral accepts only the spelled-out form; "inf" is not a number here.
func isInfinityLiteral(s string) bool {
	return strings.TrimLeft(s, "+-") == "Infinity"
}

func formatBalance(bal float64) string {
	return strconv.FormatFloat(bal, 'f', 2, 64)
}

// renderTradeLogs prints logs newest first.
func renderTradeLogs(w io.Writer, logs []engine.TradeLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No logs yet.")
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("Time", "Action", "Reason", "Price")
	for i := len(logs) - 1; i >= 0; i-- {
		e := logs[i]
		table.Append(
			formatNanos(e.Timestamp),
			string(e.Action),
			e.Reason,
			"$"+strconv.FormatFloat(e.Price, 'f', -1, 64),
		)
	}
	table.Render()
}
