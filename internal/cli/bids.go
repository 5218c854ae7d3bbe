package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/listview"
	"github.com/haulops/haulctl/internal/ui/form"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/ui/table"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
)

func addBidCommands(a *app, bids *cobra.Command) {
	bids.AddCommand(
		newPlaceBidCmd(a),
		newAcceptedBidsCmd(a),
		newAssignDriverCmd(a),
		newThreadCmd(a),
	)
}

func newPlaceBidCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <id>",
		Short: "Place an offer on a load",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", "haulctl bids place <id> --amount 1800")
			if err != nil {
				return err
			}
			amount, _ := cmd.Flags().GetFloat64("amount")
			note, _ := cmd.Flags().GetString("note")
			if amount <= 0 {
				return util.NewError("Missing offer amount").
					WithSuggestion(fmt.Sprintf("haulctl bids place %s --amount 1800", id))
			}

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			if err := c.PlaceBid(cmd.Context(), id, amount, note); err != nil {
				return apiError(err, c.BaseURL())
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Placed %s on %s", styles.Amount(formatAmount(amount)), styles.ID(id))))
			return nil
		},
	}
	cmd.Flags().Float64("amount", 0, "Offer amount")
	cmd.Flags().String("note", "", "Note sent with the offer")
	return cmd
}

func newAcceptedBidsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accepted",
		Short: "List accepted bids waiting for a driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			recs, err := c.AcceptedBids(cmd.Context())
			if err != nil {
				return apiError(err, c.BaseURL())
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return table.PrintJSON(out, recs)
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, styles.MutedMsg("No accepted bids."))
				return nil
			}
			table.PrintPlain(out, api.Bids.ColumnTitles(), table.Cells(api.Bids, recs))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func newAssignDriverCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign a driver to an accepted bid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", "haulctl bids assign <id> --driver <driver-id>")
			if err != nil {
				return err
			}
			driver, _ := cmd.Flags().GetString("driver")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if driver == "" {
				driver, err = a.prompt.Input(ctx, form.InputConfig{Message: "Driver ID *"})
				if errors.Is(err, form.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), styles.MutedMsg("Aborted."))
					return nil
				}
				if err != nil {
					return err
				}
			}
			if err := c.AssignDriver(ctx, id, driver); err != nil {
				return apiError(err, c.BaseURL())
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg(fmt.Sprintf("Assigned driver %s to %s", styles.ID(driver), styles.ID(id))))
			return nil
		},
	}
	cmd.Flags().String("driver", "", "Driver ID (prompted when omitted)")
	return cmd
}

func newThreadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread <id>",
		Short: "Show or reply to a bid's negotiation thread",
		Long: `Show the negotiation thread of a bid.

--post appends a message first, optionally with --counter as a
counter-offer. --follow keeps refreshing the thread every
poll.interval_seconds until interrupted; a refresh that is still running
when the next one is due is skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", "haulctl bids thread <id>")
			if err != nil {
				return err
			}
			post, _ := cmd.Flags().GetString("post")
			counter, _ := cmd.Flags().GetFloat64("counter")
			follow, _ := cmd.Flags().GetBool("follow")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if post != "" || counter > 0 {
				if err := c.PostMessage(ctx, id, post, counter); err != nil {
					return apiError(err, c.BaseURL())
				}
			}

			tp := &threadPrinter{w: out}
			msgs, err := c.Thread(ctx, id)
			if err != nil {
				return apiError(err, c.BaseURL())
			}
			fmt.Fprintln(out, styles.SectionHeader("Negotiation "+styles.ID(id)))
			if len(msgs) == 0 {
				fmt.Fprintln(out, styles.MutedMsg("No messages yet."))
			}
			tp.print(msgs)
			if !follow {
				return nil
			}

			interval := time.Duration(a.cfg.Poll.IntervalSeconds) * time.Second
			p := listview.NewPoller(interval, func(ctx context.Context) error {
				msgs, err := c.Thread(ctx, id)
				if err != nil {
					return err
				}
				tp.print(msgs)
				return nil
			}, func(err error) {
				if ctx.Err() == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), styles.Banner(api.DisplayMessage(err)))
				}
			})
			fmt.Fprintln(cmd.ErrOrStderr(), styles.MutedMsg(fmt.Sprintf("Following every %s, Ctrl+C to stop", interval)))
			if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("post", "", "Message to append before showing the thread")
	cmd.Flags().Float64("counter", 0, "Counter-offer sent with --post")
	cmd.Flags().BoolP("follow", "f", false, "Keep refreshing the thread")
	return cmd
}

// threadPrinter prints only the messages it has not printed yet. Threads
// only grow, so the count printed so far is enough.
type threadPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	printed int
}

func (tp *threadPrinter) print(msgs []api.Record) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if len(msgs) < tp.printed {
		tp.printed = 0
	}
	for _, m := range msgs[tp.printed:] {
		fmt.Fprintln(tp.w, formatMessage(m))
	}
	tp.printed = len(msgs)
}

func formatMessage(m api.Record) string {
	sender := m.Text("sender.name")
	if sender == "" {
		sender = m.Text("sender")
	}
	if sender == "" {
		sender = "unknown"
	}

	line := fmt.Sprintf("%s: %s", styles.Label(util.ToValidUTF8(sender)), util.ToValidUTF8(m.Text("message")))
	if counter := m.Text("counterOffer"); counter != "" {
		line += "  " + styles.Amount("counter "+counter)
	}
	if ts, err := time.Parse(time.RFC3339, m.Text("createdAt")); err == nil {
		line = styles.Mutef("%-8s", util.RelativeTimeShort(ts)) + " " + line
	}
	return "  " + line
}

func formatAmount(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}
