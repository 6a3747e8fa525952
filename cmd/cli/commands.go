package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/tripcost/internal/adapter/http/dto"
	"github.com/iho/tripcost/internal/domain"
)

func tripPath(tripID, suffix string) string {
	return "/api/v1/trips/" + url.PathEscape(tripID) + suffix
}

func forecastCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Cost forecast operations",
	}

	var statuses []string
	collect := &cobra.Command{
		Use:   "collect <trip-id>",
		Short: "Collect planned costs into a new forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report domain.CostForecastReport
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodPost, tripPath(args[0], "/forecast"),
				dto.CollectCostsRequest{Statuses: statuses}, &report)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) { printForecast(w, &report) })
		},
	}
	collect.Flags().StringSliceVar(&statuses, "status", nil, "Statuses to include (default confirmed,shortlisted)")

	show := &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show the latest forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report domain.CostForecastReport
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodGet, tripPath(args[0], "/forecast"), nil, &report)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) { printForecast(w, &report) })
		},
	}

	cmd.AddCommand(collect, show)
	return cmd
}

func actualsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actuals",
		Short: "Expense actual operations",
	}

	transfer := &cobra.Command{
		Use:   "transfer <trip-id>",
		Short: "Create first-installment actuals from expense splits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransferResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodPost, tripPath(args[0], "/actuals/transfer"), nil, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) {
				fmt.Fprintf(w, "Transferred %d actual(s)\n", resp.TransferredCount)
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset <trip-id>",
		Short: "Delete every actual of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ResetResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodDelete, tripPath(args[0], "/actuals"), nil, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d actual(s)\n", resp.DeletedCount)
			})
		},
	}

	list := &cobra.Command{
		Use:   "list <trip-id>",
		Short: "List the actuals of a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListActualsResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodGet, tripPath(args[0], "/actuals"), nil, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) { printActuals(w, resp.Actuals) })
		},
	}

	cmd.AddCommand(transfer, reset, list, updateActualCmd(opts))
	return cmd
}

// nullableActualFields maps flag names to the JSON fields --clear may null out.
var nullableActualFields = map[string]string{
	"date":           "date",
	"paid-by":        "paid_by_traveler_id",
	"payment-method": "payment_method_key",
	"receipt-url":    "receipt_url",
	"notes":          "notes",
}

func updateActualCmd(opts *options) *cobra.Command {
	var (
		amount, date, paidBy, paymentMethod, receiptURL, notes string
		clearFields                                            []string
	)

	cmd := &cobra.Command{
		Use:   "update <actual-id>",
		Short: "Update an actual; only the given flags are changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := buildActualUpdate(cmd, amount, date, paidBy, paymentMethod, receiptURL, notes, clearFields)
			if err != nil {
				return err
			}

			var resp dto.ActualResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodPatch, "/api/v1/actuals/"+url.PathEscape(args[0]), body, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) {
				printActuals(w, []*dto.ActualResponse{&resp})
			})
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "New amount in the expense currency")
	cmd.Flags().StringVar(&date, "date", "", "Payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&paidBy, "paid-by", "", "Traveler ID of the payer")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "Payment method key")
	cmd.Flags().StringVar(&receiptURL, "receipt-url", "", "Receipt URL")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringSliceVar(&clearFields, "clear", nil, "Fields to clear: date, paid-by, payment-method, receipt-url, notes")

	return cmd
}

func buildActualUpdate(cmd *cobra.Command, amount, date, paidBy, paymentMethod, receiptURL, notes string, clearFields []string) (map[string]any, error) {
	body := make(map[string]any)
	flags := cmd.Flags()

	if flags.Changed("amount") {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid --amount %q: %w", amount, err)
		}
		body["amount"] = d
	}
	if flags.Changed("date") {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q: %w", date, err)
		}
		body["date"] = t
	}
	if flags.Changed("paid-by") {
		body["paid_by_traveler_id"] = paidBy
	}
	if flags.Changed("payment-method") {
		body["payment_method_key"] = paymentMethod
	}
	if flags.Changed("receipt-url") {
		body["receipt_url"] = receiptURL
	}
	if flags.Changed("notes") {
		body["notes"] = notes
	}

	for _, name := range clearFields {
		field, ok := nullableActualFields[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("cannot clear %q", name)
		}
		if _, set := body[field]; set {
			return nil, fmt.Errorf("--%s and --clear %s are mutually exclusive", name, name)
		}
		body[field] = nil
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("nothing to update")
	}
	return body, nil
}

func settlementCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "settlement <trip-id>",
		Short: "Show balances and the transactions that settle them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SettlementResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodGet, tripPath(args[0], "/settlement"), nil, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) { printSettlement(w, &resp) })
		},
	}
}

func ratesCmd(opts *options) *cobra.Command {
	var (
		base    string
		symbols []string
	)

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show exchange rates from a base currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("at least one --symbols value is required")
			}

			q := url.Values{}
			if base != "" {
				q.Set("base", base)
			}
			q.Set("symbols", strings.Join(symbols, ","))

			var resp dto.RatesResponse
			client := newAPIClient(opts.baseURL, opts.timeout)
			raw, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/rates?"+q.Encode(), nil, &resp)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, raw, func(w io.Writer) { printRates(w, &resp, symbols) })
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base currency (server default when empty)")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Target currencies, e.g. EUR,JPY")

	return cmd
}

func render(w io.Writer, opts *options, raw []byte, pretty func(io.Writer)) error {
	if opts.asJSON {
		printJSON(w, raw)
		return nil
	}
	pretty(w)
	return nil
}

func printForecast(w io.Writer, r *domain.CostForecastReport) {
	fmt.Fprintf(w, "Trip %s forecast in %s (collected %s)\n", r.TripID, r.BaseCurrency, r.CollectedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tITEMS\tTOTAL")
	for _, m := range r.Modules {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Module, len(m.Items), formatMoney(m.Total, r.BaseCurrency))
	}
	fmt.Fprintf(tw, "total\t\t%s\n", formatMoney(r.Total, r.BaseCurrency))
	_ = tw.Flush()

	if len(r.TravelerShares) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TRAVELER\tSHARE")
		for _, s := range r.TravelerShares {
			fmt.Fprintf(tw, "%s\t%s\n", s.Name, formatMoney(s.Amount, r.BaseCurrency))
		}
		_ = tw.Flush()
	}

	for _, s := range r.Skipped {
		fmt.Fprintf(w, "skipped %s/%s: %s\n", s.Module, s.ItemID, s.Reason)
	}
}

func printActuals(w io.Writer, actuals []*dto.ActualResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEXPENSE\tTRAVELER\tAMOUNT\tPAID BY\tNOTES")
	for _, a := range actuals {
		paidBy := "-"
		if a.PaidByTravelerID != nil {
			paidBy = *a.PaidByTravelerID
		}
		notes := ""
		if a.Notes != nil {
			notes = truncate(*a.Notes, 30)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.ExpenseID, a.TravelerID, formatMoney(a.Amount, a.Currency), paidBy, notes)
	}
	_ = tw.Flush()
}

func printSettlement(w io.Writer, s *dto.SettlementResponse) {
	fmt.Fprintf(w, "Trip %s settlement in %s\n", s.TripID, s.Currency)
	fmt.Fprintf(w, "Estimated: %s  Actual: %s\n\n", formatMoney(s.TotalEstimated, s.Currency), formatMoney(s.TotalActual, s.Currency))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRAVELER\tSHOULD PAY\tPAID\tBALANCE")
	for _, b := range s.Balances {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name,
			formatMoney(b.ShouldPay, s.Currency), formatMoney(b.ActuallyPaid, s.Currency), formatMoney(b.Balance, s.Currency))
	}
	_ = tw.Flush()

	if len(s.Transactions) == 0 {
		fmt.Fprintln(w, "\nEveryone is settled up.")
	} else {
		fmt.Fprintln(w)
		for _, t := range s.Transactions {
			fmt.Fprintf(w, "%s pays %s %s\n", t.FromName, t.ToName, formatMoney(t.Amount, s.Currency))
		}
	}

	for _, sk := range s.Skipped {
		fmt.Fprintf(w, "skipped actual %s (%s): %s\n", sk.ActualID, sk.Currency, sk.Reason)
	}
}

func printRates(w io.Writer, r *dto.RatesResponse, requested []string) {
	fmt.Fprintf(w, "1 %s as of %s\n", r.Base, r.FetchedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, code := range requested {
		code = domain.NormalizeCurrency(code)
		if rate, ok := r.Rates[code]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", code, rate.String())
		} else {
			fmt.Fprintf(tw, "%s\tunavailable\n", code)
		}
	}
	_ = tw.Flush()
}
