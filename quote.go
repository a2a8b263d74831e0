package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/Madhav-Gupta-28/storefront-go/pricing"
	"github.com/spf13/cobra"
)

type quoteOptions struct {
	rulesFile      string
	premium        bool
	premiumUntil   string
	payment        string
	couponDiscount float64
	asJSON         bool
}

func newQuoteCmd() *cobra.Command {
	var opts quoteOptions
	cmd := &cobra.Command{
		Use:   "quote [cart.json]",
		Short: "Price a saved cart snapshot",
		Long:  "Reads a cart snapshot (a JSON array of cart lines) from a file or stdin and prints its price breakdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runQuote(in, cmd.OutOrStdout(), opts, time.Now())
		},
	}
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "YAML pricing rules file")
	cmd.Flags().BoolVar(&opts.premium, "premium", false, "price for a premium member")
	cmd.Flags().StringVar(&opts.premiumUntil, "premium-until", "", "premium expiry (RFC 3339)")
	cmd.Flags().StringVar(&opts.payment, "payment", string(models.PaymentRazorpay), "payment method: cod or razorpay")
	cmd.Flags().Float64Var(&opts.couponDiscount, "coupon-discount", 0, "coupon discount in rupees")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}

func runQuote(in io.Reader, out io.Writer, opts quoteOptions, now time.Time) error {
	rules := pricing.DefaultRules()
	if opts.rulesFile != "" {
		var err error
		if rules, err = pricing.LoadRules(opts.rulesFile); err != nil {
			return err
		}
	}

	method := models.PaymentMethod(opts.payment)
	if !method.Valid() {
		return fmt.Errorf("unsupported payment method %q", opts.payment)
	}

	var items []models.CartLineItem
	if err := json.NewDecoder(in).Decode(&items); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}

	var user *models.User
	if opts.premium {
		user = &models.User{IsPremium: true}
		if opts.premiumUntil != "" {
			until, err := time.Parse(time.RFC3339, opts.premiumUntil)
			if err != nil {
				return fmt.Errorf("premium-until: %w", err)
			}
			user.PremiumExpiry = &until
		}
	}

	b := rules.Quote(pricing.Input{
		Items:          items,
		User:           user,
		PaymentMethod:  method,
		CouponDiscount: models.FromRupees(opts.couponDiscount),
		Now:            now,
	})

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Subtotal\t%s\t\n", b.Subtotal)
	fmt.Fprintf(w, "Premium discount\t-%s\t\n", b.PremiumDiscount)
	fmt.Fprintf(w, "Coupon discount\t-%s\t\n", b.CouponDiscount)
	fmt.Fprintf(w, "Shipping\t%s\t\n", b.Shipping)
	fmt.Fprintf(w, "COD surcharge\t%s\t\n", b.CODSurcharge)
	fmt.Fprintf(w, "Total\t%s\t\n", b.Total)
	if b.SkippedItems > 0 {
		fmt.Fprintf(w, "Skipped lines\t%d\t\n", b.SkippedItems)
	}
	return w.Flush()
}
