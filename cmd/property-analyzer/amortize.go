package main

import (
	"fmt"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/datetime"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/output"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/spf13/cobra"
)

type amortizeCmd struct {
	flags        *globalFlags
	amount       string
	rate         string
	term         int
	interestOnly bool
	start        string
	months       int
}

func newAmortizeCmd(flags *globalFlags) *cobra.Command {
	ac := &amortizeCmd{flags: flags}
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the amortization schedule of a loan",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.amount, "amount", "", "loan amount, e.g. 160000 or $160,000")
	cmd.Flags().StringVar(&ac.rate, "rate", "", "annual interest rate in percent, e.g. 4.5")
	cmd.Flags().IntVar(&ac.term, "term", constants.DefaultMaxLoanTermMonths, "loan term in months")
	cmd.Flags().BoolVar(&ac.interestOnly, "interest-only", false, "pay interest only")
	cmd.Flags().StringVar(&ac.start, "start", "", "date of the first payment (YYYY-MM-DD, defaults to today)")
	cmd.Flags().IntVar(&ac.months, "months", 0, "number of periods to print (0 means the full term)")

	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func (ac *amortizeCmd) run(cmd *cobra.Command, _ []string) error {
	conf, logger, err := ac.flags.setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := ac.flags.format(conf)
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	amount, err := money.FromValue(ac.amount)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}
	rate, err := money.PercentageFromValue(ac.rate)
	if err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}
	loan := loans.LoanDetails{
		Amount:       amount,
		InterestRate: rate,
		TermMonths:   ac.term,
		InterestOnly: ac.interestOnly,
	}
	if err := loan.Validate("loan", conf.Settings().Limits); err != nil {
		return err
	}

	start := time.Now()
	if ac.start != "" {
		if start, err = datetime.ParseISO(ac.start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}

	schedule, err := loans.NewAmortizationScheduleGenerator(logger).GenerateSchedule(loan, start, ac.months)
	if err != nil {
		return err
	}

	return output.WriteSchedule(cmd.OutOrStdout(), outputFormat, schedule)
}
