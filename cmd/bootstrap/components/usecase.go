package components

import (
	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/quote"
	"booking-engine/internal/domain/risk"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPricingPolicy,
	quote.NewCalculator,
	NewScorer,
	func(s *risk.Scorer) risk.Challenge {
		return s.Challenge()
	},
	commands.NewLifecycle,
	func(cfg config.Config) commands.GuardOptions {
		return commands.GuardOptions{
			RateLimit:  cfg.Risk.RateLimit,
			RateWindow: cfg.Risk.RateWindow,
			BlockTTL:   cfg.Risk.BlockTTL,
		}
	},
	func(cfg config.Config) commands.PaymentOptions {
		return commands.PaymentOptions{Timeout: cfg.Gateway.Timeout}
	},
	func(cfg config.Config) commands.MaintenanceOptions {
		return commands.MaintenanceOptions{
			BalanceDueDays: cfg.Pricing.BalanceDueDays,
			DepositHoldTTL: cfg.Scheduler.DepositHoldTTL,
			BatchSize:      cfg.Scheduler.BatchSize,
		}
	},
	func(cfg config.Config) queries.AvailabilityOptions {
		return queries.AvailabilityOptions{
			DefaultMonths: cfg.Pricing.MaxAdvanceMonths,
			MaxDays:       cfg.Pricing.MaxAvailabilityDays,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewQuoteCommands,
		commands.NewPaymentCommands,
		commands.NewAvailabilityCommands,
		commands.NewMaintenanceCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewQuoteQueries,
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewOperatorAuthenticator,
	),
)

func NewPricingPolicy(cfg config.Config) (quote.Policy, error) {
	weekend, err := cfg.Pricing.Weekend()
	if err != nil {
		return quote.Policy{}, err
	}
	fee, err := quote.NewFee(cfg.Pricing.FeeKind, cfg.Pricing.FeeAmount, cfg.Pricing.FeeBasisPoints)
	if err != nil {
		return quote.Policy{}, err
	}
	policy := quote.Policy{
		WeekendDays:        weekend,
		Fee:                fee,
		DepositBasisPoints: cfg.Pricing.DepositBasisPoints,
		Currency:           cfg.Pricing.Currency,
		SecurityDeposit:    money.New(cfg.Pricing.SecurityDeposit),
		MinLeadDays:        cfg.Pricing.MinLeadDays,
		MaxAdvanceMonths:   cfg.Pricing.MaxAdvanceMonths,
		BalanceDueDays:     cfg.Pricing.BalanceDueDays,
	}
	return policy, policy.Validate()
}

func NewScorer(cfg config.Config) *risk.Scorer {
	return risk.NewScorer(risk.Config{
		MinElapsed:         cfg.Risk.MinElapsed,
		MaxElapsed:         cfg.Risk.MaxElapsed,
		ChallengeWindow:    cfg.Risk.ChallengeWindow,
		ChallengeSecret:    cfg.Risk.ChallengeSecret,
		MinClicks:          cfg.Risk.MinClicks,
		MinKeystrokes:      cfg.Risk.MinKeystrokes,
		MinUserAgentLength: cfg.Risk.MinUserAgentLength,
		BlockedIPs:         cfg.Risk.BlockedIPs,
		BlockedEmails:      cfg.Risk.BlockedEmails,
		DisposableDomains:  cfg.Risk.DisposableDomains,
	})
}
