package queries

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/metrics"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound = errs.Mark(errs.New("property not found"), errs.ErrNotFound)
	ErrWindowTooLong    = errs.Mark(errs.New("availability window too long"), errs.ErrValidation)
)

// CalendarFeed returns the blocked ranges published by an external calendar.
type CalendarFeed interface {
	Blocks(ctx context.Context, url string) ([]availability.DateRange, error)
}

type AvailabilityQueries interface {
	// UnavailableRanges merges manual entries, booked entries and the external feed
	// into an ordered, disjoint set clipped to window. Feed failures are skipped.
	UnavailableRanges(ctx context.Context, propertyID uuid.UUID, window availability.DateRange) ([]availability.DateRange, error)
	GetAvailability(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) (*AvailabilityView, error)
}

type AvailabilityOptions struct {
	DefaultMonths int
	MaxDays       int
}

type availabilityQueriesImpl struct {
	uow   shared.UnitOfWork
	feed  CalendarFeed
	clock clock.Clock
	opts  AvailabilityOptions
}

func NewAvailabilityQueries(uow shared.UnitOfWork, feed CalendarFeed, clk clock.Clock, opts AvailabilityOptions) AvailabilityQueries {
	if opts.DefaultMonths <= 0 {
		opts.DefaultMonths = 18
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 731
	}
	return &availabilityQueriesImpl{uow: uow, feed: feed, clock: clk, opts: opts}
}

func (q *availabilityQueriesImpl) UnavailableRanges(ctx context.Context, propertyID uuid.UUID, window availability.DateRange) ([]availability.DateRange, error) {
	ranges, _, err := q.collect(ctx, propertyID, window)
	return ranges, err
}

func (q *availabilityQueriesImpl) GetAvailability(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) (*AvailabilityView, error) {
	today := clock.Today(q.clock)
	start := today
	if from != nil {
		start = clock.DateOf(*from)
	}
	end := start.AddDate(0, q.opts.DefaultMonths, 0)
	if to != nil {
		end = clock.DateOf(*to)
	}

	window, err := availability.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if window.Nights() > q.opts.MaxDays {
		return nil, ErrWindowTooLong
	}

	ranges, feedSkipped, err := q.collect(ctx, propertyID, window)
	if err != nil {
		return nil, err
	}
	return &AvailabilityView{
		PropertyID:  propertyID,
		From:        window.Start().Format(availability.DateLayout),
		To:          window.End().Format(availability.DateLayout),
		Unavailable: RangeViews(ranges),
		FeedSkipped: feedSkipped,
	}, nil
}

func (q *availabilityQueriesImpl) collect(ctx context.Context, propertyID uuid.UUID, window availability.DateRange) ([]availability.DateRange, bool, error) {
	reads := q.uow.Reads()
	prop, err := reads.Properties().FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, false, ErrPropertyNotFound
		}
		return nil, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entries, err := reads.Availability().ListOverlapping(ctx, propertyID, window)
	if err != nil {
		return nil, false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	ranges := availability.Ranges(entries, q.clock.Now())

	feedSkipped := false
	if prop.HasCalendarFeed() && q.feed != nil {
		blocks, err := q.feed.Blocks(ctx, prop.CalendarFeedURL())
		if err != nil {
			feedSkipped = true
			metrics.FeedFailure()
			slog.WarnContext(ctx, "calendar feed skipped",
				"property_id", propertyID.String(),
				"error", err.Error())
		} else {
			ranges = append(ranges, blocks...)
		}
	}

	clipped := make([]availability.DateRange, 0, len(ranges))
	for _, r := range ranges {
		if c, ok := r.Clip(window); ok {
			clipped = append(clipped, c)
		}
	}
	return availability.Union(clipped), feedSkipped, nil
}

func RangeViews(ranges []availability.DateRange) []RangeView {
	out := make([]RangeView, len(ranges))
	for i, r := range ranges {
		out[i] = RangeView{
			From: r.Start().Format(availability.DateLayout),
			To:   r.End().Format(availability.DateLayout),
		}
	}
	return out
}
