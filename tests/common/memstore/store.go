//go:build unit || e2e

// Package memstore is an in-memory shared.UnitOfWork for use case tests.
// Within runs transactions one at a time on a copy of the state and discards the copy on error.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/domain/property"
	"booking-engine/internal/infra"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type state struct {
	properties map[uuid.UUID]*property.Property
	entries    map[uuid.UUID]*availability.Entry
	bookings   map[uuid.UUID]*booking.Booking
	history    map[uuid.UUID][]booking.Transition
	payments   map[uuid.UUID]*payment.Record
	events     map[string]payment.GatewayEvent
}

func newState() *state {
	return &state{
		properties: map[uuid.UUID]*property.Property{},
		entries:    map[uuid.UUID]*availability.Entry{},
		bookings:   map[uuid.UUID]*booking.Booking{},
		history:    map[uuid.UUID][]booking.Transition{},
		payments:   map[uuid.UUID]*payment.Record{},
		events:     map[string]payment.GatewayEvent{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.properties {
		c.properties[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.history {
		c.history[k] = append([]booking.Transition(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state

	// Commits counts successful Within calls.
	Commits int
}

func New() *Store {
	return &Store{st: newState()}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &repos{store: s, st: work}); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.Commits++
	s.mu.Unlock()
	return nil
}

func (s *Store) Reads() shared.Repositories {
	return &repos{store: s, read: true}
}

// AddProperty seeds a property outside any transaction.
func (s *Store) AddProperty(p *property.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.properties[p.ID()] = p
}

func (s *Store) AddEntry(e *availability.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.entries[e.ID()] = e
}

func (s *Store) AddBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.DrainTransitions()
	s.st.bookings[b.ID()] = cloneBooking(b)
}

func (s *Store) AddPayment(r *payment.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.payments[r.ID()] = clonePayment(r)
}

func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.st.bookings[id]
	if !ok {
		return nil
	}
	return cloneBooking(b)
}

func (s *Store) Payment(id uuid.UUID) *payment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.st.payments[id]
	if !ok {
		return nil
	}
	return clonePayment(r)
}

func (s *Store) PaymentsFor(bookingID uuid.UUID) []*payment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paymentsFor(s.st, bookingID)
}

func (s *Store) Entries(propertyID uuid.UUID) []*availability.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*availability.Entry
	for _, e := range s.st.entries {
		if e.PropertyID() == propertyID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

func (s *Store) History(bookingID uuid.UUID) []booking.Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]booking.Transition(nil), s.st.history[bookingID]...)
}

func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.st.bookings)
}

func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.st.events)
}

// repos reads committed state when read is set, otherwise the transaction's working copy.
type repos struct {
	store *Store
	st    *state
	read  bool
}

func (r *repos) view(fn func(st *state) error) error {
	if !r.read {
		return fn(r.st)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.st)
}

func (r *repos) Properties() shared.PropertyRepository        { return propertyRepo{r} }
func (r *repos) Availability() shared.AvailabilityRepository  { return availabilityRepo{r} }
func (r *repos) Bookings() shared.BookingRepository           { return bookingRepo{r} }
func (r *repos) Payments() shared.PaymentRepository           { return paymentRepo{r} }
func (r *repos) GatewayEvents() shared.GatewayEventRepository { return eventRepo{r} }

func notFound(msg string) error {
	return infra.NewRepoErr(infra.KindNotFound, msg)
}

// Writes through Reads() are rejected so tests catch writes made outside Within.
func (r *repos) write(fn func(st *state) error) error {
	if r.read {
		return infra.NewRepoErr(infra.KindDBFailure, "write outside transaction")
	}
	return fn(r.st)
}

type propertyRepo struct{ *repos }

func (p propertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	var out *property.Property
	err := p.view(func(st *state) error {
		v, ok := st.properties[id]
		if !ok {
			return notFound("property not found")
		}
		out = v
		return nil
	})
	return out, err
}

func (p propertyRepo) LockByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	return p.FindByID(ctx, id)
}

type availabilityRepo struct{ *repos }

func (a availabilityRepo) ListOverlapping(_ context.Context, propertyID uuid.UUID, window availability.DateRange) ([]*availability.Entry, error) {
	var out []*availability.Entry
	err := a.view(func(st *state) error {
		for _, e := range st.entries {
			if e.PropertyID() == propertyID && e.Dates().Overlaps(window) {
				out = append(out, e)
			}
		}
		return nil
	})
	sortEntries(out)
	return out, err
}

func (a availabilityRepo) FindByID(_ context.Context, id uuid.UUID) (*availability.Entry, error) {
	var out *availability.Entry
	err := a.view(func(st *state) error {
		e, ok := st.entries[id]
		if !ok {
			return notFound("availability entry not found")
		}
		out = e
		return nil
	})
	return out, err
}

func (a availabilityRepo) FindByBooking(_ context.Context, bookingID uuid.UUID) (*availability.Entry, error) {
	var out *availability.Entry
	err := a.view(func(st *state) error {
		for _, e := range st.entries {
			if e.BookingID() != nil && *e.BookingID() == bookingID {
				out = e
				return nil
			}
		}
		return notFound("booked entry not found")
	})
	return out, err
}

// Create mirrors the exclusion constraint on booked entries.
func (a availabilityRepo) Create(_ context.Context, e *availability.Entry) error {
	return a.write(func(st *state) error {
		if e.Kind() == availability.KindBooked {
			for _, other := range st.entries {
				if other.Kind() == availability.KindBooked && other.PropertyID() == e.PropertyID() && other.Dates().Overlaps(e.Dates()) {
					return infra.NewRepoErr(infra.KindConflict, "booked range overlaps another booking")
				}
			}
		}
		st.entries[e.ID()] = e
		return nil
	})
}

func (a availabilityRepo) Delete(_ context.Context, id uuid.UUID) error {
	return a.write(func(st *state) error {
		if _, ok := st.entries[id]; !ok {
			return notFound("availability entry not found")
		}
		delete(st.entries, id)
		return nil
	})
}

func (a availabilityRepo) DeleteByBooking(_ context.Context, bookingID uuid.UUID) (int64, error) {
	var n int64
	err := a.write(func(st *state) error {
		for id, e := range st.entries {
			if e.BookingID() != nil && *e.BookingID() == bookingID {
				delete(st.entries, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (a availabilityRepo) DeleteExpiredHolds(_ context.Context, now time.Time) (int64, error) {
	var n int64
	err := a.write(func(st *state) error {
		for id, e := range st.entries {
			if e.Kind() == availability.KindHold && e.IsExpired(now) {
				delete(st.entries, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

type bookingRepo struct{ *repos }

func (b bookingRepo) Create(_ context.Context, bk *booking.Booking) error {
	return b.write(func(st *state) error {
		if _, ok := st.bookings[bk.ID()]; ok {
			return infra.NewRepoErr(infra.KindDuplicateKey, "booking already exists")
		}
		st.history[bk.ID()] = append(st.history[bk.ID()], bk.DrainTransitions()...)
		st.bookings[bk.ID()] = cloneBooking(bk)
		return nil
	})
}

func (b bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	var out *booking.Booking
	err := b.view(func(st *state) error {
		v, ok := st.bookings[id]
		if !ok {
			return notFound("booking not found")
		}
		out = cloneBooking(v)
		return nil
	})
	return out, err
}

func (b bookingRepo) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return b.FindByID(ctx, id)
}

func (b bookingRepo) Update(_ context.Context, bk *booking.Booking) error {
	return b.write(func(st *state) error {
		if _, ok := st.bookings[bk.ID()]; !ok {
			return notFound("booking not found")
		}
		st.history[bk.ID()] = append(st.history[bk.ID()], bk.DrainTransitions()...)
		st.bookings[bk.ID()] = cloneBooking(bk)
		return nil
	})
}

func (b bookingRepo) History(_ context.Context, id uuid.UUID) ([]booking.Transition, error) {
	var out []booking.Transition
	err := b.view(func(st *state) error {
		out = append(out, st.history[id]...)
		return nil
	})
	return out, err
}

func (b bookingRepo) ListDueForBalance(_ context.Context, checkInBefore time.Time, limit int) ([]uuid.UUID, error) {
	return b.list(limit, func(bk *booking.Booking) bool {
		return bk.Status() == booking.StatusDepositPaid && bk.Stay().Start().Before(checkInBefore)
	}, func(x, y *booking.Booking) bool {
		return x.Stay().Start().Before(y.Stay().Start())
	})
}

func (b bookingRepo) ListStaleDepositRequests(_ context.Context, updatedBefore time.Time, limit int) ([]uuid.UUID, error) {
	return b.list(limit, func(bk *booking.Booking) bool {
		return bk.Status() == booking.StatusDepositRequested && bk.UpdatedAt().Before(updatedBefore)
	}, func(x, y *booking.Booking) bool {
		return x.UpdatedAt().Before(y.UpdatedAt())
	})
}

func (b bookingRepo) list(limit int, keep func(*booking.Booking) bool, less func(x, y *booking.Booking) bool) ([]uuid.UUID, error) {
	var matched []*booking.Booking
	err := b.view(func(st *state) error {
		for _, bk := range st.bookings {
			if keep(bk) {
				matched = append(matched, bk)
			}
		}
		return nil
	})
	sort.SliceStable(matched, func(i, j int) bool {
		if less(matched[i], matched[j]) {
			return true
		}
		if less(matched[j], matched[i]) {
			return false
		}
		return matched[i].ID().String() < matched[j].ID().String()
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	ids := make([]uuid.UUID, 0, len(matched))
	for _, bk := range matched {
		ids = append(ids, bk.ID())
	}
	return ids, err
}

type paymentRepo struct{ *repos }

func (p paymentRepo) Create(_ context.Context, r *payment.Record) error {
	return p.write(func(st *state) error {
		if _, ok := st.payments[r.ID()]; ok {
			return infra.NewRepoErr(infra.KindDuplicateKey, "payment record already exists")
		}
		if err := uniqueReference(st, r); err != nil {
			return err
		}
		st.payments[r.ID()] = clonePayment(r)
		return nil
	})
}

func (p paymentRepo) Update(_ context.Context, r *payment.Record) error {
	return p.write(func(st *state) error {
		if _, ok := st.payments[r.ID()]; !ok {
			return notFound("payment record not found")
		}
		if err := uniqueReference(st, r); err != nil {
			return err
		}
		st.payments[r.ID()] = clonePayment(r)
		return nil
	})
}

func uniqueReference(st *state, r *payment.Record) error {
	if r.GatewayReference() == "" {
		return nil
	}
	for id, other := range st.payments {
		if id != r.ID() && other.GatewayReference() == r.GatewayReference() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "gateway reference already used")
		}
	}
	return nil
}

func (p paymentRepo) FindByID(_ context.Context, id uuid.UUID) (*payment.Record, error) {
	var out *payment.Record
	err := p.view(func(st *state) error {
		v, ok := st.payments[id]
		if !ok {
			return notFound("payment record not found")
		}
		out = clonePayment(v)
		return nil
	})
	return out, err
}

func (p paymentRepo) LockByReference(_ context.Context, reference string) (*payment.Record, error) {
	if reference == "" {
		return nil, notFound("empty gateway reference")
	}
	var out *payment.Record
	err := p.view(func(st *state) error {
		for _, v := range st.payments {
			if v.GatewayReference() == reference {
				out = clonePayment(v)
				return nil
			}
		}
		return notFound("payment not found by reference")
	})
	return out, err
}

func (p paymentRepo) ListByBooking(_ context.Context, bookingID uuid.UUID) ([]*payment.Record, error) {
	var out []*payment.Record
	err := p.view(func(st *state) error {
		out = paymentsFor(st, bookingID)
		return nil
	})
	return out, err
}

type eventRepo struct{ *repos }

func (e eventRepo) MarkProcessed(_ context.Context, ev payment.GatewayEvent, _ time.Time) (bool, error) {
	fresh := false
	err := e.write(func(st *state) error {
		if _, ok := st.events[ev.ID]; ok {
			return nil
		}
		st.events[ev.ID] = ev
		fresh = true
		return nil
	})
	return fresh, err
}

func paymentsFor(st *state, bookingID uuid.UUID) []*payment.Record {
	var out []*payment.Record
	for _, r := range st.payments {
		if r.BookingID() == bookingID {
			out = append(out, clonePayment(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID().String() < out[j].ID().String()
		}
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out
}

func sortEntries(es []*availability.Entry) {
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].Dates().Start().Equal(es[j].Dates().Start()) {
			return es[i].Dates().End().Before(es[j].Dates().End())
		}
		return es[i].Dates().Start().Before(es[j].Dates().Start())
	})
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.PropertyID(), b.Contact(), b.Stay(), b.Guests(), b.Status(), b.Amounts(),
		copyUUID(b.DepositPaymentID()), copyUUID(b.BalancePaymentID()),
		b.BalanceDueDate(), b.CreatedAt(), b.UpdatedAt(),
	)
}

func clonePayment(r *payment.Record) *payment.Record {
	return payment.ReconstructRecord(
		r.ID(), r.BookingID(), r.Purpose(), r.Status(), r.Amount(), r.Currency(),
		r.GatewayReference(), r.SessionURL(), r.RefundReference(), r.LastEventID(),
		r.CreatedAt(), r.UpdatedAt(),
	)
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
