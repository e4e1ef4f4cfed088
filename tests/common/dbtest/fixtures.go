//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// satisfied by *pgxpool.Pool and pgx.Tx
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestProperty(t *testing.T, db DBLike, name string, midweek, weekend int64, maxGuests int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO properties (id, name, midweek_rate, weekend_rate, max_guests)
		VALUES ($1, $2, $3, $4, $5)`,
		id, name, midweek, weekend, maxGuests)
	require.NoError(t, err)

	return id
}

func SetCalendarFeed(t *testing.T, db DBLike, propertyID uuid.UUID, url string) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE properties SET calendar_feed_url = $2 WHERE id = $1", propertyID, url)
	require.NoError(t, err)
}

func CreateBlackout(t *testing.T, db DBLike, propertyID uuid.UUID, from, to string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO availability_entries (id, property_id, kind, start_date, end_date)
		VALUES ($1, $2, 'blackout', $3, $4)`,
		id, propertyID, from, to)
	require.NoError(t, err)

	return id
}

func BookingStatus(t *testing.T, db DBLike, bookingID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)
	return status
}

func CountBookedEntries(t *testing.T, db DBLike, propertyID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM availability_entries WHERE property_id = $1 AND kind = 'booked'", propertyID).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts the default property used by smoke tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO properties (id, name, midweek_rate, weekend_rate, max_guests)
		VALUES ($1, 'Harbour Cottage', 10000, 15000, 6)
		ON CONFLICT (id) DO NOTHING;
	`, DefaultPropertyID)
	return err
}

var DefaultPropertyID = uuid.MustParse("6f1c2a4e-8d3b-4c7a-9e51-2b0d4f6a8c13")

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
