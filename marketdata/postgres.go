package marketdata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/meridianfi/bondlib/curve"
)

// PostgresProvider loads benchmark-curve snapshots from a Postgres table:
//
//	CREATE TABLE benchmark_curve_points (
//	    curve_name  text             NOT NULL,
//	    as_of       date             NOT NULL,
//	    tenor_years double precision NOT NULL,
//	    yield_pct   double precision NOT NULL,
//	    PRIMARY KEY (curve_name, as_of, tenor_years)
//	);
type PostgresProvider struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPostgresProvider opens a connection pool for the given DSN. The
// connection is validated lazily on first query.
func NewPostgresProvider(dsn string, log *zap.Logger) (*PostgresProvider, error) {
	if dsn == "" {
		return nil, fmt.Errorf("NewPostgresProvider: dsn is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresProvider: open: %w", err)
	}
	return &PostgresProvider{db: db, log: log}, nil
}

func (p *PostgresProvider) BenchmarkCurve(ctx context.Context, name string, asOf time.Time) (curve.Benchmark, error) {
	const query = `
		SELECT tenor_years, yield_pct
		FROM benchmark_curve_points
		WHERE curve_name = $1 AND as_of = $2
		ORDER BY tenor_years`

	rows, err := p.db.QueryContext(ctx, query, name, asOf.Format("2006-01-02"))
	if err != nil {
		return curve.Benchmark{}, fmt.Errorf("PostgresProvider: query curve %q: %w", name, err)
	}
	defer rows.Close()

	var points []curve.Point
	for rows.Next() {
		var pt curve.Point
		if err := rows.Scan(&pt.TenorYears, &pt.YieldPct); err != nil {
			return curve.Benchmark{}, fmt.Errorf("PostgresProvider: scan point: %w", err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return curve.Benchmark{}, fmt.Errorf("PostgresProvider: iterate points: %w", err)
	}
	if len(points) == 0 {
		return curve.Benchmark{}, fmt.Errorf("PostgresProvider: no curve %q as of %s", name, asOf.Format("2006-01-02"))
	}

	p.log.Debug("loaded benchmark curve",
		zap.String("name", name),
		zap.Time("as_of", asOf),
		zap.Int("points", len(points)))

	return curve.New(asOf, points), nil
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
