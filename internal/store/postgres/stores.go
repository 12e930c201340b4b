package postgres

import (
	"github.com/greengp/platform/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStores bundles all PostgreSQL-backed stores over one connection pool.
func NewStores(pool *pgxpool.Pool) *store.Stores {
	return &store.Stores{
		Users:       NewUserStore(pool),
		SMMEs:       NewSMMEStore(pool),
		Devices:     NewDeviceStore(pool),
		Readings:    NewReadingStore(pool),
		Reports:     NewReportStore(pool),
		CaseStudies: NewCaseStudyStore(pool),
		Analytics:   NewAnalyticsStore(pool),
	}
}
