package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/greengp/platform/internal/models"
)

// Sentinel errors for common error conditions
var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when a user lookup finds no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotFound is returned when an owned entity does not exist or is owned
	// by a different user. The two causes are deliberately indistinguishable
	// so callers cannot probe for other tenants' data.
	ErrNotFound = errors.New("not found or not authorized")

	// ErrSerialExists is returned when a device serial number collides with an
	// existing device, regardless of owner.
	ErrSerialExists = errors.New("serial number already exists")
)

// UserStore persists user records. The password hash is stored alongside the
// profile but is only read back for credential verification at login.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SMMEStore persists SMME records. Every operation other than Create takes
// the requesting user's ID and filters on it; a miss is reported as
// ErrNotFound whether the row is absent or owned by someone else.
type SMMEStore interface {
	Create(ctx context.Context, smme *models.SMME) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*models.SMME, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.SMME, error)
	Update(ctx context.Context, smme *models.SMME) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// DeviceStore persists IoT devices. Devices carry no owner column; ownership
// is resolved through the parent SMME on every call. Create must only insert
// when the parent SMME is owned by ownerID, atomically with the insert.
type DeviceStore interface {
	Create(ctx context.Context, device *models.Device, ownerID uuid.UUID) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Device, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Device, error)
	ListBySMME(ctx context.Context, smmeID, ownerID uuid.UUID) ([]*models.Device, error)
	Update(ctx context.Context, device *models.Device, ownerID uuid.UUID) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// ReadingStore persists sensor readings. Readings are append-only; both the
// append and the listing re-verify the device -> SMME -> user chain.
type ReadingStore interface {
	Append(ctx context.Context, reading *models.Reading, ownerID uuid.UUID) error

	// ListByDevice returns readings for an owned device, newest first, capped
	// at 1000 rows. A non-zero within narrows results to the trailing window.
	ListByDevice(ctx context.Context, deviceID, ownerID uuid.UUID, within time.Duration) ([]*models.Reading, error)
}

// ReportStore persists report records, scoped by the generating user.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	Get(ctx context.Context, id, ownerID uuid.UUID) (*models.Report, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Report, error)
	Update(ctx context.Context, report *models.Report) error

	// Delete removes the report row and returns the artifact path that was
	// recorded on it, so the caller can remove the file as well.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (string, error)
}

// CaseStudyStore persists case studies. Draft case studies are scoped to
// their author; published ones are readable by anyone.
type CaseStudyStore interface {
	Create(ctx context.Context, cs *models.CaseStudy) error
	GetPublished(ctx context.Context, id uuid.UUID) (*models.CaseStudy, error)
	ListPublished(ctx context.Context) ([]*models.CaseStudy, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.CaseStudy, error)
	Update(ctx context.Context, cs *models.CaseStudy) error
	Delete(ctx context.Context, id, authorID uuid.UUID) error

	// Publish transitions a draft to published. The transition is conditioned
	// on both authorship and the draft state in a single conditional write;
	// a second publish of the same case study fails with ErrNotFound.
	Publish(ctx context.Context, id, authorID uuid.UUID) error
}

// AnalyticsStore computes owner-scoped aggregates over the ownership subtree.
type AnalyticsStore interface {
	DashboardStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error)
	PerformanceTrends(ctx context.Context, ownerID uuid.UUID, days int) ([]*models.TrendPoint, error)
	LocationStats(ctx context.Context, ownerID uuid.UUID) ([]*models.LocationStat, error)
	SectorStats(ctx context.Context, ownerID uuid.UUID) ([]*models.SectorStat, error)
	ImpactMetrics(ctx context.Context, ownerID uuid.UUID) (*models.ImpactMetrics, error)
}

// Stores bundles the per-entity stores for wiring into the server.
type Stores struct {
	Users       UserStore
	SMMEs       SMMEStore
	Devices     DeviceStore
	Readings    ReadingStore
	Reports     ReportStore
	CaseStudies CaseStudyStore
	Analytics   AnalyticsStore
}
