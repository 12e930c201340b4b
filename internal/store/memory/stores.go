package memory

import "github.com/greengp/platform/internal/store"

// NewStores wires up the full set of in-memory stores with their
// ownership-chain dependencies.
func NewStores() *store.Stores {
	users := NewUserStore()
	smmes := NewSMMEStore()
	devices := NewDeviceStore(smmes)
	readings := NewReadingStore(devices)

	return &store.Stores{
		Users:       users,
		SMMEs:       smmes,
		Devices:     devices,
		Readings:    readings,
		Reports:     NewReportStore(),
		CaseStudies: NewCaseStudyStore(),
		Analytics:   NewAnalyticsStore(smmes, devices, readings),
	}
}
