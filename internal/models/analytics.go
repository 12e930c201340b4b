package models

import "time"

// DashboardStats summarizes a single user's ownership subtree.
type DashboardStats struct {
	TotalSMMEs     int64 `json:"total_smme"`
	TotalDevices   int64 `json:"total_devices"`
	ActiveDevices  int64 `json:"active_devices"`
	RecentReadings int64 `json:"recent_readings"` // Readings in the last 24 hours
}

// TrendPoint is one day of aggregated readings.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	ReadingCount int64     `json:"reading_count"`
	AvgValue     float64   `json:"avg_value"`
}

// LocationStat aggregates SMMEs, devices and readings per location.
type LocationStat struct {
	Location    string  `json:"location"`
	SMMECount   int64   `json:"smme_count"`
	DeviceCount int64   `json:"device_count"`
	AvgReading  float64 `json:"avg_reading"`
}

// SectorStat aggregates SMMEs, devices and readings per sector.
type SectorStat struct {
	Sector      string  `json:"sector"`
	SMMECount   int64   `json:"smme_count"`
	DeviceCount int64   `json:"device_count"`
	AvgReading  float64 `json:"avg_reading"`
}

// ImpactMetrics summarizes sustainability impact over the trailing 30 days.
type ImpactMetrics struct {
	EnergySavings   float64 `json:"energy_savings"`
	AvgEfficiency   float64 `json:"avg_efficiency"`
	CarbonReduction float64 `json:"carbon_reduction"`
	Period          string  `json:"period"`
}
