package models

// CheckInStatus is the upstream-reported classification of a punch,
// independent of the derived IsLate flag.
type CheckInStatus string

const (
	StatusNormal   CheckInStatus = "Normal"
	StatusLate     CheckInStatus = "Late"
	StatusAbnormal CheckInStatus = "Abnormal"
	StatusUnknown  CheckInStatus = "Unknown"
)

// CheckInRecord is one punch event after normalization.
type CheckInRecord struct {
	Date             string        `json:"date"`        // YYYY-MM-DD
	CheckInTime      string        `json:"checkInTime"` // HH:MM:SS, 24h, attendance-group local time
	UserID           string        `json:"userId"`
	UserName         string        `json:"userName"`
	Department       string        `json:"department"` // never empty; "unknown department" placeholder
	Status           CheckInStatus `json:"status"`
	IsLate           bool          `json:"isLate"`
	IsInMorningRange bool          `json:"isInMorningRange"`
	TotalMinutes     int           `json:"totalMinutes"` // minutes since midnight, 0-1439
}
