package models

// HostReport records a user reporting a host. The composite unique index
// enforces at most one report per (reporter, host) pair.
type HostReport struct {
	BaseModel
	ReporterID     string       `gorm:"type:uuid;not null;uniqueIndex:idx_reporter_host" json:"reporter_id"`
	ReportedHostID string       `gorm:"type:uuid;not null;uniqueIndex:idx_reporter_host;index" json:"reported_host_id"`
	Reason         string       `gorm:"not null" json:"reason"`
	Status         ReportStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AdminNotes     string       `json:"admin_notes"`
}
