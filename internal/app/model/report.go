package model

import (
	"time"
)

type ReportType string

const (
	ReportTypeLost  ReportType = "lost"
	ReportTypeFound ReportType = "found"
)

func (t ReportType) Valid() bool {
	return t == ReportTypeLost || t == ReportTypeFound
}

// ReportStatus is the claim lifecycle state. It only ever moves forward:
// unclaimed -> pending_verification -> verified -> resolved.
type ReportStatus string

const (
	StatusUnclaimed           ReportStatus = "unclaimed"
	StatusPendingVerification ReportStatus = "pending_verification"
	StatusVerified            ReportStatus = "verified"
	StatusResolved            ReportStatus = "resolved"
)

// VerificationAnswers are the claimant-supplied details an administrator
// checks against the real item. Free text, stored verbatim.
type VerificationAnswers struct {
	Color    string `gorm:"type:text" json:"color"`
	Marking  string `gorm:"type:text" json:"marking"`
	Contents string `gorm:"type:text" json:"contents"`
}

// Report is one lost/found item record. Reporter identity is denormalized
// at creation time and claimer identity at claim time, so the display copy
// stays stable even if the user edits their profile later.
//
// Reports are hard-deleted by the administrator; there is no tombstone.
type Report struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Type        ReportType `gorm:"type:varchar(10);not null;index" json:"type"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Place       string     `gorm:"not null" json:"place"`
	Contact     string     `gorm:"not null" json:"contact"`
	ImageURL    string     `json:"image_url,omitempty"`

	ReporterID    uint   `gorm:"not null;index" json:"reporter_id"`
	ReporterEmail string `gorm:"not null" json:"reporter_email"`
	ReporterName  string `gorm:"not null" json:"reporter_name"`

	Status ReportStatus `gorm:"type:varchar(30);not null;default:'unclaimed';index" json:"status"`

	ClaimerID      *uint               `gorm:"index" json:"claimer_id,omitempty"`
	ClaimerEmail   string              `json:"claimer_email,omitempty"`
	ClaimerName    string              `json:"claimer_name,omitempty"`
	ClaimReference string              `json:"claim_reference,omitempty"`
	Answers        VerificationAnswers `gorm:"embedded;embeddedPrefix:answer_" json:"answers"`
	ClaimedAt      *time.Time          `json:"claimed_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

// IsClaimed reports whether a claim has been filed against the report
func (r *Report) IsClaimed() bool {
	return r.Status != StatusUnclaimed
}

// ClaimableBy reports whether the given user may file a claim.
// The finder of a found item cannot claim it back as its owner; the
// reporter of a lost item may claim it when acting as a finder.
func (r *Report) ClaimableBy(userID uint) bool {
	if r.Status != StatusUnclaimed {
		return false
	}
	if r.Type == ReportTypeFound && r.ReporterID == userID {
		return false
	}
	return true
}

// StatusLabel returns the human label for the lifecycle state.
// The admin view shows fresh reports as awaiting review rather than
// unclaimed, matching the two dashboards.
func (r *Report) StatusLabel(adminView bool) string {
	switch r.Status {
	case StatusUnclaimed:
		if adminView {
			return "Pending"
		}
		return "Unclaimed"
	case StatusPendingVerification:
		return "Pending Verification"
	case StatusVerified:
		return "Verified / Awaiting Handover"
	case StatusResolved:
		return "Resolved / Returned"
	default:
		return string(r.Status)
	}
}
