package models

import "time"

// DatingKycRequest gates dating-chat initiation.
// not_started -> pending -> approved | rejected; rejected allows resubmission.
type DatingKycRequest struct {
	BaseModel
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DocType     KycDocType `gorm:"type:varchar(30);not null" json:"doc_type"`
	DocFrontURL string     `gorm:"not null" json:"doc_front_url"`
	DocBackURL  string     `json:"doc_back_url"`
	SelfieURL   string     `gorm:"not null" json:"selfie_url"`
	Status      KycStatus  `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Reason      string     `json:"reason"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
}

// HostKyc gates withdrawal eligibility for hosts and carries the bank fields
// that payout requests snapshot.
type HostKyc struct {
	BaseModel
	UserID      string     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DocType     KycDocType `gorm:"type:varchar(30);not null" json:"doc_type"`
	DocFrontURL string     `gorm:"not null" json:"doc_front_url"`
	DocBackURL  string     `json:"doc_back_url"`
	SelfieURL   string     `gorm:"not null" json:"selfie_url"`
	Status      KycStatus  `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Reason      string     `json:"reason"`
	ReviewedAt  *time.Time `json:"reviewed_at"`

	AccountHolder string `json:"account_holder"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bank_name"`
}
