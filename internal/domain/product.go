package domain

import "time"

// Product is a catalog entry (license/course) available for purchase.
// Products are sourced entirely from the upstream catalog endpoint and are
// never mutated here.
type Product struct {
	LicenseID    string    `json:"license_id"`
	LicenseName  string    `json:"license_name"`
	LicenseInfo  string    `json:"license_info,omitempty"`
	Price        int64     `json:"price"`
	PictureURL   string    `json:"picture_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	ExamDate     string    `json:"exam_date,omitempty"`
	ExamLocation string    `json:"exam_location,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}
