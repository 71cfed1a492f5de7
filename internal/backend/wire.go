package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"license-storefront/internal/domain"
)

// wireUser mirrors the upstream user payload. The upstream names the active
// flag "activate"; it is normalized to Activated here.
type wireUser struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	Activate     bool   `json:"activate"`
}

func (w wireUser) toIdentity() (*domain.Identity, error) {
	if strings.TrimSpace(w.CustomerID) == "" {
		return nil, errors.New("missing customer_id")
	}
	return &domain.Identity{
		CustomerID:   w.CustomerID,
		CustomerName: w.CustomerName,
		Email:        w.Email,
		PhoneNumber:  w.PhoneNumber,
		Address:      w.Address,
		Activated:    w.Activate,
	}, nil
}

// wireProduct mirrors the upstream catalog payload, where price arrives as
// either a JSON number or a numeric string and timestamps may lack a zone.
type wireProduct struct {
	LicenseID    string    `json:"license_id"`
	LicenseName  string    `json:"license_name"`
	LicenseInfo  string    `json:"license_info"`
	Price        flexPrice `json:"price"`
	PictureURL   string    `json:"picture_url"`
	Description  string    `json:"description"`
	ExamDate     string    `json:"exam_date"`
	ExamLocation string    `json:"exam_location"`
	CreatedAt    string    `json:"created_at"`
}

func (w wireProduct) toProduct() (domain.Product, error) {
	if strings.TrimSpace(w.LicenseID) == "" {
		return domain.Product{}, errors.New("missing license_id")
	}
	if w.Price < 0 {
		return domain.Product{}, fmt.Errorf("negative price %d for %s", int64(w.Price), w.LicenseID)
	}
	return domain.Product{
		LicenseID:    w.LicenseID,
		LicenseName:  w.LicenseName,
		LicenseInfo:  w.LicenseInfo,
		Price:        int64(w.Price),
		PictureURL:   w.PictureURL,
		Description:  w.Description,
		ExamDate:     w.ExamDate,
		ExamLocation: w.ExamLocation,
		CreatedAt:    parseTimestamp(w.CreatedAt),
	}, nil
}

// flexPrice accepts both `"1000"` and `1000` on the wire.
type flexPrice int64

func (p *flexPrice) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("price %q is not numeric", raw)
		}
		*p = flexPrice(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("price %s is not numeric", s)
	}
	*p = flexPrice(v)
	return nil
}

// parseTimestamp tolerates both RFC3339 and zone-less ISO timestamps; an
// unparseable value degrades to the zero time rather than failing the whole
// catalog.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
