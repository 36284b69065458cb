package types

import (
	"errors"
	"strings"
	"time"

	"github.com/badoux/checkmail"
)

var (
	ErrInvalidTier   = errors.New("tier must be Platinum, Gold or Silver")
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
)

// EnrollmentForm is the data-entry step of enrollment, one field per input.
type EnrollmentForm struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Tier           Tier   `json:"tier,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
}

// Normalize trims every field and defaults an empty tier to Silver.
func (f EnrollmentForm) Normalize() EnrollmentForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.PassportNumber = strings.TrimSpace(f.PassportNumber)
	f.Nationality = strings.TrimSpace(f.Nationality)
	if strings.TrimSpace(string(f.Tier)) == "" {
		f.Tier = TierSilver
	} else if t, err := ParseTier(string(f.Tier)); err == nil {
		f.Tier = t
	}
	return f
}

// Validate checks the form as a unit. Name and email are required; the
// tier, once normalized, must be one of the enumerated values.
func (f EnrollmentForm) Validate() error {
	f = f.Normalize()
	var errs []error
	if f.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if f.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if !f.Tier.Valid() {
		errs = append(errs, ErrInvalidTier)
	}
	return errors.Join(errs...)
}

// Warnings reports problems that do not block submission.
func (f EnrollmentForm) Warnings() []string {
	f = f.Normalize()
	var out []string
	if f.Email != "" {
		if err := checkmail.ValidateFormat(f.Email); err != nil {
			out = append(out, "email format looks invalid")
		}
	}
	return out
}

// NewMember builds the record created by a successful enrollment.
func (f EnrollmentForm) NewMember(id, photoURL string, now time.Time) Member {
	f = f.Normalize()
	return Member{
		ID:             id,
		Name:           f.Name,
		Email:          f.Email,
		Tier:           f.Tier,
		MemberSince:    now.UTC().Format(DateLayout),
		Flights:        0,
		PhotoURL:       photoURL,
		PassportNumber: f.PassportNumber,
		Nationality:    f.Nationality,
		Status:         StatusActive,
	}
}
