package certificate

import (
	"errors"
	"fmt"
	"time"

	"clx/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Issue creates the certificate row for a completed enrollment inside the
// caller's transaction. Certificate numbers are CLX-<year>-<NNNN>, drawn from
// a per-year counter row locked FOR UPDATE so concurrent issuance across
// enrollments cannot hand out the same number.
func Issue(tx *gorm.DB, userID, programmeID, enrollmentID uint, issuedAt time.Time) (*models.Certificate, error) {
	number, err := nextNumber(tx, issuedAt.Year())
	if err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		UserID:            userID,
		ProgrammeID:       programmeID,
		EnrollmentID:      enrollmentID,
		CertificateNumber: number,
		VerifyCode:        uuid.NewString(),
		IssuedAt:          issuedAt,
		ValidUntil:        issuedAt.AddDate(2, 0, 0), // valid for exactly 2 calendar years
	}

	if err := tx.Create(cert).Error; err != nil {
		return nil, err
	}

	return cert, nil
}

// lockForUpdate adds FOR UPDATE on dialects that support it. SQLite has a
// single writer and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// nextNumber increments the counter for the given year and formats the
// certificate number, zero-padded to 4 digits.
func nextNumber(tx *gorm.DB, year int) (string, error) {
	var seq models.CertificateSequence

	err := lockForUpdate(tx).
		Where("year = ?", year).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.CertificateSequence{Year: year}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	seq.LastNumber++
	if err := tx.Model(&seq).Update("last_number", seq.LastNumber).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("CLX-%d-%04d", year, seq.LastNumber), nil
}
