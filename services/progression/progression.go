package progression

import (
	"errors"
	"math"
	"sync"
	"time"

	"clx/models"
	"clx/services/certificate"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrEnrollmentNotFound is returned when the enrollment does not exist
	// or does not belong to the requesting learner
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrModuleNotFound is returned when the module does not belong to the
	// enrollment's programme
	ErrModuleNotFound = errors.New("module not found")
)

// ModuleRef identifies the module unlocked by a completion
type ModuleRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// CompletionResult is the outcome of one completion event
type CompletionResult struct {
	CompletionPct float64
	AllComplete   bool
	NextModule    *ModuleRef
	// Certificate is non-nil only when this call issued it
	Certificate *models.Certificate
}

// enrollmentLocks serializes completion events per enrollment in-process,
// on top of the database transaction. Two concurrent completions of the
// same enrollment's final module must not both issue a certificate.
var enrollmentLocks sync.Map

func enrollmentLock(enrollmentID uint) *sync.Mutex {
	lock, _ := enrollmentLocks.LoadOrStore(enrollmentID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// lockForUpdate adds FOR UPDATE on dialects that support it. SQLite has a
// single writer and rejects the clause.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CompleteModule handles "learner marks module complete within enrollment,
// optionally carrying a quiz score". It marks the module's progress
// completed, unlocks the next module in order, recomputes the enrollment's
// completion percentage and, when the last module completes, finalizes the
// enrollment and issues the certificate exactly once. The whole update runs
// in a single transaction with the enrollment row locked, so a failed write
// leaves no partial state and a retry is safe.
func CompleteModule(db *gorm.DB, userID, enrollmentID, moduleID uint, quizScore *int) (*CompletionResult, error) {
	mu := enrollmentLock(enrollmentID)
	mu.Lock()
	defer mu.Unlock()

	var result *CompletionResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).
			First(&enrollment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		var module models.Module
		if err := tx.Where("id = ? AND programme_id = ? AND is_deleted = ?", moduleID, enrollment.ProgrammeID, false).
			First(&module).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrModuleNotFound
			}
			return err
		}

		now := time.Now()

		if err := completeProgress(tx, userID, enrollmentID, moduleID, quizScore, now); err != nil {
			return err
		}

		nextModule, err := unlockNext(tx, userID, &enrollment, module.OrderIndex, now)
		if err != nil {
			return err
		}

		pct, allComplete, err := recomputeCompletion(tx, &enrollment)
		if err != nil {
			return err
		}

		var cert *models.Certificate
		if allComplete {
			pct = 100
			updates := map[string]interface{}{
				"status":         models.EnrollmentCompleted,
				"completion_pct": 100.0,
			}
			// completed_at is set once; re-completions keep the original
			if enrollment.CompletedAt == nil {
				updates["completed_at"] = now
			}
			if err := tx.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
				Updates(updates).Error; err != nil {
				return err
			}

			cert, err = issueOnce(tx, userID, &enrollment, now)
			if err != nil {
				return err
			}
		} else {
			// Status never reverts to not_started once a module is touched
			if err := tx.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
				Updates(map[string]interface{}{
					"status":         models.EnrollmentInProgress,
					"completion_pct": pct,
				}).Error; err != nil {
				return err
			}
		}

		var nextRef *ModuleRef
		if nextModule != nil {
			nextRef = &ModuleRef{ID: nextModule.ID, Title: nextModule.Title}
		}

		result = &CompletionResult{
			CompletionPct: pct,
			AllComplete:   allComplete,
			NextModule:    nextRef,
			Certificate:   cert,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// completeProgress upserts the module's progress row to completed. An
// existing quiz score is never overwritten with nil (COALESCE semantics).
func completeProgress(tx *gorm.DB, userID, enrollmentID, moduleID uint, quizScore *int, now time.Time) error {
	var progress models.ModuleProgress
	err := tx.Where("module_id = ? AND enrollment_id = ?", moduleID, enrollmentID).
		First(&progress).Error

	switch {
	case err == nil:
		updates := map[string]interface{}{
			"status":       models.ProgressCompleted,
			"completed_at": now,
		}
		if quizScore != nil {
			updates["quiz_score"] = *quizScore
		}
		return tx.Model(&progress).Updates(updates).Error

	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = models.ModuleProgress{
			UserID:       userID,
			ModuleID:     moduleID,
			EnrollmentID: enrollmentID,
			Status:       models.ProgressCompleted,
			StartedAt:    &now,
			CompletedAt:  &now,
			QuizScore:    quizScore,
		}
		return tx.Create(&progress).Error

	default:
		return err
	}
}

// unlockNext finds the module with the smallest order index beyond the
// completed one and flips its progress locked -> available. Progress that is
// already available, in progress or completed is left untouched, so
// re-completing a module never regresses state.
func unlockNext(tx *gorm.DB, userID uint, enrollment *models.Enrollment, completedOrder int, now time.Time) (*models.Module, error) {
	var next models.Module
	err := tx.Where("programme_id = ? AND order_index > ? AND is_deleted = ?", enrollment.ProgrammeID, completedOrder, false).
		Order("order_index asc").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var progress models.ModuleProgress
	err = tx.Where("module_id = ? AND enrollment_id = ?", next.ID, enrollment.ID).
		First(&progress).Error

	switch {
	case err == nil:
		if progress.Status == models.ProgressLocked {
			if err := tx.Model(&progress).Updates(map[string]interface{}{
				"status":     models.ProgressAvailable,
				"started_at": now,
			}).Error; err != nil {
				return nil, err
			}
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = models.ModuleProgress{
			UserID:       userID,
			ModuleID:     next.ID,
			EnrollmentID: enrollment.ID,
			Status:       models.ProgressAvailable,
			StartedAt:    &now,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return &next, nil
}

// recomputeCompletion derives the completion percentage from live counts
// rather than the programme's cached module_count, rounded to one decimal.
// A programme with zero modules never completes.
func recomputeCompletion(tx *gorm.DB, enrollment *models.Enrollment) (float64, bool, error) {
	var total, completed int64

	if err := tx.Model(&models.Module{}).
		Where("programme_id = ? AND is_deleted = ?", enrollment.ProgrammeID, false).
		Count(&total).Error; err != nil {
		return 0, false, err
	}

	if err := tx.Model(&models.ModuleProgress{}).
		Where("enrollment_id = ? AND status = ?", enrollment.ID, models.ProgressCompleted).
		Count(&completed).Error; err != nil {
		return 0, false, err
	}

	if total == 0 {
		return 0, false, nil
	}

	pct := math.Round(float64(completed)/float64(total)*1000) / 10
	return pct, completed >= total, nil
}

// issueOnce issues the certificate unless one already exists for the
// enrollment. The existence check runs under the enrollment row lock; the
// unique index on enrollment_id is the final backstop.
func issueOnce(tx *gorm.DB, userID uint, enrollment *models.Enrollment, now time.Time) (*models.Certificate, error) {
	var existing models.Certificate
	err := tx.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return certificate.Issue(tx, userID, enrollment.ProgrammeID, enrollment.ID, now)
}
