package progression

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"clx/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Programme{},
		&models.Module{},
		&models.Enrollment{},
		&models.ModuleProgress{},
		&models.Certificate{},
		&models.CertificateSequence{},
	))
	return db
}

// seedEnrollment creates a user enrolled in a programme with the given
// module order indexes. No progress rows are created: everything starts
// implicitly locked.
func seedEnrollment(t *testing.T, db *gorm.DB, orderIndexes ...int) (models.User, []models.Module, models.Enrollment) {
	t.Helper()

	user := models.User{Name: "Dana Learner", Email: t.Name() + "@example.com"}
	require.NoError(t, db.Create(&user).Error)

	programme := models.Programme{Title: "Workplace Safety", Slug: strings.ToLower(t.Name()), Category: "Compliance"}
	require.NoError(t, db.Create(&programme).Error)

	modules := make([]models.Module, len(orderIndexes))
	for i, idx := range orderIndexes {
		modules[i] = models.Module{
			ProgrammeID: programme.ID,
			Title:       fmt.Sprintf("Unit %d", idx),
			OrderIndex:  idx,
			ContentType: models.ContentTypeReading,
		}
		require.NoError(t, db.Create(&modules[i]).Error)
	}

	enrollment := models.Enrollment{
		UserID:      user.ID,
		ProgrammeID: programme.ID,
		Status:      models.EnrollmentNotStarted,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	return user, modules, enrollment
}

func progressFor(t *testing.T, db *gorm.DB, moduleID, enrollmentID uint) *models.ModuleProgress {
	t.Helper()
	var p models.ModuleProgress
	err := db.Where("module_id = ? AND enrollment_id = ?", moduleID, enrollmentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &p
}

func certificateCount(t *testing.T, db *gorm.DB, enrollmentID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("enrollment_id = ?", enrollmentID).Count(&n).Error)
	return n
}

func TestCompleteModuleUpdatesProgressAndUnlocksNext(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2, 3)

	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	assert.InDelta(t, 33.3, result.CompletionPct, 0.001)
	assert.False(t, result.AllComplete)
	require.NotNil(t, result.NextModule)
	assert.Equal(t, modules[1].ID, result.NextModule.ID)
	assert.Equal(t, "Unit 2", result.NextModule.Title)
	assert.Nil(t, result.Certificate)

	done := progressFor(t, db, modules[0].ID, enrollment.ID)
	require.NotNil(t, done)
	assert.Equal(t, models.ProgressCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	next := progressFor(t, db, modules[1].ID, enrollment.ID)
	require.NotNil(t, next)
	assert.Equal(t, models.ProgressAvailable, next.Status)
	assert.NotNil(t, next.StartedAt)

	// The module after next stays implicitly locked
	assert.Nil(t, progressFor(t, db, modules[2].ID, enrollment.ID))

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentInProgress, updated.Status)
	assert.InDelta(t, 33.3, updated.CompletionPct, 0.001)
}

func TestCompleteFinalModuleIssuesCertificate(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2)

	_, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[1].ID, nil)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.CompletionPct)
	assert.True(t, result.AllComplete)
	assert.Nil(t, result.NextModule)
	require.NotNil(t, result.Certificate)
	assert.Regexp(t, `^CLX-\d{4}-\d{4}$`, result.Certificate.CertificateNumber)

	var updated models.Enrollment
	require.NoError(t, db.First(&updated, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	assert.Equal(t, 100.0, updated.CompletionPct)
	assert.NotNil(t, updated.CompletedAt)

	assert.EqualValues(t, 1, certificateCount(t, db, enrollment.ID))
}

func TestRecompletionIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2)

	first, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	again, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.CompletionPct, again.CompletionPct)
	assert.Equal(t, first.AllComplete, again.AllComplete)
	require.NotNil(t, again.NextModule)
	assert.Equal(t, first.NextModule.ID, again.NextModule.ID)
}

func TestRecompletionDoesNotRegressLaterProgress(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2, 3)

	_, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)
	_, err = CompleteModule(db, user.ID, enrollment.ID, modules[1].ID, nil)
	require.NoError(t, err)

	// Re-completing module 1 must not flip module 2 back to available
	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	assert.InDelta(t, 66.7, result.CompletionPct, 0.001)
	second := progressFor(t, db, modules[1].ID, enrollment.ID)
	require.NotNil(t, second)
	assert.Equal(t, models.ProgressCompleted, second.Status)
}

func TestCompletionPctIsMonotonic(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2, 3, 4, 5, 6, 7)

	// Completions out of order and with repeats
	sequence := []int{0, 2, 0, 1, 4, 4, 3, 6, 5, 2}
	last := 0.0
	for _, i := range sequence {
		result, err := CompleteModule(db, user.ID, enrollment.ID, modules[i].ID, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.CompletionPct, last)
		last = result.CompletionPct
	}
}

func TestUnlockOrderingWithGaps(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 10, 20, 30, 40)

	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	// Only the immediately following order index unlocks
	require.NotNil(t, result.NextModule)
	assert.Equal(t, modules[1].ID, result.NextModule.ID)
	assert.Nil(t, progressFor(t, db, modules[2].ID, enrollment.ID))
	assert.Nil(t, progressFor(t, db, modules[3].ID, enrollment.ID))
}

func TestCompletingLastModuleOutOfOrder(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2)

	// Completing the final module first unlocks nothing and does not
	// complete the enrollment
	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[1].ID, nil)
	require.NoError(t, err)

	assert.Nil(t, result.NextModule)
	assert.False(t, result.AllComplete)
	assert.InDelta(t, 50.0, result.CompletionPct, 0.001)
	assert.EqualValues(t, 0, certificateCount(t, db, enrollment.ID))
}

func TestExactlyOneCertificateUnderConcurrentCompletion(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2)

	_, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = CompleteModule(db, user.ID, enrollment.ID, modules[1].ID, nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}

	assert.EqualValues(t, 1, certificateCount(t, db, enrollment.ID))
}

func TestQuizScorePreserved(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2)

	score := 85
	_, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, &score)
	require.NoError(t, err)

	// Re-completing without a score keeps the stored one
	_, err = CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)

	progress := progressFor(t, db, modules[0].ID, enrollment.ID)
	require.NotNil(t, progress)
	require.NotNil(t, progress.QuizScore)
	assert.Equal(t, 85, *progress.QuizScore)

	// A new score does overwrite
	better := 95
	_, err = CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, &better)
	require.NoError(t, err)

	progress = progressFor(t, db, modules[0].ID, enrollment.ID)
	require.NotNil(t, progress.QuizScore)
	assert.Equal(t, 95, *progress.QuizScore)
}

func TestEnrollmentNotFound(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1)

	_, err := CompleteModule(db, user.ID, enrollment.ID+999, modules[0].ID, nil)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)

	// An enrollment belonging to someone else is equally not found
	_, err = CompleteModule(db, user.ID+999, enrollment.ID, modules[0].ID, nil)
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestModuleNotFound(t *testing.T) {
	db := openTestDB(t)
	user, _, enrollment := seedEnrollment(t, db, 1)

	// A module from another programme does not belong to this enrollment
	otherProgramme := models.Programme{Title: "Other", Slug: "other-" + strings.ToLower(t.Name())}
	require.NoError(t, db.Create(&otherProgramme).Error)
	foreign := models.Module{ProgrammeID: otherProgramme.ID, Title: "Foreign", OrderIndex: 1}
	require.NoError(t, db.Create(&foreign).Error)

	_, err := CompleteModule(db, user.ID, enrollment.ID, foreign.ID, nil)
	assert.ErrorIs(t, err, ErrModuleNotFound)

	// No partial state: nothing was written
	assert.Nil(t, progressFor(t, db, foreign.ID, enrollment.ID))
	var unchanged models.Enrollment
	require.NoError(t, db.First(&unchanged, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentNotStarted, unchanged.Status)
}

func TestZeroModuleProgrammeNeverCompletes(t *testing.T) {
	db := openTestDB(t)
	_, _, enrollment := seedEnrollment(t, db) // no modules

	pct, allComplete, err := recomputeCompletion(db, &enrollment)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
	assert.False(t, allComplete)
}

func TestCompletionPctRounding(t *testing.T) {
	db := openTestDB(t)
	user, modules, enrollment := seedEnrollment(t, db, 1, 2, 3)

	_, err := CompleteModule(db, user.ID, enrollment.ID, modules[0].ID, nil)
	require.NoError(t, err)
	result, err := CompleteModule(db, user.ID, enrollment.ID, modules[1].ID, nil)
	require.NoError(t, err)

	// 2/3 rounds to one decimal place
	assert.Equal(t, 66.7, result.CompletionPct)
}
