package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"aicruel-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// One connection serializes sqlite writes under concurrent callers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Deadline{},
		&models.NotificationSettings{},
		&models.ReminderInstance{},
		&models.DispatchLog{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Password: "test-password", Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createDeadline(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, dueAt time.Time) *models.Deadline {
	t.Helper()
	deadline := models.Deadline{
		UserID:   userID,
		Title:    title,
		DueDate:  dueAt,
		Priority: models.PriorityMedium,
		Status:   models.StatusPending,
	}
	require.NoError(t, db.Create(&deadline).Error)
	return &deadline
}

func TestMarkSentIfUnsent_SecondCallLoses(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "mark@example.com")
	deadline := createDeadline(t, db, user.ID, "Submit report", time.Now().Add(24*time.Hour))

	instance := models.ReminderInstance{DeadlineID: deadline.ID, LeadTime: models.Lead1Day}
	require.NoError(t, db.Create(&instance).Error)

	sentAt := time.Now()
	won, err := st.MarkSentIfUnsent(instance.ID, sentAt)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = st.MarkSentIfUnsent(instance.ID, sentAt)
	require.NoError(t, err)
	assert.False(t, won, "second conditional update must lose")

	var reloaded models.ReminderInstance
	require.NoError(t, db.First(&reloaded, "id = ?", instance.ID).Error)
	assert.True(t, reloaded.Sent)
	require.NotNil(t, reloaded.SentAt)
}

func TestMarkSentIfUnsent_ConcurrentWinsExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "race@example.com")
	deadline := createDeadline(t, db, user.ID, "Pay invoice", time.Now().Add(time.Hour))

	instance := models.ReminderInstance{DeadlineID: deadline.ID, LeadTime: models.Lead1Hour}
	require.NoError(t, db.Create(&instance).Error)

	const callers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		errs []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := st.MarkSentIfUnsent(instance.ID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if won {
				wins++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, wins, "exactly one concurrent caller may flip the sent flag")
}

func TestListUnsentReminders_Filters(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "list@example.com")
	now := time.Now()
	due := now.Add(24 * time.Hour)

	pending := createDeadline(t, db, user.ID, "Pending task", due)
	completed := createDeadline(t, db, user.ID, "Done task", due)
	require.NoError(t, db.Model(completed).Update("status", models.StatusCompleted).Error)

	unsent := models.ReminderInstance{DeadlineID: pending.ID, LeadTime: models.Lead1Day}
	require.NoError(t, db.Create(&unsent).Error)

	sent := models.ReminderInstance{DeadlineID: pending.ID, LeadTime: models.Lead1Hour, Sent: true}
	require.NoError(t, db.Create(&sent).Error)

	onCompleted := models.ReminderInstance{DeadlineID: completed.ID, LeadTime: models.Lead1Day}
	require.NoError(t, db.Create(&onCompleted).Error)

	candidates, err := st.ListUnsentReminders(now)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, unsent.ID, candidates[0].ID)
	assert.Equal(t, pending.ID, candidates[0].DeadlineID)
	assert.Equal(t, user.ID, candidates[0].UserID)
	assert.Equal(t, "Pending task", candidates[0].Title)
	assert.Equal(t, models.Lead1Day, candidates[0].LeadTime)
	assert.WithinDuration(t, due, candidates[0].DueDate, time.Second)
}

func TestListUnsentReminders_SkipsDeletedDeadlines(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "deleted@example.com")
	deadline := createDeadline(t, db, user.ID, "Doomed task", time.Now().Add(time.Hour))

	instance := models.ReminderInstance{DeadlineID: deadline.ID, LeadTime: models.Lead1Hour}
	require.NoError(t, db.Create(&instance).Error)

	require.NoError(t, db.Delete(deadline).Error)

	candidates, err := st.ListUnsentReminders(time.Now())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestListUnsentReminders_SkipsPastDueDeadlines(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "pastdue@example.com")
	now := time.Now()
	deadline := createDeadline(t, db, user.ID, "Missed task", now.Add(-time.Minute))

	instance := models.ReminderInstance{DeadlineID: deadline.ID, LeadTime: models.Lead1Hour}
	require.NoError(t, db.Create(&instance).Error)

	candidates, err := st.ListUnsentReminders(now)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCountExpiredUnsent(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "expired@example.com")
	now := time.Now()

	missed := createDeadline(t, db, user.ID, "Missed task", now.Add(-30*time.Minute))
	missedInstance := models.ReminderInstance{DeadlineID: missed.ID, LeadTime: models.Lead1Hour}
	require.NoError(t, db.Create(&missedInstance).Error)

	// A sent instance on a past deadline is delivered work, not a miss.
	delivered := createDeadline(t, db, user.ID, "Delivered task", now.Add(-2*time.Hour))
	sentInstance := models.ReminderInstance{DeadlineID: delivered.ID, LeadTime: models.Lead1Hour, Sent: true}
	require.NoError(t, db.Create(&sentInstance).Error)

	upcoming := createDeadline(t, db, user.ID, "Upcoming task", now.Add(time.Hour))
	upcomingInstance := models.ReminderInstance{DeadlineID: upcoming.ID, LeadTime: models.Lead1Hour}
	require.NoError(t, db.Create(&upcomingInstance).Error)

	// Zero since counts every miss to date.
	count, err := st.CountExpiredUnsent(time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// A window that starts after the miss no longer counts it.
	count, err = st.CountExpiredUnsent(now.Add(-10*time.Minute), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = st.CountExpiredUnsent(now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEnsureDefaultSettings_Idempotent(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "defaults@example.com")

	first, err := st.EnsureDefaultSettings(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, first.Email)
	assert.True(t, first.EmailEnabled)
	assert.False(t, first.SMSEnabled)
	assert.False(t, first.WhatsAppEnabled)
	assert.False(t, first.PushEnabled)

	second, err := st.EnsureDefaultSettings(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat call must return the same row")

	var count int64
	require.NoError(t, db.Model(&models.NotificationSettings{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettings_AllChannelsDisabledPersists(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "optout@example.com")

	// Every flag false must survive the insert; a column default would
	// silently flip email back on.
	settings := models.NotificationSettings{
		UserID: user.ID,
		Email:  user.Email,
	}
	require.NoError(t, db.Create(&settings).Error)

	loaded, err := st.GetSettings(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.False(t, loaded.EmailEnabled)
	assert.False(t, loaded.SMSEnabled)
	assert.False(t, loaded.WhatsAppEnabled)
	assert.False(t, loaded.PushEnabled)
}

func TestCreateReminders(t *testing.T) {
	db := openTestDB(t)
	st := New(db)

	user := createUser(t, db, "create@example.com")
	deadline := createDeadline(t, db, user.ID, "Write brief", time.Now().Add(7*24*time.Hour))

	require.NoError(t, st.CreateReminders(deadline.ID, []string{models.Lead1Day, models.Lead1Week}))

	// Repeating a class is ignored, not duplicated.
	require.NoError(t, st.CreateReminders(deadline.ID, []string{models.Lead1Day}))

	var count int64
	require.NoError(t, db.Model(&models.ReminderInstance{}).
		Where("deadline_id = ?", deadline.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	err := st.CreateReminders(deadline.ID, []string{"5_minutes"})
	require.Error(t, err)
}
