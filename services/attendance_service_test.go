package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"attendbot/constants"
	"attendbot/dto"
	apperrors "attendbot/errors"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) SendMessage(message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

type attendanceFixture struct {
	store    *memStore
	clock    *quartz.Mock
	calendar *Calendar
	notifier *recordingNotifier
	service  *AttendanceService
	loc      *time.Location
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 3, 4, 9, 0, 0, 0, loc))

	f := &attendanceFixture{
		store:    newMemStore(),
		clock:    clock,
		calendar: NewCalendar(clock, loc),
		notifier: &recordingNotifier{},
		loc:      loc,
	}
	f.service = NewAttendanceService(AttendanceServiceOptions{
		Store:    f.store,
		Calendar: f.calendar,
		Notifier: f.notifier,
	})
	return f
}

func (f *attendanceFixture) at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 4, hour, min, sec, 0, f.loc)
}

func TestRecordCheckInTwiceSameDay(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 1, UserName: "An", ChatID: 100}

	first := f.at(9, 0, 0)
	res, err := f.service.RecordCheckIn(ctx, from, first)
	require.NoError(t, err)
	assert.Equal(t, constants.EventKindCheckIn, res.Kind)
	assert.True(t, first.Equal(res.CheckInTime))

	f.clock.Set(f.at(9, 5, 0))
	_, err = f.service.RecordCheckIn(ctx, from, f.at(9, 5, 0))
	require.ErrorIs(t, err, apperrors.ErrAlreadyCheckedIn)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr.At)
	assert.True(t, first.Equal(*appErr.At))

	assert.Equal(t, 1, f.store.countEvents(1, constants.EventKindCheckIn))
}

func TestRecordCheckOutWithoutCheckIn(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.service.RecordCheckOut(context.Background(), Sender{UserID: 1}, f.at(17, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrNoCheckInYet)
	assert.Equal(t, 0, f.store.countEvents(1, constants.EventKindCheckOut))

	day, err := f.store.FindDaySummary(context.Background(), f.calendar.Today())
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestRecordCheckOutComputesDurationAndSummary(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 7, UserName: "Binh", ChatID: 70}

	_, err := f.service.RecordCheckIn(ctx, from, f.at(9, 0, 0))
	require.NoError(t, err)

	f.clock.Set(f.at(17, 30, 0))
	res, err := f.service.RecordCheckOut(ctx, from, f.at(17, 30, 0))
	require.NoError(t, err)
	assert.Equal(t, 510, res.TotalMinutes)
	assert.Equal(t, "8h30m", res.Duration)
	require.NotNil(t, res.CheckOutTime)
	assert.True(t, f.at(17, 30, 0).Equal(*res.CheckOutTime))

	assert.Equal(t, 1, f.store.countEvents(7, constants.EventKindCheckOut))

	day, err := f.store.FindDaySummary(ctx, f.calendar.Today())
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Len(t, day.Entries, 1)
	entry := day.Entries[0]
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, "Binh", entry.UserName)
	assert.Equal(t, 510, entry.TotalMinutes)
	assert.True(t, f.at(9, 0, 0).Equal(entry.CheckInTime))
	assert.True(t, f.at(17, 30, 0).Equal(entry.CheckOutTime))

	// check-in và check-out đều được phát lên websocket
	assert.Len(t, f.notifier.messages, 2)
}

func TestRecordCheckOutTwiceKeepsSummary(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 7, UserName: "Binh"}

	_, err := f.service.RecordCheckIn(ctx, from, f.at(9, 0, 0))
	require.NoError(t, err)
	f.clock.Set(f.at(17, 30, 0))
	_, err = f.service.RecordCheckOut(ctx, from, f.at(17, 30, 0))
	require.NoError(t, err)

	f.clock.Set(f.at(18, 0, 0))
	_, err = f.service.RecordCheckOut(ctx, from, f.at(18, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrAlreadyCheckedOut)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr.At)
	assert.True(t, f.at(17, 30, 0).Equal(*appErr.At))

	entries, err := f.store.FindSummaryEntries(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 510, entries[0].TotalMinutes)
	assert.True(t, f.at(17, 30, 0).Equal(entries[0].CheckOutTime))
}

func TestRecordCheckOutIgnoresYesterdaysCheckIn(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 3}

	_, err := f.service.RecordCheckIn(ctx, from, f.at(9, 0, 0))
	require.NoError(t, err)

	tomorrow := f.at(9, 0, 0).AddDate(0, 0, 1)
	f.clock.Set(tomorrow)
	_, err = f.service.RecordCheckOut(ctx, from, tomorrow)
	require.ErrorIs(t, err, apperrors.ErrNoCheckInYet)
}

func TestRecordCheckOutBeforeCheckInTime(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 5}

	_, err := f.service.RecordCheckIn(ctx, from, f.at(10, 0, 0))
	require.NoError(t, err)

	// tin nhắn check-out đến trễ nhưng có thời điểm gửi sớm hơn check-in
	f.clock.Set(f.at(10, 1, 0))
	_, err = f.service.RecordCheckOut(ctx, from, f.at(9, 59, 0))
	require.ErrorIs(t, err, apperrors.ErrInvalidInterval)
	assert.Equal(t, 0, f.store.countEvents(5, constants.EventKindCheckOut))
}

func TestRecordStoreFailure(t *testing.T) {
	f := newAttendanceFixture(t)
	f.store.failErr = errors.New("connection refused")

	_, err := f.service.RecordCheckIn(context.Background(), Sender{UserID: 1}, f.at(9, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	_, err = f.service.RecordCheckOut(context.Background(), Sender{UserID: 1}, f.at(9, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestConcurrentCheckInSameUser(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 9}

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.RecordCheckIn(ctx, from, f.at(9, 0, 0))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for err := range results {
		if err == nil {
			accepted++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, f.store.countEvents(9, constants.EventKindCheckIn))
}

func TestConcurrentCheckOutDifferentUsers(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	users := []Sender{{UserID: 11, UserName: "Chi"}, {UserID: 12, UserName: "Dung"}}
	for _, u := range users {
		_, err := f.service.RecordCheckIn(ctx, u, f.at(8, 0, 0))
		require.NoError(t, err)
	}

	f.clock.Set(f.at(17, 0, 0))
	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, u Sender) {
			defer wg.Done()
			_, errs[i] = f.service.RecordCheckOut(ctx, u, f.at(17, 0, 0))
		}(i, u)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	day, err := f.store.FindDaySummary(ctx, f.calendar.Today())
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Len(t, day.Entries, 2)
	assert.Equal(t, int64(11), day.Entries[0].UserID)
	assert.Equal(t, int64(12), day.Entries[1].UserID)
}

func TestOpenSessions(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordCheckIn(ctx, Sender{UserID: 1}, f.at(9, 0, 0))
	require.NoError(t, err)
	_, err = f.service.RecordCheckIn(ctx, Sender{UserID: 2}, f.at(9, 0, 0))
	require.NoError(t, err)
	f.clock.Set(f.at(12, 0, 0))
	_, err = f.service.RecordCheckOut(ctx, Sender{UserID: 2}, f.at(12, 0, 0))
	require.NoError(t, err)

	open, err := f.service.OpenSessions(ctx, f.at(23, 0, 0))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(1), open[0].UserID)
}

func TestRecordCheckOutRollsBackWhenSummaryFails(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	from := Sender{UserID: 8, UserName: "Hoa"}

	_, err := f.service.RecordCheckIn(ctx, from, f.at(9, 0, 0))
	require.NoError(t, err)

	f.clock.Set(f.at(17, 0, 0))
	f.store.setUpsertErr(errors.New("disk full"))
	_, err = f.service.RecordCheckOut(ctx, from, f.at(17, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	// event check-out không được giữ lại khi tổng hợp lỗi
	assert.Equal(t, 0, f.store.countEvents(8, constants.EventKindCheckOut))
	entries, err := f.store.FindSummaryEntries(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, entries)

	f.store.setUpsertErr(nil)
	f.clock.Set(f.at(17, 5, 0))
	res, err := f.service.RecordCheckOut(ctx, from, f.at(17, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, 485, res.TotalMinutes)
	assert.Equal(t, 1, f.store.countEvents(8, constants.EventKindCheckOut))

	entries, err = f.store.FindSummaryEntries(ctx, 8)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 485, entries[0].TotalMinutes)
}

func TestCheckInDuplicateKeyWithoutStoredRecord(t *testing.T) {
	f := newAttendanceFixture(t)
	f.store.insertErr = gorm.ErrDuplicatedKey

	_, err := f.service.RecordCheckIn(context.Background(), Sender{UserID: 4}, f.at(9, 0, 0))
	require.ErrorIs(t, err, apperrors.ErrAlreadyCheckedIn)
	assert.Nil(t, apperrors.GetAppError(err).At)
}

func TestSummaryReadDuringCheckOutIsNotCached(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	cache := NewRedisSummaryCache(rdb, time.Minute)

	summaries := NewSummaryService(SummaryServiceOptions{Store: f.store, Calendar: f.calendar, Cache: cache})
	svc := NewAttendanceService(AttendanceServiceOptions{Store: f.store, Calendar: f.calendar, Summaries: summaries})
	q := NewSummaryQueryService(SummaryQueryOptions{Store: f.store, Cache: cache, Calendar: f.calendar})

	from := Sender{UserID: 21, UserName: "Giang"}
	_, err := svc.RecordCheckIn(ctx, from, f.at(9, 0, 0))
	require.NoError(t, err)

	loaded := make(chan struct{})
	resume := make(chan struct{})
	var once sync.Once
	f.store.afterFindEntries = func() {
		once.Do(func() {
			close(loaded)
			<-resume
		})
	}

	early := make(chan []dto.SummaryRow, 1)
	go func() {
		rows, err := q.ForUser(ctx, 21, nil)
		assert.NoError(t, err)
		early <- rows
	}()

	<-loaded
	f.clock.Set(f.at(17, 30, 0))
	_, err = svc.RecordCheckOut(ctx, from, f.at(17, 30, 0))
	require.NoError(t, err)
	close(resume)
	assert.Empty(t, <-early)

	rows, err := q.ForUser(ctx, 21, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "8h30m", rows[0].TotalDuration)
}
