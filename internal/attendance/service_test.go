package attendance_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/attendance"
	"github.com/fahrizalm/staffdesk/internal/audit"
)

func TestAttendanceService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Service Suite")
}

type dayKey struct {
	userID int64
	date   string
}

// Mock repository for testing
type mockAttendanceRepository struct {
	records map[dayKey]*attendance.Record
	nextID  int64
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{
		records: make(map[dayKey]*attendance.Record),
		nextID:  1,
	}
}

func key(userID int64, workDate time.Time) dayKey {
	return dayKey{userID: userID, date: workDate.Format("2006-01-02")}
}

func (m *mockAttendanceRepository) SetClockIn(userID int64, workDate, now time.Time) error {
	k := key(userID, workDate)
	if rec, exists := m.records[k]; exists {
		if rec.ClockIn != nil {
			return internal.ErrAlreadyClockedIn
		}
		rec.ClockIn = &now
		return nil
	}
	m.records[k] = &attendance.Record{
		ID:       m.nextID,
		UserID:   userID,
		WorkDate: workDate,
		ClockIn:  &now,
	}
	m.nextID++
	return nil
}

func (m *mockAttendanceRepository) SetClockOut(userID int64, workDate, now time.Time) error {
	rec, exists := m.records[key(userID, workDate)]
	if !exists || rec.ClockIn == nil {
		return internal.ErrNotClockedIn
	}
	if rec.ClockOut != nil {
		return internal.ErrAlreadyClockedOut
	}
	rec.ClockOut = &now
	return nil
}

func (m *mockAttendanceRepository) GetByUserAndDate(userID int64, workDate time.Time) (*attendance.Record, error) {
	rec, exists := m.records[key(userID, workDate)]
	if !exists {
		return nil, nil
	}
	return rec, nil
}

func (m *mockAttendanceRepository) RecentByUser(userID int64, limit int) ([]*attendance.Record, error) {
	var out []*attendance.Record
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordedEntry struct {
	Actor    *audit.Actor
	Action   string
	EntityID string
}

type mockAuditor struct {
	entries []recordedEntry
}

func (m *mockAuditor) Record(actor *audit.Actor, action, entityType, entityID, detail string) {
	m.entries = append(m.entries, recordedEntry{actor, action, entityID})
}

func (m *mockAuditor) RecordSystem(action, entityType, entityID, detail string) {
	m.Record(nil, action, entityType, entityID, detail)
}

var _ = Describe("AttendanceService", func() {
	var (
		svc      *attendance.Service
		mockRepo *mockAttendanceRepository
		auditor  *mockAuditor
		session  *account.Session
		morning  time.Time
	)

	BeforeEach(func() {
		mockRepo = newMockAttendanceRepository()
		auditor = &mockAuditor{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = attendance.NewService(mockRepo, auditor, logger)
		session = &account.Session{ID: 7, Username: "emp", Role: account.RoleEmployee}
		morning = time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	})

	Describe("ClockIn", func() {
		It("should record the first punch of the day", func() {
			rec, err := svc.ClockIn(session, morning)

			Expect(err).ToNot(HaveOccurred())
			Expect(rec.ClockedIn()).To(BeTrue())
			Expect(rec.WorkDate).To(Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
			Expect(auditor.entries).To(HaveLen(1))
			Expect(auditor.entries[0].Action).To(Equal(audit.ActionClockIn))
			Expect(auditor.entries[0].EntityID).To(Equal("7:2026-03-09"))
		})

		It("should reject a second punch on the same day", func() {
			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ClockIn(session, morning.Add(2*time.Hour))

			Expect(err).To(Equal(internal.ErrAlreadyClockedIn))
			Expect(auditor.entries).To(HaveLen(1))
		})

		It("should allow a punch on the next day", func() {
			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ClockIn(session, morning.AddDate(0, 0, 1))

			Expect(err).ToNot(HaveOccurred())
		})

		It("should keep punches of different users independent", func() {
			other := &account.Session{ID: 8, Username: "other", Role: account.RoleEmployee}

			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.ClockIn(other, morning)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("ClockOut", func() {
		It("should complete the day", func() {
			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())

			rec, err := svc.ClockOut(session, morning.Add(9*time.Hour))

			Expect(err).ToNot(HaveOccurred())
			Expect(rec.ClockedOut()).To(BeTrue())
			Expect(auditor.entries[1].Action).To(Equal(audit.ActionClockOut))
		})

		It("should fail without a prior clock-in", func() {
			_, err := svc.ClockOut(session, morning)

			Expect(err).To(Equal(internal.ErrNotClockedIn))
		})

		It("should reject a second clock-out", func() {
			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())
			_, err = svc.ClockOut(session, morning.Add(8*time.Hour))
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ClockOut(session, morning.Add(10*time.Hour))

			Expect(err).To(Equal(internal.ErrAlreadyClockedOut))
		})

		It("should reject a clock-out before the clock-in instant", func() {
			_, err := svc.ClockIn(session, morning)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ClockOut(session, morning.Add(-time.Minute))

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
