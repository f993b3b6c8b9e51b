package mental_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
	"github.com/fahrizalm/staffdesk/internal/mental"
)

func TestMentalService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mental Service Suite")
}

type dayKey struct {
	userID int64
	date   string
}

// Mock repository for testing
type mockCheckinRepository struct {
	checkins map[dayKey]*mental.Checkin
	nextID   int64
}

func newMockCheckinRepository() *mockCheckinRepository {
	return &mockCheckinRepository{
		checkins: make(map[dayKey]*mental.Checkin),
		nextID:   1,
	}
}

func (m *mockCheckinRepository) Upsert(checkin *mental.Checkin) (bool, error) {
	k := dayKey{checkin.UserID, checkin.CheckDate.Format("2006-01-02")}
	if existing, ok := m.checkins[k]; ok {
		existing.Score = checkin.Score
		existing.Comment = checkin.Comment
		checkin.ID = existing.ID
		return false, nil
	}
	checkin.ID = m.nextID
	m.nextID++
	m.checkins[k] = checkin
	return true, nil
}

func (m *mockCheckinRepository) RecentByUser(userID int64, limit int) ([]*mental.Checkin, error) {
	var out []*mental.Checkin
	for _, c := range m.checkins {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockDirectory struct {
	accounts map[string]*account.Account
}

func (m *mockDirectory) GetByUsername(username string) (*account.Account, error) {
	acc, ok := m.accounts[username]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	return acc, nil
}

type recordedEntry struct {
	Action   string
	EntityID string
}

type mockAuditor struct {
	entries []recordedEntry
}

func (m *mockAuditor) Record(actor *audit.Actor, action, entityType, entityID, detail string) {
	m.entries = append(m.entries, recordedEntry{action, entityID})
}

func (m *mockAuditor) RecordSystem(action, entityType, entityID, detail string) {
	m.Record(nil, action, entityType, entityID, detail)
}

var _ = Describe("MentalService", func() {
	var (
		svc      *mental.Service
		mockRepo *mockCheckinRepository
		auditor  *mockAuditor
		session  *account.Session
		noon     time.Time
	)

	BeforeEach(func() {
		mockRepo = newMockCheckinRepository()
		auditor = &mockAuditor{}
		dir := &mockDirectory{accounts: map[string]*account.Account{
			"emp":   {ID: 7, Username: "emp", Role: account.RoleEmployee},
			"other": {ID: 8, Username: "other", Role: account.RoleEmployee},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = mental.NewService(mockRepo, dir, auditor, logger)
		session = &account.Session{ID: 7, Username: "emp", Role: account.RoleEmployee}
		noon = time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	})

	Describe("Upsert", func() {
		It("should create the first entry of the day", func() {
			checkin, err := svc.Upsert(session, 4, "fine", noon)

			Expect(err).ToNot(HaveOccurred())
			Expect(checkin.Score).To(Equal(4))
			Expect(*checkin.Comment).To(Equal("fine"))
			Expect(auditor.entries[0].Action).To(Equal(audit.ActionCreateMental))
			Expect(auditor.entries[0].EntityID).To(Equal("7:2026-03-09"))
		})

		It("should overwrite the same day's entry instead of appending", func() {
			_, err := svc.Upsert(session, 4, "fine", noon)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.Upsert(session, 2, "worse", noon.Add(5*time.Hour))
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.checkins).To(HaveLen(1))
			stored := mockRepo.checkins[dayKey{7, "2026-03-09"}]
			Expect(stored.Score).To(Equal(2))
			Expect(*stored.Comment).To(Equal("worse"))
			Expect(auditor.entries[1].Action).To(Equal(audit.ActionUpdateMental))
		})

		It("should store a blank comment as absent", func() {
			checkin, err := svc.Upsert(session, 3, "   ", noon)

			Expect(err).ToNot(HaveOccurred())
			Expect(checkin.Comment).To(BeNil())
		})

		It("should start a new entry on the next day", func() {
			_, err := svc.Upsert(session, 4, "", noon)
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.Upsert(session, 5, "", noon.AddDate(0, 0, 1))
			Expect(err).ToNot(HaveOccurred())

			Expect(mockRepo.checkins).To(HaveLen(2))
		})
	})

	Describe("RecentForAccount", func() {
		BeforeEach(func() {
			_, err := svc.Upsert(session, 4, "", noon)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should let the owner view their own history", func() {
			checkins, err := svc.RecentForAccount(session, "emp", 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(checkins).To(HaveLen(1))
		})

		It("should let an admin view anyone's history", func() {
			admin := &account.Session{ID: 1, Username: "boss", Role: account.RoleAdmin}

			checkins, err := svc.RecentForAccount(admin, "emp", 10)

			Expect(err).ToNot(HaveOccurred())
			Expect(checkins).To(HaveLen(1))
		})

		It("should deny another employee", func() {
			other := &account.Session{ID: 8, Username: "other", Role: account.RoleEmployee}

			_, err := svc.RecentForAccount(other, "emp", 10)

			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})
	})
})
