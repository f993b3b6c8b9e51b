package message_test

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
	"github.com/fahrizalm/staffdesk/internal/message"
)

func TestMessageService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Message Service Suite")
}

// Mock repository for testing
type mockMessageRepository struct {
	messages map[int64]*message.Message
	nextID   int64
}

func newMockMessageRepository() *mockMessageRepository {
	return &mockMessageRepository{
		messages: make(map[int64]*message.Message),
		nextID:   1,
	}
}

func (m *mockMessageRepository) Create(msg *message.Message) error {
	msg.ID = m.nextID
	m.nextID++
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageRepository) MarkRead(id, receiverID int64, readAt time.Time) error {
	msg, ok := m.messages[id]
	if !ok || msg.ReceiverID != receiverID || msg.ReadAt != nil {
		return internal.ErrCannotMarkRead
	}
	msg.ReadAt = &readAt
	return nil
}

func (m *mockMessageRepository) Inbox(receiverID int64, limit int) ([]*message.Message, error) {
	var out []*message.Message
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepository) Sent(senderID int64, limit int) ([]*message.Message, error) {
	var out []*message.Message
	for _, msg := range m.messages {
		if msg.SenderID == senderID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type mockDirectory struct {
	accounts map[string]*account.Account
	// password accepted by VerifyPassword per account id
	passwords map[int64]string
}

func (m *mockDirectory) GetByUsername(username string) (*account.Account, error) {
	acc, ok := m.accounts[username]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	return acc, nil
}

func (m *mockDirectory) VerifyPassword(accountID int64, password string) (bool, error) {
	return m.passwords[accountID] == password, nil
}

type recordedEntry struct {
	Action string
	Detail string
}

type mockAuditor struct {
	entries []recordedEntry
}

func (m *mockAuditor) Record(actor *audit.Actor, action, entityType, entityID, detail string) {
	m.entries = append(m.entries, recordedEntry{action, detail})
}

func (m *mockAuditor) RecordSystem(action, entityType, entityID, detail string) {
	m.Record(nil, action, entityType, entityID, detail)
}

var _ = Describe("MessageService", func() {
	var (
		svc      *message.Service
		mockRepo *mockMessageRepository
		dir      *mockDirectory
		auditor  *mockAuditor
		sender   *account.Session
		receiver *account.Session
	)

	BeforeEach(func() {
		mockRepo = newMockMessageRepository()
		dir = &mockDirectory{
			accounts: map[string]*account.Account{
				"alice": {ID: 1, Username: "alice", Role: account.RoleEmployee},
				"bob":   {ID: 2, Username: "bob", Role: account.RoleEmployee},
			},
			passwords: map[int64]string{1: "alicepw", 2: "bobpw"},
		}
		auditor = &mockAuditor{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = message.NewService(mockRepo, dir, dir, auditor, logger)
		sender = &account.Session{ID: 1, Username: "alice", Role: account.RoleEmployee}
		receiver = &account.Session{ID: 2, Username: "bob", Role: account.RoleEmployee}
	})

	Describe("Send", func() {
		It("should deliver after a fresh password check", func() {
			msg, err := svc.Send(sender, "alicepw", "bob", "hello")

			Expect(err).ToNot(HaveOccurred())
			Expect(msg.SenderID).To(Equal(int64(1)))
			Expect(msg.ReceiverID).To(Equal(int64(2)))
			Expect(msg.IsRead()).To(BeFalse())
			Expect(auditor.entries[0].Action).To(Equal(audit.ActionSendMessage))
			Expect(auditor.entries[0].Detail).To(Equal("to=bob"))
		})

		It("should refuse when re-authentication fails", func() {
			_, err := svc.Send(sender, "wrong", "bob", "hello")

			Expect(err).To(Equal(internal.ErrBadCredential))
			Expect(mockRepo.messages).To(BeEmpty())
			Expect(auditor.entries).To(BeEmpty())
		})

		It("should refuse an unknown receiver", func() {
			_, err := svc.Send(sender, "alicepw", "ghost", "hello")

			Expect(err).To(Equal(internal.ErrAccountNotFound))
		})

		It("should refuse a blank body before touching the credential", func() {
			_, err := svc.Send(sender, "wrong", "bob", "   ")

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should allow sending to oneself", func() {
			msg, err := svc.Send(sender, "alicepw", "alice", "note to self")

			Expect(err).ToNot(HaveOccurred())
			Expect(msg.ReceiverID).To(Equal(msg.SenderID))
		})
	})

	Describe("MarkRead", func() {
		var msg *message.Message

		BeforeEach(func() {
			var err error
			msg, err = svc.Send(sender, "alicepw", "bob", "hello")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should set the read instant once", func() {
			err := svc.MarkRead(receiver, msg.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(msg.IsRead()).To(BeTrue())
			Expect(auditor.entries[1].Action).To(Equal(audit.ActionReadMessage))
		})

		It("should refuse a second mark with the same opaque error", func() {
			Expect(svc.MarkRead(receiver, msg.ID)).To(Succeed())
			first := *msg.ReadAt

			err := svc.MarkRead(receiver, msg.ID)

			Expect(err).To(Equal(internal.ErrCannotMarkRead))
			Expect(*msg.ReadAt).To(Equal(first))
		})

		It("should refuse anyone but the receiver", func() {
			err := svc.MarkRead(sender, msg.ID)

			Expect(err).To(Equal(internal.ErrCannotMarkRead))
			Expect(msg.IsRead()).To(BeFalse())
		})

		It("should refuse a missing message", func() {
			err := svc.MarkRead(receiver, 999)

			Expect(err).To(Equal(internal.ErrCannotMarkRead))
		})
	})
})
