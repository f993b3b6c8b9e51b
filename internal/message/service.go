package message

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	"github.com/fahrizalm/staffdesk/internal/audit"
)

// Repository defines the data access methods for messages.
type Repository interface {
	Create(msg *Message) error
	// MarkRead sets read_at once; it returns internal.ErrCannotMarkRead
	// when the message does not exist, belongs to another receiver, or is
	// already read.
	MarkRead(id, receiverID int64, readAt time.Time) error
	Inbox(receiverID int64, limit int) ([]*Message, error)
	Sent(senderID int64, limit int) ([]*Message, error)
}

// PasswordVerifier is the fresh re-authentication check required before
// sending. Implemented by the account service.
type PasswordVerifier interface {
	VerifyPassword(accountID int64, password string) (bool, error)
}

// AccountLookup resolves the receiving account by its username. The
// account repository satisfies it.
type AccountLookup interface {
	GetByUsername(username string) (*account.Account, error)
}

type Service struct {
	repo     Repository
	accounts AccountLookup
	verifier PasswordVerifier
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(repo Repository, accounts AccountLookup, verifier PasswordVerifier, auditor audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		verifier: verifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// Send delivers a message after a fresh password check. Sessions are
// long-lived console sessions, so sending re-authenticates instead of
// trusting the session.
func (s *Service) Send(session *account.Session, password, receiverUsername, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, internal.NewValidationError("message body must not be empty", internal.ErrCodeValidationFailed)
	}

	ok, err := s.verifier.VerifyPassword(session.ID, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn("message send denied: re-authentication failed", "account_id", session.ID)
		return nil, internal.ErrBadCredential
	}

	receiver, err := s.accounts.GetByUsername(receiverUsername)
	if err != nil {
		s.logger.Warn("message send failed: unknown receiver", "receiver", receiverUsername)
		return nil, err
	}

	msg := &Message{
		SenderID:   session.ID,
		ReceiverID: receiver.ID,
		Body:       body,
		SentAt:     time.Now(),
	}
	if err := s.repo.Create(msg); err != nil {
		s.logger.Error("failed to store message", "error", err, "sender_id", session.ID)
		return nil, err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionSendMessage, "messages",
		fmt.Sprint(msg.ID), "to="+receiver.Username)

	s.logger.Info("message sent", "message_id", msg.ID, "sender_id", session.ID, "receiver_id", receiver.ID)
	return msg, nil
}

// MarkRead records the read instant exactly once. Only the receiver may
// mark a message, and a set read_at is never overwritten; all failure
// causes collapse into the same opaque outcome.
func (s *Service) MarkRead(session *account.Session, messageID int64) error {
	if err := s.repo.MarkRead(messageID, session.ID, time.Now()); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeCannotMarkRead {
			s.logger.Warn("message not updatable", "message_id", messageID, "account_id", session.ID)
		} else {
			s.logger.Error("failed to mark message read", "error", err, "message_id", messageID)
		}
		return err
	}

	s.auditor.Record(session.AuditActor(), audit.ActionReadMessage, "messages", fmt.Sprint(messageID), "")
	return nil
}

// Inbox lists received messages, newest first.
func (s *Service) Inbox(session *account.Session, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Inbox(session.ID, limit)
}

// Sent lists sent messages, newest first.
func (s *Service) Sent(session *account.Session, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Sent(session.ID, limit)
}
