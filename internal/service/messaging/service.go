package messaging

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/db"
	svcErr "github.com/oggyb/photoshare/internal/errors"
	"github.com/oggyb/photoshare/internal/metrics"
	"github.com/oggyb/photoshare/internal/repository"
)

// Service implements two-party direct messaging.
type Service struct {
	appCtx   *app.AppContext
	convRepo *repository.ConversationRepository
	userRepo *repository.UserRepository
}

func NewMessagingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		convRepo: repository.NewConversationRepository(appCtx.DB),
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// ConversationView is one row of the inbox.
type ConversationView struct {
	ID        uint64
	Other     db.User
	UpdatedAt time.Time
}

// ThreadView is a conversation page.
type ThreadView struct {
	Conversation db.Conversation
	Other        db.User
	Messages     []db.Message
}

// GetOrCreateConversation returns the single conversation between a and b.
//
// Behavior:
//   - (a, b) and (b, a) resolve to the same row.
//   - Concurrent first contact still produces exactly one row.
//   - Unknown b → ErrNotFound.
func (s *Service) GetOrCreateConversation(ctx context.Context, a, b uint64) (*db.Conversation, error) {
	if _, err := s.userRepo.GetByID(ctx, b); err != nil {
		return nil, svcErr.Map(err)
	}

	conv, created, err := s.convRepo.GetOrCreate(ctx, a, b)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if created {
		s.appCtx.Logger.Debug("conversation created", "conversation_id", conv.ID, "user1", conv.User1ID, "user2", conv.User2ID)
	}
	return conv, nil
}

// participantConversation loads the conversation and checks membership.
func (s *Service) participantConversation(ctx context.Context, conversationID, userID uint64) (*db.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !conv.Participant(userID) {
		return nil, svcErr.ErrForbidden
	}
	return conv, nil
}

// SendMessage appends a message to a conversation.
//
// Behavior:
//   - Missing conversation → ErrNotFound.
//   - Sender is not one of the two participants → ErrForbidden.
//   - Blank text → ErrEmptyMessage, nothing is stored.
//
// Example:
//
//	msg, err := svc.SendMessage(ctx, conv.ID, me.ID, "hi!")
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID uint64, text string) (*db.Message, error) {
	if _, err := s.participantConversation(ctx, conversationID, senderID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, svcErr.ErrEmptyMessage
	}

	msg := &db.Message{ConversationID: conversationID, SenderID: senderID, Text: text}
	if err := s.convRepo.AddMessage(ctx, msg); err != nil {
		return nil, svcErr.Map(err)
	}
	metrics.MessagesPosted.Inc()
	return msg, nil
}

// ListMessages returns the history oldest first. Only participants may read.
func (s *Service) ListMessages(ctx context.Context, conversationID, viewerID uint64) ([]db.Message, error) {
	if _, err := s.participantConversation(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}
	msgs, err := s.convRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return msgs, nil
}

// ListConversations returns the user's inbox, most recent activity first.
func (s *Service) ListConversations(ctx context.Context, userID uint64) ([]ConversationView, error) {
	convs, err := s.convRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return lo.Map(convs, func(c db.Conversation, _ int) ConversationView {
		return ConversationView{ID: c.ID, Other: c.Other(userID), UpdatedAt: c.UpdatedAt}
	}), nil
}

// Thread opens (creating if needed) the conversation between viewer and
// other and loads its history.
func (s *Service) Thread(ctx context.Context, viewerID, otherID uint64) (*ThreadView, error) {
	conv, err := s.GetOrCreateConversation(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.ListMessages(ctx, conv.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &ThreadView{Conversation: *conv, Other: conv.Other(viewerID), Messages: msgs}, nil
}

// DeleteConversation removes a conversation and its messages atomically.
// Only participants may delete.
func (s *Service) DeleteConversation(ctx context.Context, actorID, conversationID uint64) error {
	if _, err := s.participantConversation(ctx, conversationID, actorID); err != nil {
		return err
	}
	if err := s.convRepo.Delete(ctx, conversationID); err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("conversation deleted", "conversation_id", conversationID, "actor", actorID)
	return nil
}

// DeleteConversationWith deletes the conversation between actor and other,
// if there is one.
func (s *Service) DeleteConversationWith(ctx context.Context, actorID, otherID uint64) error {
	conv, err := s.convRepo.FindByPair(ctx, actorID, otherID)
	if err != nil {
		return svcErr.Map(err)
	}
	return s.DeleteConversation(ctx, actorID, conv.ID)
}
