package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/oggyb/photoshare/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository stores two-party conversations and their messages.
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(database *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

// CanonicalPair orders two user IDs so the smaller one comes first.
func CanonicalPair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetOrCreate returns the conversation between a and b, creating it if
// needed. The bool reports whether this call created it.
//
// Behavior:
//   - The pair is canonicalized, so (a, b) and (b, a) hit the same row.
//   - Creation is INSERT ... ON CONFLICT DO NOTHING against the unique pair
//     index; losing a race simply re-reads the winner's row.
//
// Example:
//
//	conv, created, err := repo.GetOrCreate(ctx, 7, 3) // stored as (3, 7)
func (r *ConversationRepository) GetOrCreate(ctx context.Context, a, b uint64) (*db.Conversation, bool, error) {
	lo, hi := CanonicalPair(a, b)

	conv, err := r.FindByPair(ctx, lo, hi)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	fresh := db.Conversation{User1ID: lo, User2ID: hi}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(&fresh)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create conversation %d/%d: %w", lo, hi, res.Error)
	}

	// re-read either way so participants are loaded
	conv, err = r.FindByPair(ctx, lo, hi)
	if err != nil {
		return nil, false, err
	}
	return conv, res.RowsAffected > 0, nil
}

// FindByPair returns the conversation between a and b in either order, or
// gorm.ErrRecordNotFound.
func (r *ConversationRepository) FindByPair(ctx context.Context, a, b uint64) (*db.Conversation, error) {
	lo, hi := CanonicalPair(a, b)
	var conv db.Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? AND user2_id = ?", lo, hi).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetByID loads a conversation with both participants.
func (r *ConversationRepository) GetByID(ctx context.Context, id uint64) (*db.Conversation, error) {
	var conv db.Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		First(&conv, id).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser returns the user's conversations, most recently active first.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Conversation, error) {
	var convs []db.Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	return convs, err
}

// AddMessage appends a message and bumps the conversation's activity time.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(msg).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return tx.Model(&db.Conversation{}).
			Where("id = ?", msg.ConversationID).
			UpdateColumn("updated_at", msg.CreatedAt).Error
	})
}

// ListMessages returns the conversation history in chronological order.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// Delete removes the conversation and all its messages in one transaction.
func (r *ConversationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&db.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages of conversation %d: %w", id, err)
		}
		res := tx.Where("id = ?", id).Delete(&db.Conversation{})
		if res.Error != nil {
			return fmt.Errorf("delete conversation %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
