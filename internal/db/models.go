package db

import (
	"time"
)

// DefaultProfilePicture is shown until a user sets their own.
const DefaultProfilePicture = "/static/images/default_profile.png"

// User table
type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"uniqueIndex;size:80;not null"`
	PasswordHash   string    `gorm:"size:255;not null"`
	Bio            string    `gorm:"type:text"`
	ProfilePicture string    `gorm:"size:200"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Picture returns the profile picture, falling back to the default image.
func (u User) Picture() string {
	if u.ProfilePicture == "" {
		return DefaultProfilePicture
	}
	return u.ProfilePicture
}

// Post is an image with an optional caption.
//
// Indexes:
//   - idx_post_user_created(user_id, created_at) serves profile pages and the
//     "own posts" half of the feed.
//   - idx_post_created(created_at) serves feed/search ordering.
type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ImageURL  string    `gorm:"size:200;not null"`
	Caption   string    `gorm:"type:text"`
	UserID    uint64    `gorm:"not null;index:idx_post_user_created,priority:1"`
	Author    User      `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_post_user_created,priority:2;index:idx_post_created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Comments []Comment `gorm:"foreignKey:PostID"`
}

// Comment on a post. Text is never empty.
type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Text      string    `gorm:"type:text;not null"`
	UserID    uint64    `gorm:"not null"`
	Author    User      `gorm:"foreignKey:UserID"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comment_post_created,priority:2"`
}

// Like marks that a user liked a post.
//
// Unique index idx_like_user_post(user_id, post_id) guarantees at most one
// row per pair, which is what makes concurrent toggles safe.
type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_like_user_post,priority:1"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_like_user_post,priority:2;index:idx_like_post"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Follow is a directed edge follower -> followed.
//
// Composite PK: (FollowerID, FollowedID)
//   - No duplicate edge for the same ordered pair.
//   - idx_follow_followed(followed_id) serves follower counts.
type Follow struct {
	FollowerID uint64    `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_follow_followed"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Conversation between two users.
//
// The pair is stored canonically (User1ID <= User2ID) and is unique, so there
// is at most one conversation for any two users regardless of who wrote first.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_conversation_pair,priority:2;index:idx_conversation_user2"`
	User1     User      `gorm:"foreignKey:User1ID"`
	User2     User      `gorm:"foreignKey:User2ID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Participant reports whether userID is one of the two ends.
func (c Conversation) Participant(userID uint64) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID uint64) User {
	if c.User1ID == userID {
		return c.User2
	}
	return c.User1
}

// Message in a conversation. Immutable once written.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"not null;index:idx_message_conversation_created,priority:1"`
	SenderID       uint64    `gorm:"not null"`
	Sender         User      `gorm:"foreignKey:SenderID"`
	Text           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_message_conversation_created,priority:2"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&User{}, &Post{}, &Comment{}, &Like{}, &Follow{}, &Conversation{}, &Message{}}
}
