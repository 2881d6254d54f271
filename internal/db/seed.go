package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCaptions = []string{
	"Sunset over the harbour",
	"Cats are great",
	"Morning coffee",
	"Trail run before work",
	"New lens, who dis",
	"Street art downtown",
	"My cat judging me",
	"Homemade ramen",
}

// seedTables lists tables in the order they can be cleared without
// violating foreign keys.
var seedTables = []string{"messages", "conversations", "likes", "comments", "follows", "posts", "users"}

// SeedTestData resets the database and populates it with demo content.
//
// Behavior:
//  1. Clears every table.
//  2. Creates 12 users (password "password") with short bios.
//  3. Each user publishes 3 posts spread over the last few days.
//  4. Each user follows ~4 others, likes ~6 posts and leaves a few comments.
//  5. Every user gets one conversation with the next user.
//
// Compatible with MySQL, Postgres and SQLite.
func SeedTestData(db *gorm.DB, log *slog.Logger) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range seedTables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range seedTables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range seedTables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}

	log.Info("cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// --- Users ---
	users := make([]User, 0, 12)
	for i := 1; i <= 12; i++ {
		users = append(users, User{
			Username:     fmt.Sprintf("user%d", i),
			PasswordHash: string(hash),
			Bio:          fmt.Sprintf("Hi, I am user %d.", i),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Info("seeded users", "count", len(users))

	// --- Posts ---
	now := time.Now().UTC()
	var posts []Post
	for _, u := range users {
		for j := 0; j < 3; j++ {
			posts = append(posts, Post{
				UserID:    u.ID,
				ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%d-%d/600/600", u.ID, j),
				Caption:   seedCaptions[r.Intn(len(seedCaptions))],
				CreatedAt: now.Add(-time.Duration(r.Intn(72*60)) * time.Minute),
			})
		}
	}
	if err := db.Omit(clause.Associations).Create(&posts).Error; err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}
	log.Info("seeded posts", "count", len(posts))

	// --- Graph, likes, comments ---
	for _, u := range users {
		for j := 0; j < 4; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			db.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&Follow{FollowerID: u.ID, FollowedID: target.ID})
		}

		for j := 0; j < 6; j++ {
			p := posts[r.Intn(len(posts))]
			db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
				DoNothing: true,
			}).Create(&Like{UserID: u.ID, PostID: p.ID})

			// comment on every third liked post
			if j%3 == 0 {
				c := Comment{UserID: u.ID, PostID: p.ID, Text: "Love this!"}
				if err := db.Omit(clause.Associations).Create(&c).Error; err != nil {
					return fmt.Errorf("failed to seed comment: %w", err)
				}
			}
		}
	}

	// --- Conversations ---
	for i, u := range users {
		other := users[(i+1)%len(users)]
		lo, hi := u.ID, other.ID
		if lo > hi {
			lo, hi = hi, lo
		}
		conv := Conversation{User1ID: lo, User2ID: hi}
		if err := db.Omit(clause.Associations).Create(&conv).Error; err != nil {
			return fmt.Errorf("failed to seed conversation: %w", err)
		}
		msgs := []Message{
			{ConversationID: conv.ID, SenderID: u.ID, Text: "Hey!"},
			{ConversationID: conv.ID, SenderID: other.ID, Text: "Hi there, nice photos."},
		}
		if err := db.Omit(clause.Associations).Create(&msgs).Error; err != nil {
			return fmt.Errorf("failed to seed messages: %w", err)
		}
	}
	log.Info("seeded graph, likes, comments and conversations")

	return nil
}
