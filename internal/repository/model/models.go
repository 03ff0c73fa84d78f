package model

import "time"

type Room struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	Creator   string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// Member is one membership row. The composite key makes joins idempotent
// at the storage level.
type Member struct {
	RoomID    int64  `gorm:"primaryKey;autoIncrement:false"`
	Member    string `gorm:"primaryKey;size:255"`
	CreatedAt time.Time
}

type Message struct {
	ID     int64     `gorm:"primaryKey;autoIncrement:false"`
	RoomID int64     `gorm:"index;not null"`
	Author string    `gorm:"size:255;not null"`
	Text   string    `gorm:"type:text"`
	Image  string    `gorm:"size:2048"`
	Time   time.Time `gorm:"index;not null"`
}

type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Title     string    `gorm:"size:255;not null"`
	Author    string    `gorm:"size:255;not null"`
	Content   string    `gorm:"type:text"`
	Category  string    `gorm:"size:64;index"`
	Likes     int       `gorm:"not null;default:0"`
	Solved    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	PostID    int64  `gorm:"index;not null"`
	Author    string `gorm:"size:255;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Username  string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"size:255;not null"`
	Role      string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
