package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"not null" bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"-"`
}
