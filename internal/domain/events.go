package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Change stream operation types.
const (
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpReplace = "replace"
)

type DocumentKey struct {
	ID primitive.ObjectID `bson:"_id"`
}

// ChangeEvent is the subset of a change stream document the notifiers read.
// FullDocument is empty for deletes and for updates whose lookup found nothing.
type ChangeEvent struct {
	OperationType string      `bson:"operationType"`
	DocumentKey   DocumentKey `bson:"documentKey"`
	FullDocument  bson.Raw    `bson:"fullDocument,omitempty"`
}

// Notification kinds.
const (
	KindOrder    = "order"
	KindTable    = "table"
	KindLowStock = "low_stock"
)

// NotificationMessage is published to the notifications exchange for every
// composed notification.
type NotificationMessage struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Recipients []string  `json:"recipients"`
	CreatedAt  time.Time `json:"created_at"`
}

// Delivery is one recorded send attempt.
type Delivery struct {
	NotificationID string    `json:"notification_id"`
	Kind           string    `json:"kind"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Success        bool      `json:"success"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
