package models

import "time"

// Event is an audit entry written for every webhook delivery we act on.
type Event struct {
	TimeStamp time.Time `json:"timestamp" bson:"timestamp"`

	Action string `bson:"action" json:"action"`

	DeliveryID string `bson:"deliveryID" json:"deliveryID"`
	Repository string `bson:"repository" json:"repository"`

	SHA string `bson:"sha,omitempty" json:"sha,omitempty"`

	Props map[string]any `bson:"props" json:"props"`
}
