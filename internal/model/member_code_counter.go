package model

import "time"

// MemberCodeCounter is a persistent sequence used for member code allocation.
// One row exists per membership type letter plus a single global row counting
// all coded members. Rows are incremented under a row lock so concurrent
// promotions never hand out the same sequence number.
type MemberCodeCounter struct {
	Key       string    `json:"key" gorm:"size:32;primaryKey"`
	Value     int64     `json:"value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
