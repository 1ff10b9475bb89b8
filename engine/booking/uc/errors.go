package uc

import "errors"

// ErrRoomNotFound is returned when a room id is unknown
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking id is unknown
var ErrBookingNotFound = errors.New("booking not found")

// ErrOverlap is returned by the repository when the store rejects a
// booking that overlaps an existing one for the same room
var ErrOverlap = errors.New("booking overlaps an existing booking")

// ErrSerialization is returned by the repository when the store aborted
// the transaction due to concurrent activity and the operation can be
// retried safely
var ErrSerialization = errors.New("transaction serialization failure")
