package uc

import (
	"context"
	"fmt"

	"github.com/meetly/meetly/engine/booking/model"
	"github.com/meetly/meetly/engine/core"
)

// ListRooms use case for listing the bookable rooms
type ListRooms struct {
	repo Repository
}

// NewListRooms creates a new list rooms use case
func NewListRooms(repo Repository) *ListRooms {
	return &ListRooms{repo: repo}
}

// Execute lists all rooms ordered by name
func (uc *ListRooms) Execute(ctx context.Context) ([]*model.Room, error) {
	rooms, err := uc.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing rooms: %v", core.ErrUnavailable, err)
	}
	return rooms, nil
}
