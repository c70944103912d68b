package model

import (
	"time"

	"github.com/google/uuid"
)

// Catalog entities are thin pass-through records over the document
// store; business rules live in the catalog usecase.

type Province struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type City struct {
	ID         uuid.UUID
	ProvinceID uuid.UUID
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Place struct {
	ID          uuid.UUID
	CityID      uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
