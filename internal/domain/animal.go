package domain

import (
	"time"
)

type AnimalSex string

const (
	AnimalSexMale   AnimalSex = "male"
	AnimalSexFemale AnimalSex = "female"
)

func AnimalSexes() []AnimalSex {
	return []AnimalSex{AnimalSexMale, AnimalSexFemale}
}

type Species struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Breed struct {
	ID        int64  `json:"id"`
	SpeciesID int64  `json:"species_id"`
	Name      string `json:"name"`
}

type Animal struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Name        string     `json:"name"`
	SpeciesID   int64      `json:"species_id"`
	BreedID     *int64     `json:"breed_id"`
	Sex         AnimalSex  `json:"sex"`
	BirthDate   *time.Time `json:"birth_date"`
	WeightKg    *float64   `json:"weight_kg"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	SpeciesName string     `json:"species_name,omitempty"`
	BreedName   string     `json:"breed_name,omitempty"`
	OwnerName   string     `json:"owner_name,omitempty"`
}

type CreateAnimalDTO struct {
	OwnerID   int64      `json:"owner_id" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	SpeciesID int64      `json:"species_id" binding:"required"`
	BreedID   *int64     `json:"breed_id"`
	Sex       AnimalSex  `json:"sex" binding:"required,oneof=male female"`
	BirthDate *time.Time `json:"birth_date"`
	WeightKg  *float64   `json:"weight_kg"`
}

type UpdateAnimalDTO struct {
	Name      *string    `json:"name"`
	SpeciesID *int64     `json:"species_id"`
	BreedID   *int64     `json:"breed_id"`
	Sex       *AnimalSex `json:"sex" binding:"omitempty,oneof=male female"`
	BirthDate *time.Time `json:"birth_date"`
	WeightKg  *float64   `json:"weight_kg"`
}

type AnimalFilter struct {
	OwnerID   *int64 `json:"owner_id"`
	SpeciesID *int64 `json:"species_id"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}
