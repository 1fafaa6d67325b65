// Package userrepo provides read access to the user roster. Users are
// administered by a separate system; this service only reads them to
// resolve actors, drivers and their city assignments.
package userrepo

import (
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for user rows.
type UserDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string
	Username string `gorm:"uniqueIndex"`
	Role     int    `gorm:"index"`
	Active   bool   `gorm:"index"`

	Cities           []UserCityDTO            `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	UnavailableDates []UserUnavailableDateDTO `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming convention to use "users".
func (UserDTO) TableName() string {
	return "users"
}

// UserCityDTO links a user to an assigned city.
type UserCityDTO struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;index"`
	CityID string
}

// TableName maps city assignments to "user_cities".
func (UserCityDTO) TableName() string {
	return "user_cities"
}

// UserUnavailableDateDTO records one date a delivery person cannot work.
type UserUnavailableDateDTO struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;index"`
	Date   time.Time `gorm:"type:date"`
}

// TableName maps unavailable dates to "user_unavailable_dates".
func (UserUnavailableDateDTO) TableName() string {
	return "user_unavailable_dates"
}

// toDomain converts a database DTO to a user entity.
func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromString(dto.ID.String())
	if err != nil {
		return nil, err
	}

	cityIDs := make([]string, 0, len(dto.Cities))
	for _, row := range dto.Cities {
		cityIDs = append(cityIDs, row.CityID)
	}

	dates := make([]kernel.DateOnly, 0, len(dto.UnavailableDates))
	for _, row := range dto.UnavailableDates {
		dates = append(dates, kernel.DateOnlyOf(row.Date))
	}

	return user.NewUser(id, dto.Name, dto.Username, user.Role(dto.Role), cityIDs, dates, dto.Active)
}
