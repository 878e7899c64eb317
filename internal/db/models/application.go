package models

import "time"

// Application is a secrets manager application. Gateways are provisioned under one.
type Application struct {
	UID       string    `json:"app_uid" gorm:"primaryKey;size:32"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
