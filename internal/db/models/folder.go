package models

import "time"

// SharedFolder is a shared folder together with its unwrapped folder key
type SharedFolder struct {
	UID       string    `json:"shared_folder_uid" gorm:"primaryKey;size:32"`
	Name      string    `json:"name"`
	Key       []byte    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Folder is a user folder nested inside a shared folder
type Folder struct {
	UID             string    `json:"folder_uid" gorm:"primaryKey;size:32"`
	SharedFolderUID string    `json:"shared_folder_uid" gorm:"not null;index"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
}
