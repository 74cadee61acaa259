package models

import "time"

// DownloadLog records every issued download link. Append-only and purely
// advisory: the authorization path never reads it back, and a failed write
// must not block the download.
type DownloadLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ProductID  string    `gorm:"size:64;not null;index" json:"product_id"`
	SteamID    string    `gorm:"size:32" json:"steam_id,omitempty"`
	SteamName  string    `gorm:"size:64" json:"steam_name,omitempty"`
	IP         string    `gorm:"size:64" json:"ip"`
	UserAgent  string    `gorm:"size:512" json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DownloadLog) TableName() string {
	return "download_logs"
}
