package models

import "time"

// Device is a monitored device as stored by the device repository. The core
// treats everything except DeviceID and AccountID as opaque payload: a device
// is returned to a caller only when its AccountID is a member of the caller's
// authorized account set.
type Device struct {
	DeviceID        string    `json:"deviceId" gorm:"column:device_id;primaryKey"`
	AccountID       string    `json:"accountId" gorm:"column:account_id;index"`
	Name            string    `json:"name" gorm:"column:name"`
	Model           string    `json:"model" gorm:"column:model"`
	SerialNumber    string    `json:"serialNumber" gorm:"column:serial_number"`
	IPAddress       string    `json:"ipAddress" gorm:"column:ip_address"`
	MACAddress      string    `json:"macAddress" gorm:"column:mac_address"`
	Status          string    `json:"status" gorm:"column:status"`
	FirmwareVersion string    `json:"firmwareVersion" gorm:"column:firmware_version"`
	LastSeenAt      time.Time `json:"lastSeenAt" gorm:"column:last_seen_at"`
	CreatedAt       time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"-" gorm:"column:updated_at"`
}

// TableName maps Device onto the devices table.
func (Device) TableName() string { return "devices" }
