package models

// Account is a tenant boundary. The ID is an opaque string; it is compared
// byte-for-byte for access decisions and never parsed. Name is display-only
// and must never participate in an access decision.
type Account struct {
	ID   string `json:"accountId" gorm:"column:id;primaryKey"`
	Name string `json:"accountName" gorm:"column:name"`
}

// TableName maps Account onto the accounts table.
func (Account) TableName() string { return "accounts" }
