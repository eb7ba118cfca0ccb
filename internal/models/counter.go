package models

// Counter a named monotonically increasing sequence
type Counter struct {
	ID    string `gorm:"primarykey;type:varchar(32)" json:"id"`
	Value int64  `gorm:"not null;default:0" json:"value"`
}

// TableName specifies the table name
func (Counter) TableName() string {
	return "counters"
}
