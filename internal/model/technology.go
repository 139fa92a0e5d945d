package model

// Technology 技术方向（如 Angular、Java），由管理端维护
// swagger:model Technology
type Technology struct {
	BaseModel
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`
}

func (Technology) TableName() string {
	return "technologies"
}
