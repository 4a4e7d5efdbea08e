package models

type TipCategory string

const (
	CategoryTechnique TipCategory = "technique"
	CategoryNutrition TipCategory = "nutrition"
	CategoryRecovery  TipCategory = "recovery"
	CategoryTraining  TipCategory = "training"
	CategoryMindset   TipCategory = "mindset"
	CategoryGear      TipCategory = "gear"
)

func (c TipCategory) Valid() bool {
	switch c {
	case CategoryTechnique, CategoryNutrition, CategoryRecovery, CategoryTraining, CategoryMindset, CategoryGear:
		return true
	}
	return false
}

// Tip is read-only content seeded at startup. ReadTime is a display value.
type Tip struct {
	ID       string      `json:"id" gorm:"primaryKey;size:191"`
	Title    string      `json:"title" gorm:"not null;size:255"`
	Category TipCategory `json:"category" gorm:"not null;size:20;index"`
	Content  string      `json:"content" gorm:"type:text"`
	Image    string      `json:"image" gorm:"size:500"`
	ReadTime string      `json:"read_time,omitempty" gorm:"size:50"`
}
