package models

type InsightRecord struct {
	ID         uint  `json:"-" gorm:"primaryKey"`
	EndYear    Value `json:"end_year"`
	Intensity  Value `json:"intensity"`
	Sector     Label `json:"sector" gorm:"index"`
	Topic      Label `json:"topic"`
	Insight    Label `json:"insight"`
	URL        Label `json:"url"`
	Region     Label `json:"region" gorm:"index"`
	StartYear  Value `json:"start_year"`
	Impact     Value `json:"impact"`
	Added      Label `json:"added"`
	Published  Label `json:"published"`
	Country    Label `json:"country"`
	Relevance  Value `json:"relevance"`
	Pestle     Label `json:"pestle"`
	Source     Label `json:"source"`
	Title      Label `json:"title"`
	Likelihood Value `json:"likelihood"`
}

func (InsightRecord) TableName() string { return "insights" }
