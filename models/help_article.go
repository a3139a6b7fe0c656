package models

// HelpArticle is static help-center content, seeded at startup.
type HelpArticle struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (HelpArticle) TableName() string { return "help_articles" }
