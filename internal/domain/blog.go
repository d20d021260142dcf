package domain

// Blog is a user-authored post. Genres behave as a set.
type Blog struct {
	Content
	Title        string   `json:"title"`
	Body         string   `json:"content"`
	Genres       []string `json:"genres"`
	SpoilerAlert bool     `json:"spoilerAlert"`
}
