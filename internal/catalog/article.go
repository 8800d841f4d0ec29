package catalog

import "github.com/google/uuid"

type Article struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Text  string    `json:"text"`
}

func NewArticle(id uuid.UUID, title, text string) Article {
	return Article{ID: id, Title: title, Text: text}
}

func (a Article) SearchTerm() string       { return a.Title }
func (a Article) ContentType() ContentType { return ContentTypeArticle }
func (a Article) ItemID() uuid.UUID        { return a.ID }

func (a Article) String() string {
	return a.Title + "\n" + a.Text
}
