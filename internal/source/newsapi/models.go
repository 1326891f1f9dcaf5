package newsapi

// APIResponse is the top-headlines envelope. Error responses reuse it with
// Status "error" and Code/Message set.
type APIResponse struct {
	Status       string    `json:"status"`
	TotalResults *int      `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
}

type Article struct {
	Source      *ArticleSource `json:"source"`
	Author      *string        `json:"author"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	URL         *string        `json:"url"`
	URLToImage  *string        `json:"urlToImage"`
	PublishedAt *string        `json:"publishedAt"`
	Content     *string        `json:"content"`
}

type ArticleSource struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}
