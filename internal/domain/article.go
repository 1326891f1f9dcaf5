package domain

// Article is a headline as delivered by the remote source. The upstream feed
// is not contractually complete, so every field may be missing.
type Article struct {
	Author      *string
	Title       *string
	Description *string
	Content     *string
	PublishedAt *string
	URL         *string
	ImageURL    *string
	Source      *ArticleSource
}

type ArticleSource struct {
	ID   *string
	Name *string
}

// Convertible reports whether the article carries the fields a cached row
// cannot do without.
func (a Article) Convertible() bool {
	return a.ImageURL != nil && a.Title != nil && a.PublishedAt != nil
}

// Headlines is one page of the remote top-headlines feed.
type Headlines struct {
	Status       string
	TotalResults *int
	Articles     []Article
}

// CachedArticle is a filtered, display-ready row of the local cache.
// ID is assigned by the cache on insert; zero means the row was never stored.
type CachedArticle struct {
	ID           int64   `db:"id" json:"id"`
	ImageURL     *string `db:"image_url" json:"imageUrl,omitempty"`
	Title        *string `db:"title" json:"title,omitempty"`
	Description  *string `db:"description" json:"description,omitempty"`
	PublishDate  *string `db:"publish_date" json:"publishDate,omitempty"`
	Author       *string `db:"author" json:"author,omitempty"`
	URLToArticle *string `db:"url_to_article" json:"urlToArticle,omitempty"`
}

// Page is the converted result of a successful remote fetch.
type Page struct {
	Rows         []CachedArticle
	TotalResults *int
}
