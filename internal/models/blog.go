package models

// WPRendered is WordPress's rendered-content wrapper.
type WPRendered struct {
	Rendered string `json:"rendered"`
}

// WPAuthor is an embedded author record.
type WPAuthor struct {
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatar_urls"`
}

// WPMedia is an embedded featured-media record.
type WPMedia struct {
	SourceURL string `json:"source_url"`
}

// WPTerm is an embedded taxonomy term (category or tag).
type WPTerm struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// WPEmbedded carries the _embedded resources of a post fetched with _embed.
type WPEmbedded struct {
	Author        []WPAuthor `json:"author"`
	FeaturedMedia []WPMedia  `json:"wp:featuredmedia"`
	Terms         [][]WPTerm `json:"wp:term"`
}

// WPPost is a raw WordPress post.
type WPPost struct {
	ID       int         `json:"id"`
	Date     string      `json:"date"`
	Slug     string      `json:"slug"`
	Title    WPRendered  `json:"title"`
	Content  WPRendered  `json:"content"`
	Excerpt  WPRendered  `json:"excerpt"`
	Embedded *WPEmbedded `json:"_embedded,omitempty"`
}

// WPCategory is a raw WordPress category.
type WPCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// BlogAuthor is the display form of a post author.
type BlogAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// BlogTag is the display form of a post tag.
type BlogTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// BlogPost is the normalized post shape consumed by the blog pages.
type BlogPost struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Category      string     `json:"category"`
	Author        BlogAuthor `json:"author"`
	PublishedDate string     `json:"publishedDate"`
	ReadTime      string     `json:"readTime"`
	Image         string     `json:"image"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Tags          []BlogTag  `json:"tags"`
}

// BlogCategory is the normalized category shape.
type BlogCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
