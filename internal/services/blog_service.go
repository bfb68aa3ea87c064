package services

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/example/brritto/internal/models"
)

const (
	blogRequestTimeout = 15 * time.Second
	blogRetryMaxWait   = 10 * time.Second
	wordsPerMinute     = 200

	defaultAvatar    = "/images/avatars/default.png"
	defaultPostImage = "/images/blog/placeholder.jpg"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// BlogService is a client for the WordPress-compatible content API. An
// unconfigured base URL is not an error: every operation degrades to empty
// results so the blog section simply renders empty.
type BlogService struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewBlogService constructs a BlogService.
func NewBlogService(baseURL, apiKey string, log *zap.SugaredLogger) *BlogService {
	return &BlogService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: blogRequestTimeout},
		log:     log,
	}
}

// Configured reports whether a content API base URL is set.
func (s *BlogService) Configured() bool {
	return s.baseURL != ""
}

// fetch performs a GET against the content API with exponential-backoff
// retries. Content fetches are idempotent, so retrying on transient failures
// is safe; 4xx responses are permanent.
func (s *BlogService) fetch(endpoint string, params url.Values) ([]byte, http.Header, error) {
	target := s.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var (
		body   []byte
		header http.Header
	)

	operation := func() error {
		req, err := http.NewRequest(http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if s.apiKey != "" {
			req.Header.Set("X-API-KEY", s.apiKey)
		}

		resp, err := s.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("content api returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("content api returned status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		header = resp.Header
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = blogRetryMaxWait

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, nil, err
	}
	return body, header, nil
}

// GetPosts returns one page of posts plus the total page count from the
// X-WP-TotalPages header.
func (s *BlogService) GetPosts(page, perPage int) ([]models.BlogPost, int, error) {
	if !s.Configured() {
		s.log.Warnw("blog api not configured, skipping fetch")
		return []models.BlogPost{}, 0, nil
	}

	params := url.Values{}
	params.Set("_embed", "true")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	return s.fetchPosts("/posts", params)
}

// GetRecentPosts returns the n most recent posts.
func (s *BlogService) GetRecentPosts(n int) ([]models.BlogPost, error) {
	posts, _, err := s.GetPosts(1, n)
	return posts, err
}

// GetPostBySlug returns a single post, or nil when not found.
func (s *BlogService) GetPostBySlug(slug string) (*models.BlogPost, error) {
	if !s.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("_embed", "true")
	params.Set("slug", slug)

	posts, _, err := s.fetchPosts("/posts", params)
	if err != nil || len(posts) == 0 {
		return nil, err
	}
	return &posts[0], nil
}

// GetPostsByCategory returns one page of posts within a category.
func (s *BlogService) GetPostsByCategory(categoryID, page, perPage int) ([]models.BlogPost, int, error) {
	if !s.Configured() {
		return []models.BlogPost{}, 0, nil
	}

	params := url.Values{}
	params.Set("_embed", "true")
	params.Set("categories", strconv.Itoa(categoryID))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	return s.fetchPosts("/posts", params)
}

// GetPostsByTag returns one page of posts carrying a tag.
func (s *BlogService) GetPostsByTag(tagID, page, perPage int) ([]models.BlogPost, int, error) {
	if !s.Configured() {
		return []models.BlogPost{}, 0, nil
	}

	params := url.Values{}
	params.Set("_embed", "true")
	params.Set("tags", strconv.Itoa(tagID))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	return s.fetchPosts("/posts", params)
}

// GetCategories returns all blog categories.
func (s *BlogService) GetCategories() ([]models.BlogCategory, error) {
	if !s.Configured() {
		return []models.BlogCategory{}, nil
	}

	params := url.Values{}
	params.Set("per_page", "100")

	body, _, err := s.fetch("/categories", params)
	if err != nil {
		return nil, err
	}

	var raw []models.WPCategory
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	categories := make([]models.BlogCategory, 0, len(raw))
	for _, c := range raw {
		categories = append(categories, models.BlogCategory(c))
	}
	return categories, nil
}

// GetCategoryBySlug returns a single category, or nil when not found.
func (s *BlogService) GetCategoryBySlug(slug string) (*models.BlogCategory, error) {
	if !s.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("slug", slug)

	body, _, err := s.fetch("/categories", params)
	if err != nil {
		return nil, err
	}

	var raw []models.WPCategory
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil, err
	}
	category := models.BlogCategory(raw[0])
	return &category, nil
}

// GetTagBySlug returns a single tag, or nil when not found.
func (s *BlogService) GetTagBySlug(slug string) (*models.BlogTag, error) {
	if !s.Configured() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("slug", slug)

	body, _, err := s.fetch("/tags", params)
	if err != nil {
		return nil, err
	}

	var raw []models.WPTerm
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil, err
	}
	return &models.BlogTag{ID: raw[0].ID, Name: raw[0].Name, Slug: raw[0].Slug}, nil
}

func (s *BlogService) fetchPosts(endpoint string, params url.Values) ([]models.BlogPost, int, error) {
	body, header, err := s.fetch(endpoint, params)
	if err != nil {
		s.log.Errorw("blog fetch failed", "endpoint", endpoint, "error", err)
		return nil, 0, err
	}

	var raw []models.WPPost
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, err
	}

	totalPages, _ := strconv.Atoi(header.Get("X-WP-TotalPages"))

	posts := make([]models.BlogPost, 0, len(raw))
	for _, p := range raw {
		posts = append(posts, MapWPPost(p))
	}
	return posts, totalPages, nil
}

// MapWPPost converts a raw WordPress post into the normalized blog shape.
func MapWPPost(post models.WPPost) models.BlogPost {
	author := models.BlogAuthor{Name: "Anonymous", Avatar: defaultAvatar}
	image := defaultPostImage
	category := "Uncategorized"
	var tags []models.BlogTag

	if e := post.Embedded; e != nil {
		if len(e.Author) > 0 {
			if e.Author[0].Name != "" {
				author.Name = e.Author[0].Name
			}
			if avatar, ok := e.Author[0].AvatarURLs["96"]; ok && avatar != "" {
				author.Avatar = avatar
			}
		}
		if len(e.FeaturedMedia) > 0 && e.FeaturedMedia[0].SourceURL != "" {
			image = e.FeaturedMedia[0].SourceURL
		}
		for _, group := range e.Terms {
			for _, term := range group {
				switch term.Taxonomy {
				case "category":
					if category == "Uncategorized" {
						category = term.Name
					}
				case "post_tag":
					tags = append(tags, models.BlogTag{ID: term.ID, Name: term.Name, Slug: term.Slug})
				}
			}
		}
	}

	return models.BlogPost{
		ID:            strconv.Itoa(post.ID),
		Title:         post.Title.Rendered,
		Excerpt:       StripHTML(post.Excerpt.Rendered),
		Category:      category,
		Author:        author,
		PublishedDate: formatPostDate(post.Date),
		ReadTime:      CalculateReadTime(post.Content.Rendered),
		Image:         image,
		Slug:          post.Slug,
		Content:       post.Content.Rendered,
		Tags:          tags,
	}
}

// StripHTML removes markup from rendered WordPress content.
func StripHTML(content string) string {
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(content, ""))
}

// CalculateReadTime estimates reading time at 200 words per minute.
func CalculateReadTime(content string) string {
	text := StripHTML(content)
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func formatPostDate(date string) string {
	parsed, err := time.Parse("2006-01-02T15:04:05", date)
	if err != nil {
		return date
	}
	return parsed.Format("Jan 2, 2006")
}
