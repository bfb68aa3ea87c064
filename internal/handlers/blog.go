package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/brritto/internal/services"
)

// BlogHandler serves the blog section from the WordPress-compatible content
// API. An unconfigured content API renders every listing empty rather than
// erroring.
type BlogHandler struct {
	blog *services.BlogService
}

// NewBlogHandler constructs BlogHandler.
func NewBlogHandler(blog *services.BlogService) *BlogHandler {
	return &BlogHandler{blog: blog}
}

// ListPosts returns one page of posts.
func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	posts, totalPages, err := h.blog.GetPosts(queryInt(c, "page", 1), queryInt(c, "per_page", 9))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	return c.JSON(fiber.Map{"success": true, "data": posts, "totalPages": totalPages})
}

// ListPostsByCategory returns one page of posts in the category named by
// slug.
func (h *BlogHandler) ListPostsByCategory(c *fiber.Ctx) error {
	category, err := h.blog.GetCategoryBySlug(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	if category == nil {
		return fiber.NewError(fiber.StatusNotFound, "category not found")
	}

	posts, totalPages, err := h.blog.GetPostsByCategory(category.ID, queryInt(c, "page", 1), queryInt(c, "per_page", 9))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	return c.JSON(fiber.Map{"success": true, "data": posts, "totalPages": totalPages, "category": category})
}

// ListPostsByTag returns one page of posts carrying the tag named by slug.
func (h *BlogHandler) ListPostsByTag(c *fiber.Ctx) error {
	tag, err := h.blog.GetTagBySlug(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	if tag == nil {
		return fiber.NewError(fiber.StatusNotFound, "tag not found")
	}

	posts, totalPages, err := h.blog.GetPostsByTag(tag.ID, queryInt(c, "page", 1), queryInt(c, "per_page", 9))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	return c.JSON(fiber.Map{"success": true, "data": posts, "totalPages": totalPages, "tag": tag})
}

// ListRecentPosts returns the most recent posts for the home page strip.
func (h *BlogHandler) ListRecentPosts(c *fiber.Ctx) error {
	posts, err := h.blog.GetRecentPosts(queryInt(c, "limit", 3))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch posts")
	}
	return c.JSON(fiber.Map{"success": true, "data": posts})
}

// GetPost returns a single post by slug.
func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.blog.GetPostBySlug(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch post")
	}
	if post == nil {
		return fiber.NewError(fiber.StatusNotFound, "post not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": post})
}

// ListCategories returns all blog categories.
func (h *BlogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.blog.GetCategories()
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch categories")
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if parsed, err := strconv.Atoi(c.Query(key)); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}
