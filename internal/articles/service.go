package articles

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreateArticleInput carries validated fields for a new article.
type CreateArticleInput struct {
	Title    string
	Body     string
	AuthorID string
}

// UpdateArticleInput carries validated fields for an edit.
type UpdateArticleInput struct {
	ID    int64
	Title string
	Body  string
}

// Service holds article business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates input and stores a new draft.
func (s *Service) Create(ctx context.Context, input CreateArticleInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("articles: title required")
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, errors.New("articles: title must contain a word character")
	}
	article := &Article{
		Title:    title,
		Slug:     slug,
		Body:     input.Body,
		Status:   StatusDraft,
		AuthorID: input.AuthorID,
	}
	id, err := s.repo.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	article.ID = id
	return article, nil
}

// Update validates input and overwrites title, slug and body. Publication
// state is changed through Publish/Unpublish only.
func (s *Service) Update(ctx context.Context, input UpdateArticleInput) (*Article, error) {
	article, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.New("articles: title required")
	}
	article.Title = title
	article.Slug = Slugify(title)
	article.Body = input.Body
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Publish flips an article to published.
func (s *Service) Publish(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, StatusPublished)
}

// Unpublish reverts an article to draft.
func (s *Service) Unpublish(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, StatusDraft)
}

func (s *Service) setStatus(ctx context.Context, id int64, status Status) error {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if article.Status == status {
		return nil
	}
	article.Status = status
	return s.repo.Update(ctx, article)
}

// Delete removes an article.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get fetches one article.
func (s *Service) Get(ctx context.Context, id int64) (*Article, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of articles with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Article, shared.Pagination, error) {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	list, total, err := s.repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}
