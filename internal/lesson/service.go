package lesson

import (
	"context"
	"errors"
	"strings"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/user"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ErrSearchDisabled is returned by Reindex when no search backend is configured.
var ErrSearchDisabled = errors.New("search index is not configured")

const defaultReindexBatchSize = 500

// Service defines the interface for lesson business logic.
type Service interface {
	Create(ctx context.Context, creatorEmail string, req CreateLessonRequest) (*Lesson, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateLessonRequest) (*Lesson, error)
	GetActive(ctx context.Context, id uuid.UUID) (*Lesson, error)
	GetForViewer(ctx context.Context, id uuid.UUID, viewerEmail string) (*Lesson, error)
	GetBySlugForViewer(ctx context.Context, lessonSlug, viewerEmail string) (*Lesson, error)
	GetViewable(ctx context.Context, id uuid.UUID, viewerEmail string) (*Lesson, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, *common.Pagination, error)
	Featured(ctx context.Context) ([]Lesson, error)
	MostSaved(ctx context.Context) ([]Lesson, error)
	ListMine(ctx context.Context, email string) ([]Lesson, error)
	ListAll(ctx context.Context, includeDeleted bool) ([]Lesson, error)
	ListForAdmin(ctx context.Context, f AdminFilter) ([]Lesson, error)
	ToggleLike(ctx context.Context, id uuid.UUID, email string) (*LikeResult, error)
	Search(ctx context.Context, query string, limit int) ([]Lesson, error)
	ToggleVisibility(ctx context.Context, id uuid.UUID) (*Lesson, error)
	SetFeatured(ctx context.Context, id uuid.UUID, value *bool) (*Lesson, error)
	SetReviewed(ctx context.Context, id uuid.UUID, value *bool) (*Lesson, error)
	AdjustSavedCount(ctx context.Context, id uuid.UUID, delta int) error
	FindByIDs(ctx context.Context, ids []uuid.UUID, includeDeleted bool) (map[uuid.UUID]Lesson, error)
	Reindex(ctx context.Context, batchSize int) (int, error)
	SearchEnabled() bool
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	users   user.Repository
	indexer Indexer
	logger  *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new lesson service.
func NewService(repo Repository, users user.Repository, indexer Indexer, logger *zap.Logger) *ServiceImplementation {
	if indexer == nil {
		indexer = NopIndexer{}
	}
	return &ServiceImplementation{repo: repo, users: users, indexer: indexer, logger: logger}
}

func slugFor(title string, id uuid.UUID) string {
	base := slug.Make(title)
	if base == "" {
		base = "lesson"
	}
	return base + "-" + id.String()[:8]
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Create stores a new lesson owned by creatorEmail.
func (s *ServiceImplementation) Create(ctx context.Context, creatorEmail string, req CreateLessonRequest) (*Lesson, error) {
	title := strings.TrimSpace(req.Title)
	short := strings.TrimSpace(req.ShortDescription)
	if title == "" || short == "" {
		return nil, common.ErrBadRequest.WithMessage("Title and short description are required")
	}

	email := common.NormalizeEmail(creatorEmail)
	name, photo := strings.TrimSpace(req.CreatorName), strings.TrimSpace(req.CreatorPhotoURL)
	profile, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if profile.Name != "" {
			name = profile.Name
		}
		if profile.PhotoURL != "" {
			photo = profile.PhotoURL
		}
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	l := &Lesson{
		Title:            title,
		ShortDescription: short,
		Details:          req.Details,
		Category:         orDefault(req.Category, DefaultCategory),
		EmotionalTone:    orDefault(req.EmotionalTone, DefaultEmotionalTone),
		AccessLevel:      AccessLevel(orDefault(req.AccessLevel, string(AccessFree))),
		Visibility:       Visibility(orDefault(req.Visibility, string(VisibilityPublic))),
		CreatorEmail:     email,
		CreatorName:      name,
		CreatorPhotoURL:  photo,
	}
	l.ID = uuid.New()
	l.Slug = slugFor(title, l.ID)

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("Failed to create lesson", zap.Error(err), zap.String("creator", email))
		return nil, err
	}
	s.logger.Info("Lesson created", zap.String("lessonID", l.ID.String()), zap.String("creator", email))
	s.index(ctx, l)
	return l, nil
}

// Update applies the allow-listed fields of req. Ownership is checked by the caller.
func (s *ServiceImplementation) Update(ctx context.Context, id uuid.UUID, req UpdateLessonRequest) (*Lesson, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrBadRequest.WithMessage("Title cannot be empty")
		}
		updates["title"] = title
		updates["slug"] = slugFor(title, id)
	}
	if req.ShortDescription != nil {
		short := strings.TrimSpace(*req.ShortDescription)
		if short == "" {
			return nil, common.ErrBadRequest.WithMessage("Short description cannot be empty")
		}
		updates["short_description"] = short
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.Category != nil {
		updates["category"] = orDefault(*req.Category, DefaultCategory)
	}
	if req.EmotionalTone != nil {
		updates["emotional_tone"] = orDefault(*req.EmotionalTone, DefaultEmotionalTone)
	}
	if req.AccessLevel != nil {
		updates["access_level"] = *req.AccessLevel
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}

	l, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.index(ctx, l)
	return l, nil
}

// GetActive returns a non-deleted lesson without any access check.
func (s *ServiceImplementation) GetActive(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	return s.repo.FindByID(ctx, id, false)
}

// GetForViewer returns the lesson detail, enforcing the premium gate.
func (s *ServiceImplementation) GetForViewer(ctx context.Context, id uuid.UUID, viewerEmail string) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, l, viewerEmail)
}

// GetBySlugForViewer is GetForViewer addressed by slug.
func (s *ServiceImplementation) GetBySlugForViewer(ctx context.Context, lessonSlug, viewerEmail string) (*Lesson, error) {
	l, err := s.repo.FindBySlug(ctx, lessonSlug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, l, viewerEmail)
}

// GetViewable returns a lesson the viewer may see: private lessons only to
// their creator, premium lessons behind the premium gate. An empty viewer is anonymous.
func (s *ServiceImplementation) GetViewable(ctx context.Context, id uuid.UUID, viewerEmail string) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	viewer := common.NormalizeEmail(viewerEmail)
	if l.Visibility != VisibilityPublic && (viewer == "" || l.CreatorEmail != viewer) {
		return nil, common.ErrNotFound.WithMessage("Lesson not found")
	}
	if err := s.checkAccess(ctx, l, viewer); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ServiceImplementation) detail(ctx context.Context, l *Lesson, viewerEmail string) (*Lesson, error) {
	if err := s.checkAccess(ctx, l, viewerEmail); err != nil {
		return nil, err
	}
	likes, err := s.repo.LikesOf(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Likes = likes
	return l, nil
}

// checkAccess lets premium lessons through only for their creator or premium users.
func (s *ServiceImplementation) checkAccess(ctx context.Context, l *Lesson, viewerEmail string) error {
	viewer := common.NormalizeEmail(viewerEmail)
	if l.AccessLevel != AccessPremium || l.CreatorEmail == viewer {
		return nil
	}
	u, err := s.users.FindByEmail(ctx, viewer)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrForbidden.WithMessage("Premium access required")
		}
		return err
	}
	if !u.IsPremium {
		return common.ErrForbidden.WithMessage("Premium access required")
	}
	return nil
}

// SoftDelete hides a lesson from every non-admin read.
func (s *ServiceImplementation) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Lesson soft-deleted", zap.String("lessonID", id.String()))
	s.unindex(ctx, id)
	return nil
}

// HardDelete physically removes a lesson.
func (s *ServiceImplementation) HardDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Lesson hard-deleted", zap.String("lessonID", id.String()))
	s.unindex(ctx, id)
	return nil
}

// ListPublic returns a page of the public listing.
func (s *ServiceImplementation) ListPublic(ctx context.Context, q PublicQuery) ([]Lesson, *common.Pagination, error) {
	q.Page, q.Limit = common.ClampPage(q.Page, q.Limit)
	lessons, total, err := s.repo.ListPublic(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return previews(lessons), common.NewPagination(total, q.Page, q.Limit), nil
}

// Featured returns the newest featured public lessons.
func (s *ServiceImplementation) Featured(ctx context.Context) ([]Lesson, error) {
	lessons, err := s.repo.ListTop(ctx, true, orderNewest, TopListSize)
	return previews(lessons), err
}

// MostSaved returns the most-saved public lessons.
func (s *ServiceImplementation) MostSaved(ctx context.Context) ([]Lesson, error) {
	lessons, err := s.repo.ListTop(ctx, false, orderMostSaved, TopListSize)
	return previews(lessons), err
}

// ListMine returns the caller's own lessons.
func (s *ServiceImplementation) ListMine(ctx context.Context, email string) ([]Lesson, error) {
	return s.repo.ListByCreator(ctx, email)
}

// ListAll is the raw admin listing.
func (s *ServiceImplementation) ListAll(ctx context.Context, includeDeleted bool) ([]Lesson, error) {
	return s.repo.ListAll(ctx, includeDeleted)
}

// ListForAdmin returns non-deleted lessons for the moderation dashboard.
func (s *ServiceImplementation) ListForAdmin(ctx context.Context, f AdminFilter) ([]Lesson, error) {
	return s.repo.ListForAdmin(ctx, f)
}

// ToggleLike flips the caller's like and reads the stored count back.
func (s *ServiceImplementation) ToggleLike(ctx context.Context, id uuid.UUID, email string) (*LikeResult, error) {
	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		return nil, err
	}
	liked, err := s.repo.ToggleLike(ctx, id, common.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	count, err := s.repo.LikesCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// Search runs a full-text query over public lessons. Without an index, or
// when the index fails, it falls back to the database substring match.
func (s *ServiceImplementation) Search(ctx context.Context, query string, limit int) ([]Lesson, error) {
	_, limit = common.ClampPage(1, limit)
	query = strings.TrimSpace(query)

	if s.indexer.Enabled() && query != "" {
		ids, err := s.indexer.Search(ctx, query, limit)
		if err == nil {
			found, err := s.repo.FindByIDs(ctx, ids, false)
			if err != nil {
				return nil, err
			}
			out := make([]Lesson, 0, len(ids))
			for _, id := range ids {
				if l, ok := found[id]; ok && l.IsPublic() {
					l.Preview()
					out = append(out, l)
				}
			}
			return out, nil
		}
		s.logger.Warn("Search index query failed, falling back to database", zap.Error(err), zap.String("query", query))
	}

	lessons, _, err := s.repo.ListPublic(ctx, PublicQuery{Search: query, Page: 1, Limit: limit})
	return previews(lessons), err
}

// ToggleVisibility flips a lesson between public and private.
func (s *ServiceImplementation) ToggleVisibility(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	next := VisibilityPrivate
	if l.Visibility != VisibilityPublic {
		next = VisibilityPublic
	}
	return s.setColumn(ctx, id, "visibility", next)
}

// SetFeatured sets isFeatured, or toggles it when value is nil.
func (s *ServiceImplementation) SetFeatured(ctx context.Context, id uuid.UUID, value *bool) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	next := !l.IsFeatured
	if value != nil {
		next = *value
	}
	return s.setColumn(ctx, id, "is_featured", next)
}

// SetReviewed sets isReviewed, or toggles it when value is nil.
func (s *ServiceImplementation) SetReviewed(ctx context.Context, id uuid.UUID, value *bool) (*Lesson, error) {
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	next := !l.IsReviewed
	if value != nil {
		next = *value
	}
	return s.setColumn(ctx, id, "is_reviewed", next)
}

func (s *ServiceImplementation) setColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) (*Lesson, error) {
	l, err := s.repo.Update(ctx, id, map[string]interface{}{column: value})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Lesson moderated", zap.String("lessonID", id.String()), zap.String("field", column), zap.Any("value", value))
	s.index(ctx, l)
	return l, nil
}

// AdjustSavedCount keeps savedCount in step with favorites.
func (s *ServiceImplementation) AdjustSavedCount(ctx context.Context, id uuid.UUID, delta int) error {
	return s.repo.AdjustSavedCount(ctx, id, delta)
}

// FindByIDs loads lessons keyed by id.
func (s *ServiceImplementation) FindByIDs(ctx context.Context, ids []uuid.UUID, includeDeleted bool) (map[uuid.UUID]Lesson, error) {
	return s.repo.FindByIDs(ctx, ids, includeDeleted)
}

// SearchEnabled reports whether a search backend is configured.
func (s *ServiceImplementation) SearchEnabled() bool {
	return s.indexer.Enabled()
}

// Reindex pushes every non-deleted lesson to the search index and returns how many were sent.
func (s *ServiceImplementation) Reindex(ctx context.Context, batchSize int) (int, error) {
	if !s.indexer.Enabled() {
		return 0, ErrSearchDisabled
	}
	if batchSize <= 0 {
		batchSize = defaultReindexBatchSize
	}
	total := 0
	err := s.repo.InBatches(ctx, batchSize, func(batch []Lesson) error {
		if err := s.indexer.IndexBatch(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		s.logger.Debug("Indexed lesson batch", zap.Int("size", len(batch)), zap.Int("total", total))
		return nil
	})
	if err != nil {
		return total, err
	}
	s.logger.Info("Lesson index rebuilt", zap.Int("lessons", total))
	return total, nil
}

func (s *ServiceImplementation) index(ctx context.Context, l *Lesson) {
	if !s.indexer.Enabled() {
		return
	}
	if err := s.indexer.Index(ctx, l); err != nil {
		s.logger.Warn("Failed to index lesson", zap.Error(err), zap.String("lessonID", l.ID.String()))
	}
}

func (s *ServiceImplementation) unindex(ctx context.Context, id uuid.UUID) {
	if !s.indexer.Enabled() {
		return
	}
	if err := s.indexer.Remove(ctx, id); err != nil {
		s.logger.Warn("Failed to remove lesson from index", zap.Error(err), zap.String("lessonID", id.String()))
	}
}
