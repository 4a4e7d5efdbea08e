package repositories

import (
	"context"

	"gorm.io/gorm"
	"runclub-api/models"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

// FindPage returns posts newest first.
func (r *PostRepository) FindPage(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error
	return total, err
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// LikedSet returns which of postIDs the viewer currently likes.
func (r *PostRepository) LikedSet(ctx context.Context, viewerID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if viewerID == "" || len(postIDs) == 0 {
		return liked, nil
	}
	var likes []models.PostLike
	if err := r.db.WithContext(ctx).Where("user_id = ? AND post_id IN ?", viewerID, postIDs).Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		liked[l.PostID] = true
	}
	return liked, nil
}

// RemoveLike reports whether the viewer had liked the post.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, viewerID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, viewerID).Delete(&models.PostLike{})
	return res.RowsAffected > 0, res.Error
}

func (r *PostRepository) AddLike(ctx context.Context, postID, viewerID string) error {
	return r.db.WithContext(ctx).Create(&models.PostLike{PostID: postID, UserID: viewerID}).Error
}

func (r *PostRepository) AdjustLikes(ctx context.Context, postID string, delta int) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
}

// FindComments returns a post's comments oldest first.
func (r *PostRepository) FindComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Order("id ASC").Find(&comments).Error
	return comments, err
}

func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostRepository) IncrementComments(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn("comments", gorm.Expr("comments + ?", 1)).Error
}

// AuthorTotals returns how many posts a user wrote and the likes they received.
func (r *PostRepository) AuthorTotals(ctx context.Context, userID string) (posts int64, likes int64, err error) {
	var row struct {
		Posts int64
		Likes int64
	}
	err = r.db.WithContext(ctx).Model(&models.Post{}).
		Select("COUNT(*) AS posts, COALESCE(SUM(likes), 0) AS likes").
		Where("user_id = ?", userID).Scan(&row).Error
	return row.Posts, row.Likes, err
}

func (r *PostRepository) CountCommentsBy(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
