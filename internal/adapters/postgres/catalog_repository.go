package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/retailforge/branch-inventory-service/internal/domain"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

func (r *catalogRepository) GetArticle(ctx context.Context, branchID, articleID int) (domain.Article, error) {
	var rec articleModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND article_id = ?", branchID, articleID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, err
	}
	return toDomainArticle(rec), nil
}

func (r *catalogRepository) ListArticles(ctx context.Context, branchID int) ([]domain.Article, error) {
	var recs []articleModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("article_id").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Article, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainArticle(rec))
	}
	return out, nil
}

func (r *catalogRepository) ListBelowMinStock(ctx context.Context) ([]domain.Article, error) {
	var recs []articleModel
	if err := r.db.WithContext(ctx).
		Where("stock - reserved < min_stock").
		Order("branch_id, article_id").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Article, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomainArticle(rec))
	}
	return out, nil
}

func (r *catalogRepository) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	rec := articleModel{
		BranchID:  article.BranchID,
		ArticleID: article.ArticleID,
		Name:      article.Name,
		Price:     article.Price,
		MinStock:  article.MinStock,
		Stock:     article.Stock,
		Reserved:  article.Reserved,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Article{}, domain.ErrConflict
		}
		return domain.Article{}, err
	}
	return toDomainArticle(rec), nil
}

func (r *catalogRepository) DeleteArticle(ctx context.Context, branchID, articleID int) error {
	res := r.db.WithContext(ctx).
		Where("branch_id = ? AND article_id = ?", branchID, articleID).
		Delete(&articleModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *catalogRepository) AdjustStock(ctx context.Context, branchID, articleID, amount int) (domain.Article, error) {
	return r.adjustCounter(ctx, branchID, articleID, "stock", amount)
}

func (r *catalogRepository) AdjustReserved(ctx context.Context, branchID, articleID, amount int) (domain.Article, error) {
	return r.adjustCounter(ctx, branchID, articleID, "reserved", amount)
}

// adjustCounter applies the delta in a single conditional UPDATE so the
// read-modify-write happens atomically inside the database; concurrent
// callers on the same row cannot interleave, and a result below zero leaves
// the row untouched.
func (r *catalogRepository) adjustCounter(ctx context.Context, branchID, articleID int, column string, amount int) (domain.Article, error) {
	res := r.db.WithContext(ctx).Model(&articleModel{}).
		Where("branch_id = ? AND article_id = ?", branchID, articleID).
		Where(column+" + ? >= 0", amount).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return domain.Article{}, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetArticle(ctx, branchID, articleID); errors.Is(err, domain.ErrNotFound) {
			return domain.Article{}, domain.ErrNotFound
		}
		return domain.Article{}, domain.ErrInsufficientStock
	}
	return r.GetArticle(ctx, branchID, articleID)
}
