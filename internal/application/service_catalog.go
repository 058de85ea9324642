package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

func (s *Service) CreateArticle(ctx context.Context, branchID int, req CreateArticleRequest) (ArticleView, error) {
	article, err := domain.NewArticle(branchID, req.ArticleID, req.Name, req.Price, req.MinStock, req.Stock, s.nowFn())
	if err != nil {
		return ArticleView{}, err
	}
	created, err := s.catalog.CreateArticle(ctx, article)
	if err != nil {
		return ArticleView{}, err
	}
	s.invalidateCatalogCache(ctx, branchID)
	return toArticleView(created), nil
}

func (s *Service) GetArticle(ctx context.Context, branchID, articleID int) (ArticleView, error) {
	article, err := s.catalog.GetArticle(ctx, branchID, articleID)
	if err != nil {
		return ArticleView{}, err
	}
	return toArticleView(article), nil
}

func (s *Service) ListArticles(ctx context.Context, branchID int) ([]ArticleView, error) {
	key := cacheKeyCatalog(branchID)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached []ArticleView
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}
	articles, err := s.catalog.ListArticles(ctx, branchID)
	if err != nil {
		return nil, err
	}
	views := make([]ArticleView, 0, len(articles))
	for _, a := range articles {
		views = append(views, toArticleView(a))
	}
	if s.cache != nil {
		if raw, err := json.Marshal(views); err == nil {
			_ = s.cache.Set(ctx, key, string(raw), s.cfg.CatalogCacheTTL)
		}
	}
	return views, nil
}

func (s *Service) DeleteArticle(ctx context.Context, branchID, articleID int) error {
	if err := s.catalog.DeleteArticle(ctx, branchID, articleID); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx, branchID)
	return nil
}

// ChangeStock applies a manual stock correction through the ledger. Amount
// may be negative; the ledger rejects a result below zero.
func (s *Service) ChangeStock(ctx context.Context, branchID, articleID, amount int) (ArticleView, error) {
	if amount == 0 {
		return ArticleView{}, fmt.Errorf("%w: amount must not be zero", domain.ErrInvalidInput)
	}
	article, err := s.catalog.AdjustStock(ctx, branchID, articleID, amount)
	if err != nil {
		return ArticleView{}, err
	}
	s.invalidateCatalogCache(ctx, branchID)
	return toArticleView(article), nil
}

func (s *Service) invalidateCatalogCache(ctx context.Context, branchID int) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, cacheKeyCatalog(branchID))
}

func cacheKeyCatalog(branchID int) string {
	return fmt.Sprintf("catalog:branch:%d", branchID)
}
