package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

type articleKey struct {
	branchID  int
	articleID int
}

type articleEntry struct {
	mu      sync.Mutex
	article domain.Article
}

// CatalogStore keeps one mutex per (branch, article) entry so the ledger's
// read-modify-write is serialized per key without blocking other keys. The
// outer lock only guards the map itself.
type CatalogStore struct {
	mu      sync.RWMutex
	entries map[articleKey]*articleEntry
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{entries: make(map[articleKey]*articleEntry)}
}

func (s *CatalogStore) lookup(branchID, articleID int) (*articleEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[articleKey{branchID: branchID, articleID: articleID}]
	return entry, ok
}

func (s *CatalogStore) GetArticle(_ context.Context, branchID, articleID int) (domain.Article, error) {
	entry, ok := s.lookup(branchID, articleID)
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.article, nil
}

func (s *CatalogStore) ListArticles(_ context.Context, branchID int) ([]domain.Article, error) {
	s.mu.RLock()
	entries := make([]*articleEntry, 0, len(s.entries))
	for key, entry := range s.entries {
		if key.branchID == branchID {
			entries = append(entries, entry)
		}
	}
	s.mu.RUnlock()

	out := make([]domain.Article, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, entry.article)
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArticleID < out[j].ArticleID })
	return out, nil
}

func (s *CatalogStore) ListBelowMinStock(_ context.Context) ([]domain.Article, error) {
	s.mu.RLock()
	entries := make([]*articleEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	out := make([]domain.Article, 0)
	for _, entry := range entries {
		entry.mu.Lock()
		if entry.article.BelowMinStock() {
			out = append(out, entry.article)
		}
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].ArticleID < out[j].ArticleID
	})
	return out, nil
}

func (s *CatalogStore) CreateArticle(_ context.Context, article domain.Article) (domain.Article, error) {
	key := articleKey{branchID: article.BranchID, articleID: article.ArticleID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; exists {
		return domain.Article{}, domain.ErrConflict
	}
	s.entries[key] = &articleEntry{article: article}
	return article, nil
}

func (s *CatalogStore) DeleteArticle(_ context.Context, branchID, articleID int) error {
	key := articleKey{branchID: branchID, articleID: articleID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists {
		return domain.ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *CatalogStore) AdjustStock(_ context.Context, branchID, articleID, amount int) (domain.Article, error) {
	entry, ok := s.lookup(branchID, articleID)
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.article.Stock+amount < 0 {
		return domain.Article{}, domain.ErrInsufficientStock
	}
	entry.article.Stock += amount
	return entry.article, nil
}

func (s *CatalogStore) AdjustReserved(_ context.Context, branchID, articleID, amount int) (domain.Article, error) {
	entry, ok := s.lookup(branchID, articleID)
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.article.Reserved+amount < 0 {
		return domain.Article{}, domain.ErrInsufficientStock
	}
	entry.article.Reserved += amount
	return entry.article, nil
}
