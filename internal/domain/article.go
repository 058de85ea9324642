package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinArticleID = 100000
	MaxArticleID = math.MaxInt32
	MinPrice     = 0.05
)

// Article is one catalog entry within a branch. stock and reserved are the
// ledger counters; reserved may exceed stock, neither may go negative.
type Article struct {
	BranchID  int
	ArticleID int
	Name      string
	Price     float64
	MinStock  int
	Stock     int
	Reserved  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewArticle(branchID, articleID int, name string, price float64, minStock, stock int, now time.Time) (Article, error) {
	if err := ValidateArticleID(articleID); err != nil {
		return Article{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Article{}, fmt.Errorf("%w: article name must not be blank", ErrInvalidInput)
	}
	price = RoundPrice(price)
	if price < MinPrice {
		return Article{}, fmt.Errorf("%w: price must be at least %.2f", ErrInvalidInput, MinPrice)
	}
	if minStock < 0 {
		return Article{}, fmt.Errorf("%w: min_stock must not be negative", ErrInvalidInput)
	}
	if stock < 0 {
		return Article{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	return Article{
		BranchID:  branchID,
		ArticleID: articleID,
		Name:      strings.TrimSpace(name),
		Price:     price,
		MinStock:  minStock,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func ValidateArticleID(articleID int) error {
	if articleID < MinArticleID || articleID > MaxArticleID {
		return fmt.Errorf("%w: article_id must be between %d and %d", ErrInvalidInput, MinArticleID, MaxArticleID)
	}
	return nil
}

// RoundPrice rounds to two decimals, half up.
func RoundPrice(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Available is the quantity not yet held by reservations. Negative when the
// branch has reserved beyond physical stock.
func (a Article) Available() int {
	return a.Stock - a.Reserved
}

func (a Article) BelowMinStock() bool {
	return a.Available() < a.MinStock
}
