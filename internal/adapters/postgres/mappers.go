package postgres

import (
	"encoding/json"

	"github.com/retailforge/branch-inventory-service/internal/domain"
)

func toDomainArticle(m articleModel) domain.Article {
	return domain.Article{
		BranchID: m.BranchID, ArticleID: m.ArticleID, Name: m.Name, Price: m.Price,
		MinStock: m.MinStock, Stock: m.Stock, Reserved: m.Reserved,
		CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

type deliveryArticleDoc struct {
	ArticleID int    `json:"article_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
}

func toDomainDelivery(m deliveryModel) (domain.Delivery, error) {
	var docs []deliveryArticleDoc
	if len(m.Articles) > 0 {
		if err := json.Unmarshal(m.Articles, &docs); err != nil {
			return domain.Delivery{}, err
		}
	}
	articles := make([]domain.DeliveryArticle, 0, len(docs))
	for _, doc := range docs {
		articles = append(articles, domain.DeliveryArticle{
			ArticleID: doc.ArticleID,
			Quantity:  doc.Quantity,
			Status:    domain.DeliveryArticleStatus(doc.Status),
		})
	}
	return domain.Delivery{
		BranchID:    m.BranchID,
		OrderNumber: m.OrderNumber,
		Status:      domain.DeliveryStatus(m.Status),
		Articles:    articles,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func marshalDeliveryArticles(articles []domain.DeliveryArticle) ([]byte, error) {
	docs := make([]deliveryArticleDoc, 0, len(articles))
	for _, a := range articles {
		docs = append(docs, deliveryArticleDoc{
			ArticleID: a.ArticleID,
			Quantity:  a.Quantity,
			Status:    string(a.Status),
		})
	}
	return json.Marshal(docs)
}

func toDomainReorder(m reorderModel) domain.Reorder {
	return domain.Reorder{
		BranchID: m.BranchID, ReorderID: m.ReorderID, ArticleID: m.ArticleID,
		Quantity: m.Quantity, Status: domain.ReorderStatus(m.Status),
		Date: m.Date, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}
