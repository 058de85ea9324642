package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/retailforge/branch-inventory-service/internal/application"
	"github.com/retailforge/branch-inventory-service/internal/domain"
)

func pathInt(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id must be an integer")
		return
	}
	resp, err := h.service.ListArticles(r.Context(), branchID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) createArticle(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id must be an integer")
		return
	}
	var req application.CreateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.CreateArticle(r.Context(), branchID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	articleID, ok2 := pathInt(r, "article_id")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and article_id must be integers")
		return
	}
	resp, err := h.service.GetArticle(r.Context(), branchID, articleID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deleteArticle(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	articleID, ok2 := pathInt(r, "article_id")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and article_id must be integers")
		return
	}
	if err := h.service.DeleteArticle(r.Context(), branchID, articleID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "deleted")
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	articleID, ok2 := pathInt(r, "article_id")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and article_id must be integers")
		return
	}
	var req application.AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.ChangeStock(r.Context(), branchID, articleID, req.Amount)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listDeliveries(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id must be an integer")
		return
	}
	var status *domain.DeliveryStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseDeliveryStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		status = &parsed
	}
	resp, err := h.service.ListDeliveries(r.Context(), branchID, status)
	if err != nil {
		st, code, msg := mapDomainError(err)
		writeError(w, st, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getDelivery(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	orderNumber, ok2 := pathInt(r, "order_number")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and order_number must be integers")
		return
	}
	resp, err := h.service.GetDelivery(r.Context(), branchID, orderNumber)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listReorders(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id must be an integer")
		return
	}
	var status *domain.ReorderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseReorderStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		status = &parsed
	}
	resp, err := h.service.ListReorders(r.Context(), branchID, status)
	if err != nil {
		st, code, msg := mapDomainError(err)
		writeError(w, st, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getReorder(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	reorderID, ok2 := pathInt(r, "reorder_id")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and reorder_id must be integers")
		return
	}
	resp, err := h.service.GetReorder(r.Context(), branchID, reorderID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) changeReorderStatus(w http.ResponseWriter, r *http.Request) {
	branchID, ok := pathInt(r, "branch_id")
	reorderID, ok2 := pathInt(r, "reorder_id")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "branch_id and reorder_id must be integers")
		return
	}
	var req application.ReorderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return
	}
	resp, err := h.service.ChangeReorderStatus(r.Context(), branchID, reorderID, req.Status)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
