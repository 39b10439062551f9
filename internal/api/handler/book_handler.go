package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/api"
	"github.com/RoyceAzure/lab/bookstore/internal/api/dto"
	"github.com/RoyceAzure/lab/bookstore/internal/api/errcode"
	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type BookHandler struct {
	bookService service.IBookService
}

func NewBookHandler(bookService service.IBookService) *BookHandler {
	if bookService == nil {
		panic("bookService cannot be nil")
	}
	return &BookHandler{bookService: bookService}
}

// bookResponse 顯示價為套用折扣後的 CurrentPrice，結帳仍以原價計算
type bookResponse struct {
	*model.Book
	CurrentPrice decimal.Decimal `json:"current_price"`
}

func newBookResponse(book *model.Book) bookResponse {
	return bookResponse{Book: book, CurrentPrice: book.CurrentPrice(time.Now().UTC())}
}

type bookListResponse struct {
	Books    []bookResponse `json:"books"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	books, total, err := h.bookService.ListBooks(r.Context(), page, pageSize)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}

	resp := make([]bookResponse, 0, len(books))
	for i := range books {
		resp = append(resp, newBookResponse(&books[i]))
	}
	api.SuccessJSON(w, bookListResponse{Books: resp, Total: total, Page: page, PageSize: pageSize})
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseUint(chi.URLParam(r, "bookID"), 10, 32)
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid book id")
		return
	}

	book, err := h.bookService.GetBook(r.Context(), uint(bookID))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, "book not found")
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
		return
	}
	api.SuccessJSON(w, newBookResponse(book))
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req dto.BookDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	book := req.ToModel()
	if err := h.bookService.CreateBook(r.Context(), book); err != nil {
		writeBookError(w, err)
		return
	}
	api.SuccessJSON(w, book)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseUint(chi.URLParam(r, "bookID"), 10, 32)
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid book id")
		return
	}

	var req dto.BookDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, "invalid request body")
		return
	}

	book := req.ToModel()
	book.BookID = uint(bookID)
	if err := h.bookService.UpdateBook(r.Context(), book); err != nil {
		writeBookError(w, err)
		return
	}
	api.SuccessJSON(w, book)
}

func writeBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBookTitleRequired), errors.Is(err, service.ErrNegativePrice):
		api.ErrorJSON(w, http.StatusBadRequest, errcode.BadRequest, err.Error())
	case errors.Is(err, service.ErrBookNotFound):
		api.ErrorJSON(w, http.StatusNotFound, errcode.NotFound, err.Error())
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, errcode.InternalError, err.Error())
	}
}
