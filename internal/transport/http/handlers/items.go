package http_handlers

import (
	"net/http"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/application/items"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/dto"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

type ItemsHandler struct {
	svc *items.Service
}

func NewItemsHandler(svc *items.Service) *ItemsHandler {
	return &ItemsHandler{svc: svc}
}

func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewItemList(list))
}

func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	it, err := h.svc.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.Created(w, dto.NewItemResponse(it))
}
