package handlers

import (
	"fmt"
	"net/http"

	"slot-pricing-service/internal/api/dto"
	"slot-pricing-service/internal/domain"
	"slot-pricing-service/internal/ports"
	"slot-pricing-service/internal/services"
)

// CartHandler creates priced cart snapshots. Unknown or inactive products are
// rejected at this boundary, not silently filtered.
type CartHandler struct {
	Products ports.ProductRepository
	Carts    ports.CartRepository
}

func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CreateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, http.StatusBadRequest, "items must not be empty")
		return
	}

	products, err := h.Products.Products(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	cart := domain.Cart{CartID: services.NewCartID()}
	for _, it := range req.Items {
		if it.Qty < 1 {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("qty for product %q must be at least 1", it.ProductID))
			return
		}
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			writeError(w, r, http.StatusNotFound, fmt.Sprintf("unknown product %q", it.ProductID))
			return
		}
		cart.Items = append(cart.Items, domain.CartItem{ProductID: it.ProductID, Qty: it.Qty})
	}

	if err := h.Carts.CreateCart(r.Context(), cart); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CartSummaryResponse{
		CartID:        cart.CartID,
		SubtotalCents: cart.SubtotalCents(products),
		Items:         req.Items,
	})
}

// LocationHandler resolves addresses through the geocoder collaborator.
type LocationHandler struct {
	Geocoder  ports.Geocoder
	Locations ports.LocationRepository
}

func (h *LocationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ResolveLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	coords, canonical, err := h.Geocoder.Resolve(r.Context(), req.Address)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "address could not be resolved")
		return
	}

	loc := domain.Location{
		LocationID: services.NewLocationID(),
		Lat:        coords.Lat,
		Lon:        coords.Lon,
		Address:    canonical,
	}
	if err := h.Locations.CreateLocation(r.Context(), loc); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LocationResponse{
		LocationID: loc.LocationID,
		Lat:        loc.Lat,
		Lon:        loc.Lon,
		Address:    loc.Address,
	})
}
