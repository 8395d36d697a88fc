package controllers

import (
	"net/http"

	"github.com/angelmondragon/procurement-backend/api/responses"
	"github.com/angelmondragon/procurement-backend/internal/commodities"
)

// CommodityGroups lists the fixed catalog in definition order.
func CommodityGroups() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, commodities.List())
	}
}
