package controllers

import (
	"net/http"

	"github.com/angelmondragon/procurement-backend/api/responses"
	"github.com/angelmondragon/procurement-backend/pkg/types"
)

const (
	apiName    = "askLio Procurement API"
	apiVersion = "1.0.0"
)

func Info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.MessageResponse{Message: apiName, Version: apiVersion})
	}
}
