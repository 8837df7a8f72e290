package handlers

import (
	"log"
	"net/http"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, ErrorResponse{Success: false, Error: userMsg})
}

func respondValidationError(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Success: false,
		Error:   "Validation error",
		Details: err.Error(),
	})
}
