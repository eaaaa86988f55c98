package handlers

import (
	"net/http"

	"ledger-server/src/logging"
	"ledger-server/src/models"
	"ledger-server/src/services"
)

func Register(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode register request body", err)
			return
		}

		resp, err := users.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, "registration failed", err)
			return
		}

		logging.FromContext(r.Context()).Info("registered user", "user_id", resp.User.ID)
		writeJSON(w, http.StatusCreated, resp)
	}
}

func Login(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &credentials); err != nil {
			writeError(w, r, "failed to decode login request body", err)
			return
		}

		resp, err := users.Login(r.Context(), credentials.Email, credentials.Password)
		if err != nil {
			writeError(w, r, "login failed", err)
			return
		}

		logging.FromContext(r.Context()).Info("user logged in", "user_id", resp.User.ID)
		writeJSON(w, http.StatusOK, resp)
	}
}
