package handlers

import (
	"net/http"

	"ledger-server/src/logging"
	"ledger-server/src/services"
)

func GetUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := users.GetUser(r.Context(), userID(r))
		if err != nil {
			writeError(w, r, "failed to get user", err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func UpdateUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode update user request body", err)
			return
		}
		user, err := users.UpdateName(r.Context(), userID(r), req.Name)
		if err != nil {
			writeError(w, r, "failed to update user", err)
			return
		}
		logging.FromContext(r.Context()).Info("updated user")
		writeJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, "failed to decode change password request body", err)
			return
		}
		if err := users.ChangePassword(r.Context(), userID(r), req.CurrentPassword, req.NewPassword); err != nil {
			writeError(w, r, "failed to change password", err)
			return
		}
		logging.FromContext(r.Context()).Info("changed password")
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteUser(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.DeleteUser(r.Context(), userID(r)); err != nil {
			writeError(w, r, "failed to delete user", err)
			return
		}
		logging.FromContext(r.Context()).Info("deleted user")
		w.WriteHeader(http.StatusNoContent)
	}
}
