package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cragmatch/cragmatch/internal/app"
	"github.com/cragmatch/cragmatch/internal/auth"
	"github.com/cragmatch/cragmatch/internal/climber"
	"github.com/cragmatch/cragmatch/internal/db"
	svcErr "github.com/cragmatch/cragmatch/internal/errors"
)

type handlers struct {
	appCtx *app.AppContext
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.appCtx.Logger.Error("failed to encode response", "err", err)
	}
}

type authRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// authWithPassword exchanges email + password for a bearer token and the
// caller's own record.
func (h *handlers) authWithPassword(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		svcErr.JSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Identity == "" || req.Password == "" {
		svcErr.JSON(w, http.StatusBadRequest, "identity and password are required")
		return
	}

	var user db.User
	if err := h.appCtx.DB.WithContext(r.Context()).Where("email = ?", req.Identity).First(&user).Error; err != nil {
		// Same response for unknown identity and wrong password.
		svcErr.JSON(w, http.StatusBadRequest, "failed to authenticate")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		svcErr.JSON(w, http.StatusBadRequest, "failed to authenticate")
		return
	}

	token, err := auth.GenerateToken(h.appCtx.Config, user.ID, user.Email)
	if err != nil {
		h.appCtx.Logger.Error("failed to sign token", "err", err)
		svcErr.Write(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"record": user.Record(),
	})
}

type listEnvelope struct {
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalItems int               `json:"totalItems"`
	Items      []climber.Climber `json:"items"`
}

// listRecords serves the full roster as one page. Cache-first: the
// serialized envelope lives in Redis until a write invalidates it.
func (h *handlers) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := h.appCtx.RedisCache.GetRoster(ctx); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cached))
		return
	}

	var users []db.User
	if err := h.appCtx.DB.WithContext(ctx).Order("created_at, id").Find(&users).Error; err != nil {
		h.appCtx.Logger.Error("failed to list records", "err", err)
		svcErr.Write(w, err)
		return
	}

	items := make([]climber.Climber, 0, len(users))
	for i := range users {
		items = append(items, users[i].Record())
	}
	env := listEnvelope{
		Page:       1,
		PerPage:    len(items),
		TotalItems: len(items),
		Items:      items,
	}

	payload, err := json.Marshal(env)
	if err != nil {
		svcErr.Write(w, err)
		return
	}
	if err := h.appCtx.RedisCache.SetRoster(ctx, string(payload)); err != nil {
		h.appCtx.Logger.Warn("failed to cache roster", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// getRecord serves a single user record.
func (h *handlers) getRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var user db.User
	if err := h.appCtx.DB.WithContext(r.Context()).First(&user, "id = ?", id).Error; err != nil {
		svcErr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user.Record())
}

// recordPatch carries the updatable record fields. Pointers distinguish
// "absent" from "set to empty". The legacy liked_users field is not
// writable; per-mode sets replaced it.
type recordPatch struct {
	Name         *string             `json:"name"`
	Age          *int                `json:"age"`
	Grade        *climber.Grade      `json:"grade"`
	Styles       *climber.StyleList  `json:"climbing_styles"`
	HomeGym      *string             `json:"home_gym"`
	Bio          *string             `json:"bio"`
	Avatar       *string             `json:"avatar"`
	Intents      *climber.IntentList `json:"intent"`
	LikedDating  *climber.IDList     `json:"liked_dating"`
	LikedPartner *climber.IDList     `json:"liked_partner"`
}

// patchRecord updates the caller's own record. The write is an
// unconditional overwrite of the supplied fields; there is no concurrency
// token, so two sessions race last-writer-wins.
func (h *handlers) patchRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := requestClaims(r)
	if claims == nil || claims.UserID != id {
		svcErr.JSON(w, http.StatusForbidden, "records can only be updated by their owner")
		return
	}

	var patch recordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		svcErr.JSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setJSON := func(column string, v any) {
		encoded, err := json.Marshal(v)
		if err == nil {
			updates[column] = string(encoded)
		}
	}

	setString("name", patch.Name)
	setString("home_gym", patch.HomeGym)
	setString("bio", patch.Bio)
	setString("avatar", patch.Avatar)
	if patch.Age != nil {
		updates["age"] = *patch.Age
	}
	if patch.Grade != nil {
		setJSON("grade", *patch.Grade)
	}
	if patch.Styles != nil {
		setJSON("climbing_styles", *patch.Styles)
	}
	if patch.Intents != nil {
		setJSON("intent", *patch.Intents)
	}
	if patch.LikedDating != nil {
		setJSON("liked_dating", *patch.LikedDating)
	}
	if patch.LikedPartner != nil {
		setJSON("liked_partner", *patch.LikedPartner)
	}

	if len(updates) == 0 {
		svcErr.JSON(w, http.StatusBadRequest, "no updatable fields in request")
		return
	}

	ctx := r.Context()
	var user db.User
	if err := h.appCtx.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		svcErr.Write(w, err)
		return
	}
	if err := h.appCtx.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		h.appCtx.Logger.Error("failed to update record", "id", id, "err", err)
		svcErr.Write(w, err)
		return
	}

	if err := h.appCtx.RedisCache.InvalidateRoster(ctx); err != nil {
		h.appCtx.Logger.Warn("failed to invalidate roster cache", "err", err)
	}

	if err := h.appCtx.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		svcErr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user.Record())
}
