package handlers

import (
	"errors"
	"net/http"
	"strings"

	"olympics-storefront/internal/api"
	"olympics-storefront/internal/middleware"
	"olympics-storefront/internal/models"
	"olympics-storefront/internal/services"
)

// AuthHandler handles login, registration and logout against the session store
type AuthHandler struct {
	renderer *Renderer
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(renderer *Renderer) *AuthHandler {
	return &AuthHandler{renderer: renderer}
}

type loginData struct {
	Email    string
	Redirect string
	Error    string
}

type registerData struct {
	Email     string
	FirstName string
	LastName  string
	Error     string
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := loginData{Redirect: middleware.SafeRedirect(r.URL.Query().Get("redirect"), "/profil")}
	h.renderer.Render(w, http.StatusOK, "login", newPage(r, "Connexion", data))
}

// LoginSubmit logs the visitor in and sends them where they were going
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	data := loginData{
		Email:    email,
		Redirect: middleware.SafeRedirect(r.FormValue("redirect"), "/profil"),
	}

	store := middleware.GetSession(r.Context())
	if store == nil {
		http.Error(w, "Session indisponible", http.StatusInternalServerError)
		return
	}

	user, err := store.Login(r.Context(), email, password)
	if err != nil {
		data.Error = loginErrorMessage(err)
		h.renderer.Render(w, http.StatusUnprocessableEntity, "login", newPage(r, "Connexion", data))
		return
	}

	setFlash(r, FlashSuccess, "Bienvenue, "+user.FirstName+" !")
	http.Redirect(w, r, data.Redirect, http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "Veuillez saisir votre e-mail et votre mot de passe."
	case api.StatusCode(err) == http.StatusUnauthorized, api.StatusCode(err) == http.StatusForbidden:
		return "E-mail ou mot de passe incorrect."
	}
	return errorMessage(err)
}

// RegisterPage renders the sign-up form
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", newPage(r, "Inscription", registerData{}))
}

// RegisterSubmit creates the account. The visitor still has to log in.
func (h *AuthHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulaire invalide", http.StatusBadRequest)
		return
	}

	req := models.RegisterRequest{
		Email:     strings.TrimSpace(r.FormValue("email")),
		LastName:  strings.TrimSpace(r.FormValue("nom")),
		FirstName: strings.TrimSpace(r.FormValue("prenom")),
		Password:  r.FormValue("password"),
	}
	data := registerData{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}

	store := middleware.GetSession(r.Context())
	if store == nil {
		http.Error(w, "Session indisponible", http.StatusInternalServerError)
		return
	}

	if _, err := store.Register(r.Context(), req); err != nil {
		data.Error = registerErrorMessage(err)
		h.renderer.Render(w, http.StatusUnprocessableEntity, "register", newPage(r, "Inscription", data))
		return
	}

	setFlash(r, FlashSuccess, "Inscription réussie ! Vous pouvez maintenant vous connecter.")
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidEmail):
		return "Adresse e-mail invalide."
	case errors.Is(err, models.ErrNameRequired):
		return "Le nom et le prénom sont obligatoires."
	case errors.Is(err, models.ErrPasswordRequired):
		return "Le mot de passe est obligatoire."
	}
	return errorMessage(err)
}

// Logout ends the session and drops per-visitor state tied to the account
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if store := middleware.GetSession(r.Context()); store != nil {
		store.Logout()
		kv := store.KV()
		for _, key := range []string{services.ReservationKey, cartSnapshotKey} {
			kv.Remove(key)
		}
	}

	setFlash(r, FlashInfo, "Vous êtes déconnecté.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
