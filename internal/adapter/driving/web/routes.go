package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all portal routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("GET /portal", h.Portal)

	mux.HandleFunc("GET /registro", h.RegistrationForm)
	mux.HandleFunc("POST /registro", h.Register)

	mux.HandleFunc("GET /actualizar_datos", h.ProfileForm)
	mux.HandleFunc("POST /actualizar_datos", h.UpdateProfile)

	mux.HandleFunc("GET /comprar_bono", h.SearchPhysicians)
	mux.HandleFunc("POST /confirmar_compra", h.ConfirmPurchase)
	mux.HandleFunc("GET /ver_bono", h.ListVouchers)
}
