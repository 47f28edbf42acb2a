package httpserver

import (
	"net/http"

	"solarhub/internal/http/middleware"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Signup http.HandlerFunc
	Login  http.HandlerFunc
	Logout http.HandlerFunc

	EnergyData     http.HandlerFunc
	MonthTotals    http.HandlerFunc
	YearTotals     http.HandlerFunc
	DecadeTotals   http.HandlerFunc
	WeeklyCSV      http.HandlerFunc
	MonthCSV       http.HandlerFunc
	TwelveMonthCSV http.HandlerFunc

	RegisterBox http.HandlerFunc
	ListBoxes   http.HandlerFunc
	AddMeter    http.HandlerFunc
	GetMeter    http.HandlerFunc

	CreateCredentials http.HandlerFunc
	ResetPassword     http.HandlerFunc

	UploadDeclaration http.HandlerFunc
	RegisterDevices   http.HandlerFunc
	RedexFileID       http.HandlerFunc

	WS     http.HandlerFunc
	Health http.HandlerFunc
}

// NewRouter wires all HTTP routes. Handlers behind authMiddleware require a
// valid bearer token with a live session. The websocket endpoint authenticates
// during the upgrade handshake instead.
func NewRouter(routes Routes, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	mux.Handle("/auth/signup", method(http.MethodPost, routes.Signup))
	mux.Handle("/auth/login", method(http.MethodPost, routes.Login))
	mux.Handle("/auth/logout", method(http.MethodPost, authenticated(routes.Logout)))

	mux.Handle("/energy/energy-data", method(http.MethodGet, authenticated(routes.EnergyData)))
	mux.Handle("/energy/total/30", method(http.MethodGet, authenticated(routes.MonthTotals)))
	mux.Handle("/energy/total/12", method(http.MethodGet, authenticated(routes.YearTotals)))
	mux.Handle("/energy/total/year/10", method(http.MethodGet, authenticated(routes.DecadeTotals)))

	mux.Handle("/reports/download/csv/7", method(http.MethodGet, authenticated(routes.WeeklyCSV)))
	mux.Handle("/reports/download/csv/30", method(http.MethodGet, authenticated(routes.MonthCSV)))
	mux.Handle("/reports/download/csv/12", method(http.MethodGet, authenticated(routes.TwelveMonthCSV)))

	mux.Handle("/boxes", methods(map[string]http.Handler{
		http.MethodPost: authenticated(routes.RegisterBox),
		http.MethodGet:  authenticated(routes.ListBoxes),
	}))
	mux.Handle("/meter", methods(map[string]http.Handler{
		http.MethodPost: authenticated(routes.AddMeter),
		http.MethodGet:  authenticated(routes.GetMeter),
	}))

	mux.Handle("/users/credentials", method(http.MethodPost, authenticated(routes.CreateCredentials)))
	mux.Handle("/users/reset-password", method(http.MethodPost, authenticated(routes.ResetPassword)))

	mux.Handle("/redex/declaration", method(http.MethodPost, authenticated(routes.UploadDeclaration)))
	mux.Handle("/redex/register", method(http.MethodPost, authenticated(routes.RegisterDevices)))
	mux.Handle("/redex/file-id", method(http.MethodGet, authenticated(routes.RedexFileID)))

	mux.Handle("/ws", method(http.MethodGet, routes.WS))
	mux.Handle("/health", method(http.MethodGet, routes.Health))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func methods(byMethod map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
