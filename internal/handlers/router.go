package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter mounts the auth endpoints under /api/user.
// withAccess guards endpoints that need a valid access token,
// withRefresh guards the two refresh token endpoints.
func NewRouter(
	auth *AuthHandler,
	withAccess func(http.Handler) http.Handler,
	withRefresh func(http.Handler) http.Handler,
	mds ...func(http.Handler) http.Handler,
) http.Handler {
	apiuser := http.NewServeMux()

	apiuser.Handle("POST /register", http.HandlerFunc(auth.Register))
	apiuser.Handle("POST /login", http.HandlerFunc(auth.Login))
	apiuser.Handle("GET /me", withAccess(http.HandlerFunc(auth.Me)))
	apiuser.Handle("GET /newAuthToken", withRefresh(http.HandlerFunc(auth.NewAuthToken)))
	apiuser.Handle("DELETE /logout", withRefresh(http.HandlerFunc(auth.Logout)))

	root := http.NewServeMux()
	root.Handle("/api/user/", http.StripPrefix("/api/user", apiuser))

	return chain(root, mds...)
}
