// Package http exposes the authorization engine over a JSON API. Routing
// uses the standard mux with method patterns; cross-cutting behaviour
// (request logging, bearer auth, rate limits) comes from pkg/httpx and
// pkg/slogx middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yohannes4321/MissionForNation/internal/org/service"
	"github.com/yohannes4321/MissionForNation/internal/org/store"
	"github.com/yohannes4321/MissionForNation/pkg/httpx"
	"github.com/yohannes4321/MissionForNation/pkg/slogx"
)

const readyTimeout = 2 * time.Second

// Services bundles the service layer for the router.
type Services struct {
	Users       *service.UserService
	Orgs        *service.OrganizationService
	Members     *service.MemberService
	Invitations *service.InvitationService
	Content     *service.ContentService
}

// NewRouter builds the full route table.
//
// Unauthenticated endpoints are limited per IP; authenticated ones per user.
// Credential and token-redeeming endpoints sit behind the strict profile.
func NewRouter(svc Services, verifier httpx.Verifier, st store.Store, log *slog.Logger) http.Handler {
	auth := &authHandlers{users: svc.Users}
	orgs := &orgHandlers{orgs: svc.Orgs}
	members := &memberHandlers{members: svc.Members}
	invitations := &invitationHandlers{invitations: svc.Invitations}
	content := &contentHandlers{content: svc.Content}

	authn := httpx.AuthnMiddleware(verifier)

	public := func(h http.HandlerFunc, cfg httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h, httpx.RateLimitByIP(cfg))
	}
	protected := func(h http.HandlerFunc, cfg httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(h, authn, httpx.RateLimitByUser(cfg))
	}

	mux := http.NewServeMux()

	mux.Handle("POST /auth/register", public(auth.register, httpx.StrictLimit))
	mux.Handle("POST /auth/login", public(auth.login, httpx.StrictLimit))
	mux.Handle("GET /auth/me", protected(auth.me, httpx.LenientLimit))

	mux.Handle("POST /orgs", protected(orgs.create, httpx.ModerateLimit))
	mux.Handle("GET /orgs", protected(orgs.list, httpx.LenientLimit))
	mux.Handle("GET /orgs/{orgID}", protected(orgs.get, httpx.LenientLimit))
	mux.Handle("POST /orgs/{orgID}/regions", protected(orgs.createRegion, httpx.ModerateLimit))
	mux.Handle("GET /orgs/{orgID}/regions", protected(orgs.listRegions, httpx.LenientLimit))

	mux.Handle("GET /orgs/{orgID}/members", protected(members.list, httpx.LenientLimit))
	mux.Handle("PATCH /orgs/{orgID}/members/{membershipID}", protected(members.changeRole, httpx.ModerateLimit))
	mux.Handle("DELETE /orgs/{orgID}/members/{membershipID}", protected(members.remove, httpx.ModerateLimit))

	mux.Handle("POST /orgs/{orgID}/invitations", protected(invitations.create, httpx.ModerateLimit))
	mux.Handle("GET /orgs/{orgID}/invitations", protected(invitations.list, httpx.LenientLimit))
	mux.Handle("GET /invitations/{invitationID}", protected(invitations.get, httpx.LenientLimit))
	mux.Handle("POST /invitations/{invitationID}/accept", protected(invitations.accept, httpx.StrictLimit))
	mux.Handle("POST /invitations/{invitationID}/revoke", protected(invitations.revoke, httpx.ModerateLimit))
	mux.Handle("POST /invitations/{invitationID}/resend", protected(invitations.resend, httpx.ModerateLimit))

	mux.Handle("POST /regions/{regionID}/content", protected(content.create, httpx.ModerateLimit))
	mux.Handle("GET /regions/{regionID}/content", protected(content.list, httpx.LenientLimit))
	mux.Handle("GET /content/{contentID}", protected(content.get, httpx.LenientLimit))
	mux.Handle("PATCH /content/{contentID}", protected(content.update, httpx.ModerateLimit))
	mux.Handle("DELETE /content/{contentID}", protected(content.remove, httpx.ModerateLimit))

	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			httpx.WriteError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return slogx.HTTPMiddleware(log)(mux)
}
