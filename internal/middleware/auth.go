package middleware

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/weeklyblog/internal/telemetry/tracing"
	"github.com/2beens/weeklyblog/internal/web"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}

const loginPath = "/admin/login"

// AdminOnly lets the request through only when the session cookie carries a live
// admin token, and redirects to the login page otherwise.
func AdminOnly(checker loginChecker, sessions *web.Sessions) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.adminOnly")
			defer span.End()

			token := sessions.AdminToken(r)
			if token == "" {
				log.Tracef("[missing token] [admin only] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-auth-token")
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			isLogged, err := checker.IsLogged(ctx, token)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if !isLogged {
				log.Tracef("[invalid token] [admin only] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "not-logged")
				if err := sessions.ClearAdminToken(w, r); err != nil {
					log.Errorf("admin only, clear stale token: %s", err)
				}
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
