package audit

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	appCtx "github.com/baechuer/real-time-ressys/services/user-service/internal/pkg/context"
)

// Logger provides structured audit logging for account business events.
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record writes one audit line. It matches the WithAudit hook of the
// application services. Emails are masked; failures log at warn.
func (l *Logger) Record(ctx context.Context, action string, fields map[string]string) {
	ev := l.log.Info()
	if r := fields["result"]; r == "failed" || r == "error" || r == "rejected" {
		ev = l.log.Warn()
	}

	ev = ev.Str("action", action)
	for k, v := range fields {
		if k == "email" {
			v = maskEmail(v)
		}
		ev = ev.Str(k, v)
	}
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	ev.Msg("audit")
}

// maskEmail keeps at most two leading runes of the local part and the
// domain. Anything without an '@' is fully masked.
func maskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || utf8.RuneCountInString(email) < 5 {
		return "***"
	}

	local := []rune(email[:at])
	keep := 2
	if len(local) < keep {
		keep = len(local)
	}
	return string(local[:keep]) + "***" + email[at:]
}
