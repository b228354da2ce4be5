// Package csrf provides double-submit CSRF protection.
//
// Two things live here: the token primitive (secret generation, one-way token
// derivation, constant-time verification) shared with the session-backed
// scheme in core/session, and Guard, a storeless middleware that embeds the
// secret in a signed JWT cookie instead of a server-side record.
//
// # Double-submit property
//
// The secret only ever travels inside the signed, HttpOnly cookie, which
// cross-origin script can neither read nor forge. Tokens derived from the
// secret are exposed freely via a response header; presenting one back in the
// request header proves the client can read same-origin responses. An
// attacker who cannot read cross-origin response headers never learns a value
// that passes verification.
//
// # Usage
//
//	guard, err := csrf.New(cfg)
//	if err != nil {
//		return err
//	}
//	mux := http.NewServeMux()
//	// ... register handlers ...
//	srv := &http.Server{Handler: guard.Middleware(mux)}
//
// A login handler can fold identity claims into the same signed cookie
// without losing the anti-forgery secret:
//
//	_, err := guard.Reissue(w, r, map[string]any{"sub": user.ID.String()})
package csrf
