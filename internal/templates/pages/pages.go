// Package pages holds the small set of server-rendered pages the Go backend
// serves directly: the landing redirect and the error page. The public site
// and the admin panel are rendered from the JSON APIs; only failures and the
// root need a server-side HTML response.
package pages

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPage renders a minimal standalone error page for browser requests.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%d %s - Resonora</title>`+
				`<style>body{font-family:system-ui,sans-serif;background:#111;color:#eee;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}main{text-align:center}h1{font-size:4rem;margin:0 0 .5rem;font-weight:300}p{color:#999}</style>`+
				`</head><body><main><h1>%d</h1><p>%s</p><p><a href="/" style="color:#7aa2f7">Back to resonora.example</a></p></main></body></html>`,
			code, html.EscapeString(http.StatusText(code)),
			code, html.EscapeString(message),
		)
		return err
	})
}

// Landing renders the root page. In production the marketing front-end sits
// in front of this service, so the root only identifies the API.
func Landing() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<title>Resonora</title></head><body>`+
				`<h1>Resonora content service</h1>`+
				`<p>Public API under <code>/api</code>, admin panel under <code>/admin</code>.</p>`+
				`</body></html>`)
		return err
	})
}
