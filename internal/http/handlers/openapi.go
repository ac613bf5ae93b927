package handlers

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

const openAPIPath = "/v1/openapi.json"

var (
	openAPIETag = func() string {
		sum := sha256.Sum256(openAPISpec)
		return `"` + hex.EncodeToString(sum[:8]) + `"`
	}()

	redocHTML = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Temple Crowdfunding API</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body { margin: 0; padding: 0; }
      redoc { display: block; height: 100vh; }
    </style>
  </head>
  <body>
    <redoc spec-url=%q></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`, openAPIPath)
)

// OpenAPIJSON serves the embedded API description. Clients holding the
// current ETag get 304.
func (a *App) OpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", openAPIETag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if r.Header.Get("If-None-Match") == openAPIETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(redocHTML))
}
