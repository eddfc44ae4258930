// Package chi mounts the Memberful webhook receiver on a chi router.
// It reuses the net/http receiver; chi only contributes routing.
package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mwhttp "github.com/memberful/memberful-go/middleware/http"
)

// Mount registers the webhook receiver at path:
//
//	if err := memberfulchi.Mount(r, "/webhooks/memberful", cfg); err != nil { ... }
func Mount(r chi.Router, path string, config mwhttp.Config) error {
	handler, err := mwhttp.Handler(config)
	if err != nil {
		return err
	}
	r.Method(http.MethodPost, path, handler)
	return nil
}
