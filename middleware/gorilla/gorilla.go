// Package gorilla mounts the Memberful webhook receiver on a gorilla/mux
// router. It reuses the net/http receiver; mux only contributes routing.
package gorilla

import (
	"net/http"

	"github.com/gorilla/mux"

	mwhttp "github.com/memberful/memberful-go/middleware/http"
)

// Register adds the webhook receiver at path:
//
//	if err := memberfulmux.Register(r, "/webhooks/memberful", cfg); err != nil { ... }
func Register(r *mux.Router, path string, config mwhttp.Config) error {
	handler, err := mwhttp.Handler(config)
	if err != nil {
		return err
	}
	r.Handle(path, handler).Methods(http.MethodPost)
	return nil
}
