package webapp

import (
	"net/http"

	"github.com/oneworldlabs/oneworld/web"
)

// Hub returns the handler serving the embedded game hub frontend.
// It expects to be mounted at the /webapp/ prefix: /webapp/ serves
// index.html and /webapp/static/ the scripts and styles.
func (h *Handlers) Hub() http.Handler {
	return http.StripPrefix("/webapp", http.FileServer(http.FS(web.FS)))
}
