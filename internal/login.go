package sonicmgmt

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/browser"
)

// Login initiates the process to retrieve an access token from the lab's
// identity provider. It opens the login URL in a browser and stands up a
// temporary server to receive the token on its way back.
//
// The targetHost and targetPort parameters point at the host/port for the
// temporary server. If targetHost is empty or the port is out of range,
// neither is used and no redirect target is added to the URL.
//
// Returns the access token if successful. Otherwise, returns an empty string
// with an error set.
func Login(loginUrl string, targetHost string, targetPort int) (string, error) {
	var accessToken string

	if loginUrl == "" {
		return "", fmt.Errorf("no login URL provided")
	}

	if targetHost != "" && targetPort > 0 && targetPort < 65536 {
		loginUrl += fmt.Sprintf("?target=http://%s:%d", targetHost, targetPort)
	}

	err := browser.OpenURL(loginUrl)
	if err != nil {
		return "", fmt.Errorf("failed to open browser: %v", err)
	}

	// temporary server that listens for the token then shuts itself down
	s := http.Server{
		Addr: fmt.Sprintf("%s:%d", targetHost, targetPort),
	}
	r := chi.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		accessToken = r.Header.Get("access_token")
		s.Close()
	})
	s.Handler = r
	return accessToken, s.ListenAndServe()
}
