package daemon

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunServer exposes the CLI command tree over HTTP so lab automation can
// drive power operations against a shared host without a local install. A
// GET on an endpoint returns the command's help text; a POST runs the
// command with each body line as one argument.
func RunServer(rootCmd *cobra.Command) error {
	// Set up router
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(60*time.Second),
	)
	if viper.GetBool("daemon.require-auth") {
		router.Use(requireValidToken)
	}

	// Generate endpoints based on the command tree under `rootCmd`
	createCommandTree(router, "", rootCmd)

	// Launch server
	err := http.ListenAndServe(viper.GetString("daemon.endpoint"), router)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requireValidToken rejects requests that do not carry a parseable,
// unexpired bearer token. Power operations switch real hardware, so the
// daemon should not be run open on a shared network.
func requireValidToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		token, err := jwt.Parse([]byte(raw))
		if err != nil {
			http.Error(w, "invalid access token", http.StatusUnauthorized)
			return
		}
		if err := jwt.Validate(token); err != nil {
			http.Error(w, "expired or invalid access token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Add an endpoint for the given command, and repeat recursively for any subcommands
func createCommandTree(router *chi.Mux, endpoint string, cmd *cobra.Command) {
	endpoint = endpoint + "/" + cmd.Name()
	router.Get(endpoint, createHelpHandler(cmd))
	router.Post(endpoint, createCommandHandler(cmd))
	for _, childCmd := range cmd.Commands() {
		if childCmd.Runnable() || childCmd.HasSubCommands() {
			createCommandTree(router, endpoint, childCmd)
		}
	}
}

// Create an HTTP request handler that displays help for the given command
func createHelpHandler(cmd *cobra.Command) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd.SetOut(w)
		_ = cmd.Help()
		// Help() always returns nil; not sure why the function signature includes an error
	}
}

// Create an HTTP request handler that executes the given command
func createCommandHandler(cmd *cobra.Command) func(w http.ResponseWriter, r *http.Request) {
	// NOTE: Unset the command's parent so that it can execute on its own.
	// Otherwise, the Execute() call later will traverse up the command tree
	parent := cmd.Parent()
	if parent != nil {
		parent.RemoveCommand(cmd)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		cmd.SetOut(w)

		// Split out each body line as a separate argument
		body, err := io.ReadAll(r.Body)
		var args []string
		if err == nil {
			args = strings.Split(string(body), "\n")
		} else {
			args = []string{}
		}
		cmd.SetArgs(args)

		// Run the actual command
		err = cmd.Execute()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
