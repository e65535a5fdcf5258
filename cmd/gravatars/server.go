package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/function61/gokit/encoding/jsonfile"
	"github.com/function61/gokit/log/logex"
	"github.com/function61/gokit/net/http/httputils"
	"github.com/function61/gokit/os/osutil"
	"github.com/function61/gravatars/pkg/gravatar"
	"github.com/function61/gravatars/pkg/gravatartypes"
	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
)

const (
	defaultPreviewSize = 100
)

func serveEntry(conf *config, logger *log.Logger) *cobra.Command {
	addr := conf.ListenAddr

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			osutil.ExitIfError(runStandaloneServer(
				osutil.CancelOnInterruptOrTerminate(logger),
				addr,
				logger))
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "", addr, "Address to listen on")

	return cmd
}

// for standalone use
func runStandaloneServer(ctx context.Context, addr string, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newServerHandler(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logex.Levels(logger).Info.Printf("listening on %s", addr)

	return httputils.CancelableServer(ctx, srv, srv.ListenAndServe)
}

func newServerHandler(logger *log.Logger) http.Handler {
	router := mux.NewRouter()

	// only derived URLs are cached, never image bytes
	derived := cache.New(10*time.Minute, 20*time.Minute)

	deriveCached := func(query url.Values) (*gravatartypes.URLs, error) {
		key, err := cacheKey(query)
		if err != nil {
			return nil, err
		}

		if cached, found := derived.Get(key); found {
			return cached.(*gravatartypes.URLs), nil
		}

		urls, err := deriveFromQuery(query)
		if err != nil {
			return nil, err
		}

		derived.Set(key, urls, cache.DefaultExpiration)

		return urls, nil
	}

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		renderPreview(w, previewPage{Size: defaultPreviewSize}, logger)
	}).Methods(http.MethodGet)

	router.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		urls, err := deriveCached(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		page := previewPage{
			Email: r.URL.Query().Get("email"),
			Size:  urls.Size,
		}

		for _, gen := range urls.URLs.Generators() {
			page.Images = append(page.Images, previewImage{
				Generator: string(gen),
				URL:       urls.URLs[gen],
			})
		}

		renderPreview(w, page, logger)
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/urls", func(w http.ResponseWriter, r *http.Request) {
		urls, err := deriveCached(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = jsonfile.Marshal(w, urls)
	}).Methods(http.MethodGet)

	return router
}

func renderPreview(w http.ResponseWriter, page previewPage, logger *log.Logger) {
	// the page embeds the email, don't let proxies hold onto it
	httputils.NoCacheHeaders(w)
	w.Header().Set("Content-Type", "text/html")

	if err := previewHtmlTpl.Execute(w, page); err != nil {
		logex.Levels(logger).Error.Printf("renderPreview: %v", err)
	}
}

// query: email (required), size (default 100), d (repeatable, default all generators)
func deriveFromQuery(query url.Values) (*gravatartypes.URLs, error) {
	email, size, generators, err := parseQuery(query)
	if err != nil {
		return nil, err
	}

	digest, err := gravatar.Digest(email)
	if err != nil {
		return nil, err
	}

	urls, err := gravatar.DeriveURLs(email, size, generators...)
	if err != nil {
		return nil, err
	}

	return &gravatartypes.URLs{
		Digest: digest,
		Size:   size,
		URLs:   urls,
	}, nil
}

func parseQuery(query url.Values) (string, int, []gravatar.Generator, error) {
	email := query.Get("email")
	if email == "" {
		return "", 0, nil, errors.New("'email' not set")
	}

	size := defaultPreviewSize
	if sizeParam := query.Get("size"); sizeParam != "" {
		var err error
		size, err = strconv.Atoi(sizeParam)
		if err != nil {
			return "", 0, nil, fmt.Errorf("'size' not valid: %v", err)
		}
	}

	generators, err := parseGenerators(query["d"])
	if err != nil {
		return "", 0, nil, err
	}

	return email, size, generators, nil
}

// requests differing only by email case map to the same entry
func cacheKey(query url.Values) (string, error) {
	email, size, generators, err := parseQuery(query)
	if err != nil {
		return "", err
	}

	genNames := []string{}
	for _, gen := range generators {
		genNames = append(genNames, string(gen))
	}

	return fmt.Sprintf("%s|%d|%s", strings.ToLower(email), size, strings.Join(genNames, ",")), nil
}
