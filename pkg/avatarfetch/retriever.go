// Downloads derived avatar URLs to a local directory, one file per generator
package avatarfetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/function61/gokit/log/logex"
	"github.com/function61/gokit/net/http/ezhttp"
	"github.com/function61/gravatars/pkg/gravatar"
	"github.com/function61/gravatars/pkg/safefilename"
)

const (
	DefaultSaveDir = "gravatars"

	chunkSize = 32 * 1024
)

type Options struct {
	// nil = http.DefaultClient
	HTTPClient *http.Client
	// <= 1 processes items strictly one at a time
	Parallelism int
}

type Retriever struct {
	opts Options
	logl *logex.Leveled
}

func New(opts Options, logger *log.Logger) *Retriever {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Retriever{
		opts: opts,
		logl: logex.Levels(logger),
	}
}

type item struct {
	generator gravatar.Generator
	url       string
	path      string
}

// RetrieveAll saves each URL of the mapping into saveDir. Failed items are logged
// and skipped. Returns paths of fully saved files, in canonical generator order.
func (r *Retriever) RetrieveAll(
	ctx context.Context,
	urls gravatar.URLMapping,
	email string,
	saveDir string,
) []string {
	if err := os.MkdirAll(saveDir, 0755); err != nil {
		r.logl.Error.Printf("create %s: %v", saveDir, err)
		return []string{}
	}

	items := []item{}
	for _, gen := range urls.Generators() {
		items = append(items, item{
			generator: gen,
			url:       urls[gen],
			path:      filepath.Join(saveDir, Filename(email, gen)),
		})
	}

	// one slot per item so workers never share state
	saved := make([]bool, len(items))

	if r.opts.Parallelism <= 1 {
		for idx, it := range items {
			saved[idx] = r.retrieveLogged(ctx, it)
		}
	} else {
		r.retrieveParallel(ctx, items, saved)
	}

	paths := []string{}
	for idx, it := range items {
		if saved[idx] {
			paths = append(paths, it.path)
		}
	}

	return paths
}

// "<sanitized email>_<generator>.png"
func Filename(email string, gen gravatar.Generator) string {
	return fmt.Sprintf("%s_%s.png", safefilename.Sanitize(email), safefilename.Sanitize(string(gen)))
}

func (r *Retriever) retrieveParallel(ctx context.Context, items []item, saved []bool) {
	jobs := make(chan int, len(items))
	for idx := range items {
		jobs <- idx
	}
	close(jobs)

	workers := min(r.opts.Parallelism, len(items))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				saved[idx] = r.retrieveLogged(ctx, items[idx])
			}
		}()
	}

	wg.Wait()
}

func (r *Retriever) retrieveLogged(ctx context.Context, it item) bool {
	if err := r.retrieve(ctx, it); err != nil {
		r.logl.Error.Printf("%s: %v", it.generator, err)
		return false
	}

	return true
}

func (r *Retriever) retrieve(ctx context.Context, it item) error {
	// non-2xx responses are reported as errors by ezhttp
	resp, err := ezhttp.Get(ctx, it.url, ezhttp.Client(r.opts.HTTPClient))
	if err != nil {
		return fmt.Errorf("GET %s: %w", it.url, err)
	}
	defer resp.Body.Close()

	// truncates existing file. a failed copy leaves the partial file in place.
	file, err := os.Create(it.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", it.path, err)
	}
	defer file.Close()

	// wrappers hide ReadFrom/WriteTo so the copy really goes through our buffer
	if _, err := io.CopyBuffer(
		struct{ io.Writer }{file},
		struct{ io.Reader }{resp.Body},
		make([]byte, chunkSize),
	); err != nil {
		return fmt.Errorf("copy %s: %w", it.path, err)
	}

	return file.Close()
}
