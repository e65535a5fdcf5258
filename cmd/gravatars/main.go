package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/apex/gateway"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/function61/gokit/app/dynversion"
	"github.com/function61/gokit/log/logex"
	"github.com/function61/gokit/os/osutil"
	"github.com/function61/gravatars/pkg/avatarfetch"
	"github.com/function61/gravatars/pkg/gravatar"
	"github.com/spf13/cobra"
)

func main() {
	rootLogger := logex.StandardLogger()

	// Lambda doesn't give us argv. the runtime sets function name so use that for detection.
	if lambdacontext.FunctionName != "" {
		osutil.ExitIfError(gateway.ListenAndServe("", newServerHandler(rootLogger)))
		return // shouldn't ever reach here
	}

	conf, ok := loadConfigOrReport(os.Stdout)
	if !ok {
		return
	}

	saveDir := conf.SaveDir
	parallelism := conf.Parallelism
	generatorNames := []string{}

	app := &cobra.Command{
		Use:     os.Args[0] + " [email] [size]",
		Short:   "Download Gravatars of an email in every generated style",
		Version: dynversion.Version,
		Args:    cobra.ExactArgs(2),
		// we print errors ourselves (to stdout, like the rest of our output)
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			printIfError(fetch(
				osutil.CancelOnInterruptOrTerminate(rootLogger),
				args[0],
				args[1],
				generatorNames,
				saveDir,
				avatarfetch.Options{
					HTTPClient:  &http.Client{Timeout: conf.HTTPTimeout},
					Parallelism: parallelism,
				},
				rootLogger,
				os.Stdout))
		},
	}

	app.Flags().StringVarP(&saveDir, "dir", "", saveDir, "Directory to save images to")
	app.Flags().IntVarP(&parallelism, "parallel", "p", parallelism, "How many downloads to run at once")
	app.Flags().StringSliceVarP(&generatorNames, "generator", "d", generatorNames, "Generator to download (repeatable). Default: all")

	app.AddCommand(&cobra.Command{
		Use:   "urls [email] [size]",
		Short: "Print avatar URLs without downloading",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			printIfError(printURLs(args[0], args[1], rootLogger, os.Stdout))
		},
	})

	app.AddCommand(serveEntry(conf, rootLogger))

	app.AddCommand(clientEntry())

	// argument errors end up here. exit code is deliberately not used for signaling.
	printIfError(app.Execute())
}

func fetch(
	ctx context.Context,
	email string,
	sizeArg string,
	generatorNames []string,
	saveDir string,
	opts avatarfetch.Options,
	logger *log.Logger,
	output io.Writer,
) error {
	urls, err := deriveFromArgs(email, sizeArg, generatorNames, logger)
	if err != nil {
		return err
	}

	saved := avatarfetch.New(opts, logger).RetrieveAll(ctx, urls, email, saveDir)

	for _, path := range saved {
		fmt.Fprintf(output, "Saved %s\n", path)
	}

	fmt.Fprintf(output, "Downloaded %d gravatar(s)\n", len(saved))

	return nil
}

func printURLs(email string, sizeArg string, logger *log.Logger, output io.Writer) error {
	urls, err := deriveFromArgs(email, sizeArg, nil, logger)
	if err != nil {
		return err
	}

	for _, gen := range urls.Generators() {
		fmt.Fprintln(output, urls[gen])
	}

	return nil
}

// argument errors are returned. derivation errors are only logged and yield an
// empty mapping.
func deriveFromArgs(
	email string,
	sizeArg string,
	generatorNames []string,
	logger *log.Logger,
) (gravatar.URLMapping, error) {
	size, err := strconv.Atoi(sizeArg)
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}

	generators, err := parseGenerators(generatorNames)
	if err != nil {
		return nil, err
	}

	urls, err := gravatar.DeriveURLs(email, size, generators...)
	if err != nil {
		logex.Levels(logger).Error.Println(err)
	}

	return urls, nil
}

func parseGenerators(names []string) ([]gravatar.Generator, error) {
	generators := []gravatar.Generator{}

	for _, name := range names {
		gen, err := gravatar.ParseGenerator(name)
		if err != nil {
			return nil, err
		}

		generators = append(generators, gen)
	}

	return generators, nil
}

// config errors follow the same contract as argument errors: printed, not
// signaled via exit code
func loadConfigOrReport(output io.Writer) (*config, bool) {
	conf, err := loadConfig()
	if err != nil {
		fmt.Fprintln(output, err)
		return nil, false
	}

	return conf, true
}

func printIfError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stdout, err)
	}
}
