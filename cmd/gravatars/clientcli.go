package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/function61/gokit/encoding/jsonfile"
	"github.com/function61/gokit/os/osutil"
	"github.com/function61/gravatars/pkg/gravatarsclient"
	"github.com/spf13/cobra"
)

func clientEntry() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Preview server client related commands",
	}

	generatorNames := []string{}

	urlsCmd := &cobra.Command{
		Use:   "urls [serverUrl] [email] [size]",
		Short: "Ask the preview server for an email's avatar URLs",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			osutil.ExitIfError(urlsGet(
				osutil.CancelOnInterruptOrTerminate(nil),
				args[0],
				args[1],
				args[2],
				generatorNames,
				os.Stdout))
		},
	}

	urlsCmd.Flags().StringSliceVarP(&generatorNames, "generator", "d", generatorNames, "Generator to ask for (repeatable). Default: all")

	cmd.AddCommand(urlsCmd)

	return cmd
}

func urlsGet(
	ctx context.Context,
	serverUrl string,
	email string,
	sizeArg string,
	generatorNames []string,
	output io.Writer,
) error {
	size, err := strconv.Atoi(sizeArg)
	if err != nil {
		return err
	}

	generators, err := parseGenerators(generatorNames)
	if err != nil {
		return err
	}

	urls, err := gravatarsclient.New(serverUrl).URLs(ctx, email, size, generators...)
	if err != nil {
		return err
	}

	return jsonfile.Marshal(output, urls)
}
