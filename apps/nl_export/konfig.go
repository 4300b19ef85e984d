package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
)

func newKonfigCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "konfig",
		Short: "Create the config file interactively",
		Long: `konfig asks for the portal URL and an access token and writes them
to a new config file. An existing config file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = common.DefaultConfigPath()
			}
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			baseURL, err := prompt(scanner, out, "CMS URL: ")
			if err != nil {
				return usageError(err)
			}
			if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
				return usageError(fmt.Errorf("'%s' is not an absolute URL", baseURL))
			}
			token, err := prompt(scanner, out, "Access token: ")
			if err != nil {
				return usageError(err)
			}

			if err := common.WriteConfig(path, token, baseURL); err != nil {
				return usageError(err)
			}
			fmt.Fprintf(out, "Configuration written to %s\n", path)
			return nil
		},
	}
}

// prompt prints label and returns the next non-empty input line.
func prompt(scanner *bufio.Scanner, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input")
	}
	value := strings.TrimSpace(scanner.Text())
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", strings.TrimSuffix(label, ": "))
	}
	return value, nil
}
