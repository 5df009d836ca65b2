package main

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uakit/pkg/enrich"
)

// classifyResult is one output line of the classify command.
type classifyResult struct {
	UserAgent string        `json:"user_agent"`
	Fields    enrich.Fields `json:"fields,omitzero"`
	Error     string        `json:"error,omitempty"`
}

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify [user-agent...]",
		Short: "Classify user agents given as arguments or stdin lines",
		Long: `Classify prints one JSON object per user agent. Without arguments it reads
one user agent per line from standard input.`,
		Example: `  uakit classify "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) ..."
  cut -f3 access.log | uakit classify --layout nested`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.settings.Enrich.Source == "" {
				a.settings.Enrich.Source = "user_agent"
			}
			engine, _, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			emit := func(ua string) error {
				res := classifyResult{UserAgent: ua}
				fields, err := engine.Lookup(cmd.Context(), ua)
				if err != nil {
					res.Error = err.Error()
				} else {
					res.Fields = fields
				}
				return enc.Encode(res)
			}

			if len(args) > 0 {
				for _, ua := range args {
					if err := emit(ua); err != nil {
						return err
					}
				}
				return nil
			}
			return eachLine(cmd.InOrStdin(), func(line string) error {
				line = strings.TrimRight(line, "\r")
				if strings.TrimSpace(line) == "" {
					return nil
				}
				return emit(line)
			})
		},
	}
}

// eachLine calls fn for every line of r. Lines may be up to 1 MiB long.
func eachLine(r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
