package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "uakit",
		Short: "Classify user agents and enrich events",
		Long: `uakit classifies raw user agent strings into browser, operating system
and device fields and writes them into JSON events.

Configuration is read from UA_* environment variables and optional dotenv
files. Flags override the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	pf.String("source", "", "field reference holding the user agent (UA_SOURCE)")
	pf.String("target", "", "field reference results are written under (UA_TARGET)")
	pf.String("prefix", "", "prefix for flat field names (UA_PREFIX)")
	pf.String("layout", "flat", "output layout: flat or nested (UA_LAYOUT)")
	pf.Int("cache-size", 0, "lookup cache capacity (UA_CACHE_SIZE)")
	pf.String("matcher", matcherRegex, "matcher: regex or keyword (UA_MATCHER)")
	pf.String("regexes", "", "pattern database: file path or s3://bucket/key, embedded when empty (UA_REGEXES)")
	pf.Bool("skip-invalid-rules", false, "skip pattern rules that fail to compile (UA_SKIP_INVALID_RULES)")
	pf.Bool("strict", false, "fail on user agents the keyword matcher cannot recognise (UA_STRICT)")
	pf.Bool("single-flight", false, "collapse concurrent lookups of the same user agent (UA_SINGLE_FLIGHT)")
	pf.String("redis-url", "", "store matches in Redis at this URL (UA_REDIS_URL with UA_REDIS_ENABLED)")
	pf.String("redis-prefix", "", "Redis key prefix (UA_REDIS_KEY_PREFIX)")
	pf.String("log-level", "info", "log level: debug, info, warn or error (UA_LOG_LEVEL)")
	pf.String("log-format", "json", "log format: json or text (UA_LOG_FORMAT)")

	cmd.AddCommand(
		newClassifyCmd(a),
		newEnrichCmd(a),
		newServeCmd(a),
	)
	return cmd
}
