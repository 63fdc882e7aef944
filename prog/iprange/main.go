package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iamainow/routes/common"
	"github.com/iamainow/routes/config"
	"github.com/iamainow/routes/net/route"
	"github.com/iamainow/routes/resolve"
)

var (
	version = "unreleased"

	configFile  string
	logLevel    string
	dnsServer   string
	metricsFile string
	cpuProfile  string

	cfg      *config.Config
	profiler interface{ Stop() }
	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(sourceRanges)
}

func handleError(err error) { common.CheckFatal(err) }

// setup loads the configuration; flags given on the command line win over
// the file.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("dns-server") {
		cfg.DNS.Server = dnsServer
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if err := common.SetLogLevel(cfg.LogLevel); err != nil {
		return usagef("invalid log level %q", cfg.LogLevel)
	}
	if cpuProfile != "" {
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.NoShutdownHook)
	}
	common.Log.Debugf("iprange %s", version)
	return nil
}

// teardown stops the profiler and writes the metrics file. It runs whether
// or not the command succeeded.
func teardown() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	if cfg == nil || cfg.MetricsFile == "" {
		return
	}
	gatherers := prometheus.Gatherers{registry, route.Metrics}
	common.CheckWarn(errors.Wrap(prometheus.WriteToTextfile(cfg.MetricsFile, gatherers), "writing metrics"))
}

// execute runs rootCmd and then teardown.
func execute(ctx context.Context, rootCmd *cobra.Command) (*cobra.Command, error) {
	cfg = nil
	defer teardown()
	return rootCmd.ExecuteContextC(ctx)
}

func newLoader(stdin io.Reader) *loader {
	return &loader{
		registry: cfg.Registry(),
		stdin:    stdin,
		newResolver: func() (*resolve.Resolver, error) {
			return resolve.New(cfg.DNS.Server, cfg.DNS.Timeout, cfg.DNS.MaxLookups)
		},
	}
}

func runChain(cmd *cobra.Command, args []string) error {
	l := newLoader(cmd.InOrStdin())
	chain, err := ParseChain(args, l.registry.Has)
	if err != nil {
		return err
	}
	res, err := chain.Evaluate(cmd.Context(), l.load)
	if err != nil {
		return err
	}
	return chain.Write(cmd.OutOrStdout(), res)
}

// reportUsage prints a usage error, in red when stderr is a terminal.
func reportUsage(w *os.File, cmd *cobra.Command, err error) {
	msg := "iprange: " + err.Error()
	if isatty.IsTerminal(w.Fd()) {
		msg = ansi.Color(msg, "red+b")
	}
	fmt.Fprintln(w, msg)
	fmt.Fprintln(w, cmd.UseLine())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iprange [flags] <source> [union|except <source>]... [simplify <n>] [minimize <n>] [print subnet|range|json|yaml] [format <pattern>]",
		Short: "IPv4 range algebra",
		Long: `Combine IPv4 address sets and print them as CIDR blocks.

Sources: raw <text>, file <path>, stdin, dns <name>, spf <domain>, or the
name of an address list (bogon, private, loopback, linklocal, multicast,
cgnat, reserved, all, or a set defined in the configuration file).

Format placeholders: %subnet %cidr %mask %firstaddress %lastaddress %count`,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: setup,
		RunE:              runChain,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{msg: err.Error()}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "logging level (debug, info, warning, error)")
	flags.StringVar(&dnsServer, "dns-server", "", "DNS server host:port (default: first nameserver of /etc/resolv.conf)")
	flags.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file on exit")
	flags.StringVar(&cpuProfile, "profile", "", "write a CPU profile to this directory")

	rootCmd.AddCommand(newRoutesCmd())
	return rootCmd
}

func main() {
	ctx, stop := common.SignalContext(context.Background())
	defer stop()
	rootCmd := newRootCmd()
	cmd, err := execute(ctx, rootCmd)
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		reportUsage(os.Stderr, cmd, err)
		os.Exit(1)
	}
	handleError(err)
}
