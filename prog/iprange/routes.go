package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iamainow/routes/net/address"
	"github.com/iamainow/routes/net/route"
)

var (
	gateway     string
	linkIndex   int
	metric      int
	netNS       string
	dryRun      bool
	stopOnError bool
)

// routeOptions merges the routes section of the configuration with the
// flags given on the command line.
func routeOptions(cmd *cobra.Command) (route.Options, string, error) {
	flags := cmd.Flags()
	if flags.Changed("gateway") {
		cfg.Routes.Gateway = gateway
	}
	if flags.Changed("link-index") {
		cfg.Routes.LinkIndex = linkIndex
	}
	if flags.Changed("metric") {
		cfg.Routes.Metric = metric
	}
	if flags.Changed("netns") {
		cfg.Routes.NetNS = netNS
	}
	opts := route.Options{
		LinkIndex:   cfg.Routes.LinkIndex,
		Metric:      cfg.Routes.Metric,
		DryRun:      dryRun,
		StopOnError: stopOnError,
	}
	if cfg.Routes.Gateway != "" {
		gw, err := address.ParseIP(cfg.Routes.Gateway)
		if err != nil {
			return opts, "", usagef("invalid gateway %q", cfg.Routes.Gateway)
		}
		opts.Gateway = gw
	}
	if opts.Gateway == 0 && opts.LinkIndex == 0 {
		return opts, "", usagef("routes sync needs a gateway or a link index")
	}
	return opts, cfg.Routes.NetNS, nil
}

func listRoutes(cmd *cobra.Command, args []string) error {
	ns := cfg.Routes.NetNS
	if cmd.Flags().Changed("netns") {
		ns = netNS
	}
	routes, err := route.NetlinkTable{NetNS: ns}.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, r := range routes {
		fmt.Fprintln(out, r)
	}
	return nil
}

func syncRoutes(cmd *cobra.Command, args []string) error {
	opts, ns, err := routeOptions(cmd)
	if err != nil {
		return err
	}
	l := newLoader(cmd.InOrStdin())
	chain, err := ParseChain(args, l.registry.Has)
	if err != nil {
		return err
	}
	res, err := chain.Evaluate(cmd.Context(), l.load)
	if err != nil {
		return err
	}
	report, err := route.Sync(route.NetlinkTable{NetNS: ns}, res.Set, opts)
	out := cmd.OutOrStdout()
	for _, r := range report.Deleted {
		fmt.Fprintln(out, "-", r)
	}
	for _, r := range report.Added {
		fmt.Fprintln(out, "+", r)
	}
	return err
}

func newRoutesCmd() *cobra.Command {
	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect and program the kernel routing table",
	}
	routesCmd.PersistentFlags().StringVar(&netNS, "netns", "", "network namespace path (e.g. /var/run/netns/blue)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the IPv4 routes of the main table",
		Args:  cobra.NoArgs,
		RunE:  listRoutes,
	}

	syncCmd := &cobra.Command{
		Use:   "sync [flags] <chain>...",
		Short: "Make the managed routes match the CIDR blocks of a chain",
		Long: `Evaluate the chain like the root command and make the managed routes,
those through --gateway on --link-index with --metric, cover exactly its
CIDR blocks. Other routes are left alone.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("missing chain")
			}
			return nil
		},
		RunE: syncRoutes,
	}
	syncCmd.Flags().SetInterspersed(false)
	syncCmd.Flags().StringVar(&gateway, "gateway", "", "gateway address of the managed routes")
	syncCmd.Flags().IntVar(&linkIndex, "link-index", 0, "interface index of the managed routes")
	syncCmd.Flags().IntVar(&metric, "metric", 0, "metric of the managed routes")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the changes without applying them")
	syncCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failed change")

	routesCmd.AddCommand(listCmd, syncCmd)
	return routesCmd
}
