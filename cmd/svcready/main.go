package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hmoradi/svcready/internal/domain"
	"github.com/hmoradi/svcready/internal/probe"
)

// exit codes consumed by pipeline steps: "service down" and "checker broken"
// stay distinguishable
const (
	exitReady     = 0
	exitExhausted = 1
	exitInvalid   = 2
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var result domain.ProbeResult
	cmd := newRootCmd(&result)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		// flag-level failures still honor the true/false output surface
		fmt.Fprintln(stderr, "svcready:", err)
		fmt.Fprintln(stdout, boolString(false))
		return exitInvalid
	}
	switch result.State {
	case domain.StateReady:
		return exitReady
	case domain.StateExhausted:
		return exitExhausted
	default:
		return exitInvalid
	}
}

func newRootCmd(result *domain.ProbeResult) *cobra.Command {
	var (
		service  string
		host     string
		port     int
		attempts int
		interval float64
		timeout  float64
		pgUser   string
		native   bool
		quiet    bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "svcready",
		Short: "Wait until a backing service is ready to accept connections",
		Long: `svcready retries a kind-specific readiness check until the service
answers or the attempt budget is exhausted. It prints "true" or "false" on
stdout and mirrors the outcome in its exit code (0 ready, 1 exhausted,
2 invalid input or missing client tooling).

postgres uses pg_isready, mongodb uses a mongosh admin ping; nats, vault,
valkey and tcp-generic only verify that the port accepts connections.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				dev, err := zap.NewDevelopment()
				if err == nil {
					logger = dev
					defer logger.Sync()
				}
			}

			p := probe.New(logger, probe.Options{
				DialTimeout:    secs(timeout),
				CommandTimeout: secs(timeout),
				PostgresUser:   pgUser,
			})
			req := domain.ProbeRequest{
				Kind:          domain.ServiceKind(service),
				Host:          host,
				Port:          port,
				MaxAttempts:   attempts,
				RetryInterval: secs(interval),
				Native:        native,
			}

			*result = p.Probe(cmd.Context(), req)

			fmt.Fprintln(cmd.OutOrStdout(), boolString(result.Ready))
			if !quiet && result.Diagnostic != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Diagnostic)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&service, "service", "s", "", "service kind: postgres, mongodb, nats, vault, valkey, tcp-generic")
	f.StringVar(&host, "host", domain.DefaultHost, "host to probe")
	f.IntVarP(&port, "port", "p", 0, "port to probe (required)")
	f.IntVar(&attempts, "attempts", domain.DefaultMaxAttempts, "maximum number of attempts")
	f.Float64Var(&interval, "interval", domain.DefaultRetryInterval.Seconds(), "seconds to sleep between attempts")
	f.Float64Var(&timeout, "timeout", 2, "per-attempt check timeout in seconds")
	f.StringVar(&pgUser, "pg-user", os.Getenv("PROBE_PG_USER"), "user passed to the postgres check")
	f.BoolVar(&native, "native", false, "use driver-level checks instead of client binaries (postgres/mongodb)")
	f.BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostics on stderr")
	f.BoolVarP(&verbose, "verbose", "v", false, "log every attempt to stderr")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
