package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guru03-coder/MediVerse/internal/config"
	"github.com/guru03-coder/MediVerse/internal/dashboard"
	"github.com/guru03-coder/MediVerse/internal/logging"
	"github.com/guru03-coder/MediVerse/internal/metrics"
	"github.com/guru03-coder/MediVerse/internal/store"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the remote triage service and print the dashboard view",
		RunE: func(cmd *cobra.Command, args []string) error {
			once, _ := cmd.Flags().GetBool("once")
			asJSON, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat, "mediverse-watch")

			syncer, closeSyncer := newSyncer(cfg, logger)
			defer closeSyncer()

			out := cmd.OutOrStdout()
			if once {
				ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RemoteTimeout())
				defer cancel()
				_ = syncer.Refresh(ctx)
				return printView(out, syncer.View(), asJSON)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			done := make(chan struct{})
			go func() {
				syncer.Run(ctx)
				close(done)
			}()

			ticker := time.NewTicker(cfg.PollInterval())
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					<-done
					return nil
				case <-ticker.C:
					if err := printView(out, syncer.View(), asJSON); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().Bool("once", false, "Refresh once, print and exit")
	cmd.Flags().Bool("json", false, "Print the full view as JSON")

	cmd.AddCommand(dischargeCmd())
	cmd.AddCommand(addDoctorCmd())
	return cmd
}

func dischargeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discharge <patient-id>",
		Short: "Discharge a patient by id or patient code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, s *dashboard.Syncer) bool {
				return s.DischargePatient(ctx, args[0])
			}, "discharged "+args[0])
		},
	}
}

func addDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-doctor <department> <name>",
		Short: "Add an off-duty doctor to a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, func(ctx context.Context, s *dashboard.Syncer) bool {
				return s.AddDoctor(ctx, args[0], args[1])
			}, fmt.Sprintf("added %s to %s", args[1], args[0]))
		},
	}
}

// runAction applies one dashboard action. Without a reachable remote service
// the change only lands in this process's mock store.
func runAction(cmd *cobra.Command, action func(context.Context, *dashboard.Syncer) bool, done string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat, "mediverse-watch")

	syncer, closeSyncer := newSyncer(cfg, logger)
	defer closeSyncer()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RemoteTimeout())
	defer cancel()
	if !action(ctx, syncer) {
		return errActionRejected
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), done)
	return err
}

var errActionRejected = errors.New("action rejected: unknown patient, department or blank name")

func newSyncer(cfg *config.Config, logger zerolog.Logger) (*dashboard.Syncer, func()) {
	cache, closeCache := newSnapshotCache(cfg)

	var remote dashboard.Remote
	if cfg.RemoteAPIURL != "" {
		remote = newRemote(cfg, logger)
	}

	syncer := dashboard.NewSyncer(remote, store.New(), cache, dashboard.Config{
		Interval:    cfg.PollInterval(),
		PollTimeout: cfg.RemoteTimeout(),
	}, logger, metrics.New(prometheus.NewRegistry()))
	return syncer, closeCache
}

// newSnapshotCache uses Redis when REDIS_ADDR is set and memory otherwise
func newSnapshotCache(cfg *config.Config) (dashboard.SnapshotCache, func()) {
	if cfg.RedisAddr == "" {
		return dashboard.NewMemoryCache(cfg.SnapshotTTL()), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return dashboard.NewRedisCache(client, dashboard.DefaultSnapshotKey, cfg.SnapshotTTL()),
		func() { _ = client.Close() }
}

func printView(w io.Writer, v dashboard.View, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	sum := v.Stats.Summary()
	stale := ""
	if v.Stale {
		stale = " (stale: " + v.LastError + ")"
	}
	_, err := fmt.Fprintf(w, "[%s] source=%s%s departments=%d doctors=%d avg_wait=%.1fm waiting=%d high_risk=%d\n",
		time.Now().Format(time.TimeOnly), v.Source, stale,
		sum.TotalDepartments, sum.TotalActiveDoctors, sum.AverageWaitTime,
		v.Stats.Queue.TotalWaiting, sum.HighRiskWaiting)
	return err
}
