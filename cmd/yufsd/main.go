// Copyright 2024 The YUFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command yufsd mounts a yufs in-memory file system at a given mount
// point using FUSE, following the cobra/viper CLI shape and background-
// after-mount behavior this corpus's real FUSE daemon (gcsfuse) uses
// around the same jacobsa/fuse library.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jacobsa/daemonize"
	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tinunadno/yufs/yufsfuse"
)

// inBackgroundEnvVar marks a re-exec'd child as already daemonized, the
// same trick gcsfuse's legacy_main.go uses to tell the two runs of its
// own binary apart.
const inBackgroundEnvVar = "YUFSD_IN_BACKGROUND_MODE"

var cfg = defaultConfig()

var rootCmd = &cobra.Command{
	Use:   "yufsd [flags] mount_point",
	Short: "Mount an in-memory yufs file system",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.MountPoint = args[0]
		return run(cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&cfg.Foreground, "foreground", cfg.Foreground, "Stay in the foreground instead of daemonizing after mount.")
	flags.BoolVar(&cfg.DebugFuse, "debug_fuse", cfg.DebugFuse, "Enable verbose FUSE protocol tracing.")
	flags.StringVar(&cfg.LogFile, "log_file", cfg.LogFile, "Log file path; stderr if empty.")
	flags.StringVar(&cfg.LogFormat, "log_format", cfg.LogFormat, "Log format: json or text.")
	flags.StringVar(&cfg.MetricsAddr, "metrics_addr", cfg.MetricsAddr, "Address to serve Prometheus metrics on.")

	viper.BindPFlags(flags)
}

func run(cfg config) error {
	logger := newLogger(cfg)

	inBackground := os.Getenv(inBackgroundEnvVar) == "true"
	if !cfg.Foreground && !inBackground {
		return daemonizeSelf(logger)
	}

	registry := prometheus.NewRegistry()
	metrics := yufsfuse.NewMetrics(registry)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, registry, logger)
	}

	fs := yufsfuse.New(logger, metrics)
	server := fuseutil.NewFileSystemServer(fs)

	mountCfg := &fuse.MountConfig{
		FSName:     "yufs",
		Subtype:    "yufs",
		VolumeName: "yufs",
	}
	if cfg.DebugFuse {
		mountCfg.DebugLogger = slog.NewLogLogger(logger.Handler(), slog.LevelDebug)
	}

	logger.Info("mounting", "mount_point", cfg.MountPoint)
	mfs, err := fuse.Mount(cfg.MountPoint, server, mountCfg)
	if inBackground {
		if sigErr := daemonize.SignalOutcome(err); sigErr != nil {
			logger.Error("failed to signal daemonize outcome", "error", sigErr)
		}
	}
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	if err := mfs.Join(nil); err != nil {
		return fmt.Errorf("MountedFileSystem.Join: %w", err)
	}
	return nil
}

// daemonizeSelf re-execs the current binary with the same arguments plus
// inBackgroundEnvVar set, then waits for the child to report its mount
// outcome over the pipe daemonize.Run sets up, exactly as
// gcsfuse/cmd/legacy_main.go does around the same library.
func daemonizeSelf(logger *slog.Logger) error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("os.Executable: %w", err)
	}

	env := append(os.Environ(), inBackgroundEnvVar+"=true")
	if err := daemonize.Run(path, os.Args[1:], env, os.Stdout); err != nil {
		return fmt.Errorf("daemonize.Run: %w", err)
	}
	logger.Info("mounted in background")
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server exited", "error", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
