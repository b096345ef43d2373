package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"treeconv/internal/config"
	"treeconv/internal/trace"
)

// setupTracing initializes the tracer described by tc and attaches it to the
// command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, tc config.TraceConfig) (func(), error) {
	cfg, err := tc.TracerConfig()
	if err != nil {
		return nil, err
	}

	// If level is off, skip tracing
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	ringSize, err := cmd.Root().PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	cfg.RingSize = ringSize

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, cfg.Heartbeat)

	cleanup := func() {
		// Stop heartbeat first
		heartbeat.Stop()

		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpTraceOnPanic prints the ring buffer, if any, before the panic continues.
// It must be deferred directly.
func dumpTraceOnPanic(cmd *cobra.Command) {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.Ring(trace.FromContext(cmd.Context())); ring != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before panic:")
		_ = ring.Dump(cmd.ErrOrStderr())
	}
	panic(r)
}
