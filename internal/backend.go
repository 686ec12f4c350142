package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drive2go/drive2go/internal/api"
	"github.com/drive2go/drive2go/internal/configuration"
	"github.com/drive2go/drive2go/internal/motion"
	"github.com/drive2go/drive2go/internal/persistence"
	"github.com/drive2go/drive2go/internal/routine"
	"github.com/drive2go/drive2go/internal/statistics"
	"github.com/drive2go/drive2go/internal/telemetry"
	"github.com/drive2go/drive2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunDaemon serves statistics, the REST api and heading telemetry until a
// signal is received. If a routine id is given, the daemon executes it and
// exits when it has finished.
func RunDaemon(routineId string) {
	config := configuration.CurrentConfig

	robot, err := InitializeObjects(config)
	if err != nil {
		ui.Fatal("%v", err)
	}

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Warning("Unable to initialize persistence, results will not be stored: %v", err)
		pers = nil
	}

	var monitor *telemetry.HeadingMonitor
	if config.Telemetry.Enabled {
		monitor = telemetry.NewHeadingMonitor(robot.Binding.Heading, config.Telemetry.PollingRate, config.Telemetry.WindowSize)
	}
	recorder := telemetry.NewRecorder(0)

	motionCollector := statistics.NewMotionCollector()
	statistics.Register(motionCollector)
	statistics.Register(statistics.NewActuatorCollector(robot.Actuators))
	statistics.Register(statistics.NewSensorCollector(robot.Sensors, monitor))

	pacer := robot.NewPacer()
	defer pacer.Stop()
	chassis := motion.NewChassis(robot.Binding, robot.Settings, pacer, recorder, motionCollector)

	routines, err := routine.NewRoutines(config.Routines)
	if err != nil {
		ui.Fatal("%v", err)
	}
	runner := routine.NewRunner(chassis, routines, pers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g run.Group
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		port := config.Statistics.Port
		if port <= 0 || port >= 65535 {
			port = 9000
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

		g.Add(func() error {
			ui.Info("Serving statistics on %s/metrics", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			if err := server.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			}
		})
	}
	if config.Api.Enabled {
		// === REST api
		rest := api.CreateRestService(api.Dependencies{
			Routines:    config.Routines,
			Persistence: pers,
			Recorder:    recorder,
			Monitor:     monitor,
			Registerer:  prometheus.DefaultRegisterer,
		})
		addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Serving REST api on %s", addr)
			if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST api: %w", err)
			}
			return nil
		}, func(err error) {
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping REST api: %v", err)
			}
		})
	}
	if monitor != nil {
		// === heading telemetry
		g.Add(func() error {
			return monitor.Run(ctx)
		}, func(err error) {
			cancel()
		})
	}
	if len(routineId) > 0 {
		// === routine
		g.Add(func() error {
			_, err := runner.Run(ctx, routineId)
			if errors.Is(err, routine.ErrCancelled) {
				return nil
			}
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		done := make(chan struct{})

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-done:
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			close(done)
			cancel()
		})
	}

	err = g.Run()
	robot.Shutdown()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

// RunRoutine executes a single routine in the foreground. SIGINT and SIGTERM
// cancel the running motion.
func RunRoutine(routineId string) (routine.Report, error) {
	config := configuration.CurrentConfig

	robot, err := InitializeObjects(config)
	if err != nil {
		return routine.Report{}, err
	}
	defer robot.Shutdown()

	pers := persistence.NewPersistence(config.DbPath)
	if err := pers.Init(); err != nil {
		ui.Warning("Unable to initialize persistence, results will not be stored: %v", err)
		pers = nil
	}

	routines, err := routine.NewRoutines(config.Routines)
	if err != nil {
		return routine.Report{}, err
	}

	pacer := robot.NewPacer()
	defer pacer.Stop()
	chassis := motion.NewChassis(robot.Binding, robot.Settings, pacer)
	runner := routine.NewRunner(chassis, routines, pers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runner.Run(ctx, routineId)
}
