package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/daemon"
	"github.com/1broseidon/stackwm/internal/hotkeys"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/runtimepath"
	"github.com/1broseidon/stackwm/internal/x11"
)

func newDaemonCmd(opts *options) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the window manager (foreground)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), opts, !noWatch)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the config file changes")
	return cmd
}

func runDaemon(ctx context.Context, opts *options, watch bool) error {
	res, err := opts.loadConfig()
	if err != nil {
		newLogger(os.Stderr, "").Error("failed to load configuration", "error", err)
		return err
	}
	cfg := res.Config
	logger := opts.logger(cfg)
	logger.Info("configuration loaded", "files", res.Files, "workspaces", len(cfg.Workspaces))

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return err
	}
	defer backend.Disconnect()
	xconn := backend.Connection()

	if err := xconn.BecomeWM(); err != nil {
		logger.Error("cannot manage the display", "error", err)
		return err
	}
	if err := xconn.SetupEWMH("stackwm"); err != nil {
		logger.Warn("EWMH setup failed", "error", err)
	}
	if err := xconn.WatchMonitors(); err != nil {
		logger.Warn("monitor hotplug disabled", "error", err)
	}

	adopt, err := backend.ViewableWindows()
	if err != nil {
		logger.Warn("failed to list existing windows", "error", err)
	}
	sessionPath, err := runtimepath.SessionPath()
	if err != nil {
		logger.Warn("session persistence disabled", "error", err)
		sessionPath = ""
	}

	m, err := daemon.NewManager(daemon.ManagerConfig{
		Conn:        backend,
		Lister:      backend,
		Info:        backend,
		Settings:    cfg,
		Adopt:       adopt,
		SessionPath: sessionPath,
		Hooks: daemon.Hooks{
			Refresh: func(st daemon.State) {
				if err := xconn.PublishDesktops(desktopState(st)); err != nil {
					logger.Debug("publish desktops failed", "error", err)
				}
			},
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create manager", "error", err)
		return err
	}

	subscribeX(xconn, backend, m, logger)

	keys := hotkeys.NewHandler(backend.XUtil(), backend.RootWindow(), m, logger)
	if err := keys.Bind(cfg.Keybindings); err != nil {
		logger.Warn("some keybindings were not registered", "error", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() {
		runErr <- m.Run(ctx)
		xconn.Quit()
	}()

	wm := rebindingDaemon{Manager: m, keys: keys, logger: logger}
	reload := func(source string) {
		res, err := opts.loadConfig()
		if err != nil {
			logger.Error("config reload failed", "source", source, "error", err)
			return
		}
		if err := wm.Reload(ctx, res.Config); err != nil {
			logger.Error("config reload rejected", "source", source, "error", err)
			return
		}
		logger.Info("config reloaded", "source", source)
	}

	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		Daemon: wm,
		Lister: backend,
		LoadConfig: func() (*config.Config, error) {
			res, err := opts.loadConfig()
			if err != nil {
				return nil, err
			}
			return res.Config, nil
		},
		Logger: logger,
	})
	if err != nil {
		stop()
		return errors.Join(err, <-runErr)
	}
	if err := ipcServer.Start(); err != nil {
		stop()
		return errors.Join(err, <-runErr)
	}
	defer ipcServer.Stop()

	if cfg.ReconcileInterval > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: cfg.ReconcileInterval,
			Logger:   logger,
		}, m)
		go reconciler.Run(ctx)
	}

	if watch {
		startConfigWatcher(ctx, opts, logger, reload)
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				reload("SIGHUP")
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("stackwm started", "adopted", len(adopt), "session", sessionPath)
	xconn.EventLoop()
	stop()

	if err := <-runErr; err != nil {
		logger.Error("manager stopped with error", "error", err)
		return err
	}
	logger.Info("stackwm stopped")
	return nil
}

// subscribeX forwards X notifications to the manager loop.
func subscribeX(xconn *x11.Connection, backend *platform.LinuxBackend, m *daemon.Manager, logger *slog.Logger) {
	xconn.Subscribe(x11.Handlers{
		MapRequest: func(w xproto.Window) {
			id := platform.Xid(w)
			if !backend.ShouldManage(id) {
				if err := backend.Map(id); err != nil {
					logger.Debug("map unmanaged window failed", "window", id, "error", err)
				}
				return
			}
			m.Post(daemon.MapRequest{ID: id})
		},
		Destroy: func(w xproto.Window) {
			m.Post(daemon.Destroyed{ID: platform.Xid(w)})
		},
		Unmap: func(w xproto.Window) {
			m.Post(daemon.Unmapped{ID: platform.Xid(w)})
		},
		ConfigureRequest: func(ev xproto.ConfigureRequestEvent) {
			// Tiled windows keep the geometry we gave them.
			if backend.ShouldManage(platform.Xid(ev.Window)) && xconn.IsViewable(ev.Window) {
				return
			}
			if err := xconn.HonorConfigureRequest(ev); err != nil {
				logger.Debug("configure request failed", "window", ev.Window, "error", err)
			}
		},
		ScreensChanged: func() {
			displays, err := backend.Displays()
			if err != nil {
				logger.Warn("failed to query monitors", "error", err)
				return
			}
			m.Post(daemon.ScreensChanged{Displays: displays})
		},
	})
}

func startConfigWatcher(ctx context.Context, opts *options, logger *slog.Logger, reload func(string)) {
	path, err := opts.resolveConfigPath()
	if err != nil {
		logger.Warn("config watching disabled", "error", err)
		return
	}
	w, err := config.NewWatcher(path, 0, logger)
	if err != nil {
		logger.Warn("config watching disabled", "path", path, "error", err)
		return
	}
	go w.Run(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-w.Changes():
				reload(fmt.Sprintf("watch %s", path))
			case <-ctx.Done():
				return
			}
		}
	}()
}

// rebindingDaemon regrabs keys after a reload requested over IPC succeeds.
type rebindingDaemon struct {
	*daemon.Manager
	keys   *hotkeys.Handler
	logger *slog.Logger
}

func (d rebindingDaemon) Reload(ctx context.Context, cfg *config.Config) error {
	if err := d.Manager.Reload(ctx, cfg); err != nil {
		return err
	}
	if err := d.keys.Bind(cfg.Keybindings); err != nil {
		d.logger.Warn("some keybindings were not registered", "error", err)
	}
	return nil
}

// desktopState maps manager state onto the EWMH desktop properties. Only
// workspaces reachable by cycling are published.
func desktopState(st daemon.State) x11.DesktopState {
	var ds x11.DesktopState
	for _, ws := range st.Workspaces {
		if ws.Invisible {
			continue
		}
		if ws.Tag == st.CurrentTag {
			ds.Current = len(ds.Names)
		}
		ds.Names = append(ds.Names, ws.Tag)
	}
	for _, ws := range st.Workspaces {
		for _, id := range ws.Clients {
			ds.Clients = append(ds.Clients, xproto.Window(id))
		}
	}
	slices.Sort(ds.Clients)
	ds.Active = xproto.Window(st.Focus)
	return ds
}
