package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/matt-g-everett/cmdcenter/api"
	"github.com/matt-g-everett/cmdcenter/chime"
	"github.com/matt-g-everett/cmdcenter/stream"
	"github.com/matt-g-everett/cmdcenter/tui"
)

const connectTimeout = 5 * time.Second

type app struct {
	Config     stream.Config
	Logger     *zap.SugaredLogger
	Client     mqtt.Client
	Controller *stream.Controller
	Streamer   *stream.Streamer
	Latest     *stream.Latest
	Screen     *tui.Screen
	Chime      *chime.Chime
}

func newApp(config stream.Config, logger *zap.SugaredLogger) (*app, error) {
	a := new(app)
	a.Config = config
	a.Logger = logger

	controller, err := stream.NewController(config.Dashboard, clock.New(), logger.Named("dashboard"))
	if err != nil {
		return nil, err
	}
	a.Controller = controller

	a.Latest = &stream.Latest{}
	a.Controller.AddRenderer(a.Latest)
	a.Controller.OnHighlight(a.handleHighlight)

	return a, nil
}

func (a *app) handleHighlight(h stream.Highlight) {
	a.Logger.Debugw("highlight", "kind", h.Kind, "label", h.Label)
	if a.Chime == nil || h.Kind != stream.KindAlert {
		return
	}
	if err := a.Chime.Play(); err != nil {
		a.Logger.Warnw("alert chime failed", "error", err)
	}
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.Logger.Infow("connected", "broker", a.Config.Mqtt.URL)
	if err := a.Streamer.Subscribe(); err != nil {
		a.Logger.Errorw("subscribe failed", "error", err)
	}
}

func (a *app) handleConnectionLost(client mqtt.Client, err error) {
	a.Logger.Warnw("connection lost", "broker", a.Config.Mqtt.URL, "error", err)
}

func (a *app) connect() error {
	c := a.Config.Mqtt
	options := mqtt.NewClientOptions().
		AddBroker(c.URL).
		SetClientID(c.ClientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)

	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(c, a.Client, a.Controller, a.Logger.Named("mqtt"))
	a.Controller.AddRenderer(a.Streamer)

	// Connection keeps retrying in the background; only a hard failure is fatal.
	if token := a.Client.Connect(); token.WaitTimeout(connectTimeout) && token.Error() != nil {
		return errors.Wrapf(token.Error(), "connect to %s", c.URL)
	}
	return nil
}

func (a *app) openChime() {
	c := a.Config.Chime
	ch, err := chime.New(c.Frequency, time.Duration(c.DurationMs)*time.Millisecond)
	if err != nil {
		// Non-fatal, the dashboard runs without sound
		a.Logger.Warnw("alert chime unavailable", "error", err)
		return
	}
	a.Chime = ch
}

func (a *app) openScreen() error {
	screen, err := tui.Open()
	if err != nil {
		return err
	}
	a.Screen = screen
	a.Controller.AddRenderer(a.Screen)
	return nil
}

func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.Config.Api.Listen != "" {
		server := api.NewApi(a.Config.Api, a.Latest, a.Logger.Named("api"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Serve(ctx); err != nil {
				a.Logger.Errorw("http server stopped", "error", err)
				cancel()
			}
		}()
	}

	if a.Screen != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Screen.Run(ctx, cancel)
		}()
	}

	err := a.Controller.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

func (a *app) close() {
	if a.Client != nil {
		a.Client.Disconnect(250)
	}
	if a.Chime != nil {
		a.Chime.Close()
	}
}

func newLogger(debug bool, path string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
	}
	if path != "" {
		config.OutputPaths = []string{path}
		config.ErrorOutputPaths = []string{path}
	}

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger.Sugar(), nil
}

func realMain() error {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	useTerminal := flag.Bool("tui", false, "Render the dashboard in the terminal.")
	debug := flag.Bool("debug", false, "Development logging.")
	logPath := flag.String("log", "", "Log file, stderr when empty (cmdcenter.log with -tui).")
	flag.Parse()

	if *useTerminal && *logPath == "" {
		*logPath = "cmdcenter.log"
	}
	logger, err := newLogger(*debug, *logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	stdLog := zap.NewStdLog(logger.Desugar().Named("paho"))
	mqtt.ERROR = stdLog
	mqtt.CRITICAL = stdLog

	// Read the config
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	a, err := newApp(config, logger)
	if err != nil {
		return err
	}
	logger.Infow("config loaded", "path", *configPath, "locale", a.Controller.Locale().String(),
		"dashboard", config.Dashboard, "api", config.Api)
	defer a.close()

	if config.Mqtt.URL != "" {
		if err := a.connect(); err != nil {
			return err
		}
	}
	if config.Chime.Enabled {
		a.openChime()
	}
	if *useTerminal {
		if err := a.openScreen(); err != nil {
			return err
		}
		defer a.Screen.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "cmdcenter: %v\n", err)
		os.Exit(1)
	}
}
