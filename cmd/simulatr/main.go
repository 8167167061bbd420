package main

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alexflint/go-arg"
	"github.com/nostrtools/simulatr/app"
	"github.com/nostrtools/simulatr/pkg/interrupt"
	"github.com/nostrtools/simulatr/pkg/nostr/context"
	"github.com/nostrtools/simulatr/pkg/slog"
)

var log, chk = slog.New(os.Stderr)

var args app.Config

func main() {
	arg.MustParse(&args)
	slog.SetLogLevel(slog.LevelFromString(args.LogLevel))
	var err error
	var home string
	if home, err = os.UserHomeDir(); chk.E(err) {
		os.Exit(1)
	}
	dataDir := filepath.Join(home, "."+args.Profile)
	configPath := filepath.Join(dataDir, "config.json")
	if args.InitCfgCmd != nil {
		if err = os.MkdirAll(dataDir, 0700); chk.E(err) {
			os.Exit(1)
		}
		if err = args.Save(configPath); chk.E(err) {
			log.E.F("failed to write configuration: '%v'", err)
			os.Exit(1)
		}
		log.I.F("wrote configuration to %s", configPath)
		return
	}
	// file config is optional, flags alone are enough for a test double
	if err = args.Load(configPath); err != nil {
		log.D.F("no profile configuration loaded: '%v'", err)
	}
	rl := app.NewRelay()
	server := &http.Server{Addr: args.Listen, Handler: rl}
	interrupt.AddHandler(func() {
		rl.Shutdown()
		chk.E(server.Shutdown(context.Bg()))
	})
	log.I.F("%s %s listening on ws://%s", app.AppName, app.Version, args.Listen)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-interrupt.HandlersDone.Wait()
		log.I.Ln("server shut down")
		return
	}
	if chk.E(err) {
		os.Exit(1)
	}
}
