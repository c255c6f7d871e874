// holofixture serves a synthetic volumetric stream for manual end-to-end
// testing: a manifest at /manifest/frames.json and a generated hvs asset at
// /frames/<file>. Point holoplay at it with --url.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/holostream/holoplay/player/hvs"
	"github.com/holostream/holoplay/player/manifest"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

type fixture struct {
	log  logs.Log
	man  manifest.Manifest
	blob []byte
}

func (f *fixture) handler() http.Handler {
	router := httprouter.New()
	router.GET("/manifest/frames.json", f.httpManifest)
	router.GET("/frames/"+f.man.File, f.httpFrames)
	return router
}

func (f *fixture) httpManifest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f.man)
}

func (f *fixture) httpFrames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(f.blob)
	f.log.Infof("Served %v (%v bytes) to %v", f.man.File, len(f.blob), r.RemoteAddr)
}

func main() {
	parser := argparse.NewParser("holofixture", "Synthetic asset server for holoplay")
	addr := parser.String("a", "addr", &argparse.Options{Help: "Listen address", Default: ":8088"})
	width := parser.Int("", "width", &argparse.Options{Help: "Frame width", Default: 640})
	height := parser.Int("", "height", &argparse.Options{Help: "Frame height", Default: 480})
	fps := parser.Int("", "fps", &argparse.Options{Help: "Stream fps", Default: 30})
	frames := parser.Int("", "frames", &argparse.Options{Help: "Number of frames in the clip", Default: 90})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	f := &fixture{
		log: logger,
		man: manifest.Manifest{
			File:             "synthetic.hvs",
			Width:            *width,
			Height:           *height,
			FPS:              *fps,
			DepthScaleFactor: 0.001,
		},
	}
	logger.Infof("Generating %v frames at %vx%v...", *frames, *width, *height)
	f.blob = hvs.Synthesize(*width, *height, *fps, *frames, f.man.DepthScaleFactor)
	logger.Infof("Serving %v bytes on %v", len(f.blob), *addr)

	srv := &http.Server{Addr: *addr, Handler: f.handler()}
	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		err := srv.ListenAndServe()
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	group.Go(func() error {
		stopC := make(chan os.Signal, 2)
		signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-stopC:
			logger.Infof("Received %v, shutting down", sig)
			return srv.Shutdown(context.Background())
		case <-ctx.Done():
			return nil
		}
	})
	if err := group.Wait(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
