package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jinjor/pisynth/src/audio"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "YAML config file.")
	renderPath := flag.String("render", "", "Render a note to this .wav file instead of playing.")
	note := flag.Uint("note", 69, "Note number for -render.")
	velocity := flag.Float64("velocity", 1.0, "Velocity for -render.")
	seconds := flag.Float64("seconds", 2.0, "Length of -render in seconds.")
	preset := flag.String("preset", "", "Preset to load, overrides the config file.")
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	cfg, err := audio.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	if *preset != "" {
		cfg.Preset = *preset
	}
	if *renderPath != "" {
		if err := render(cfg, *renderPath, uint16(*note), *velocity, *seconds); err != nil {
			log.Fatalf("error: %v\n", err)
		}
		return
	}

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := audio.NewAudio(cfg)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer a.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, cfg.Socket, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return a.Start(ctx)
		})
		g.Go(func() error {
			for data := range audio.ListenToMidiIn(ctx, cfg.MidiIn) {
				a.AddMidiEvent(data)
			}
			return nil
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, a.CommandCh)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, a)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func render(cfg *audio.Config, path string, note uint16, velocity float64, seconds float64) error {
	if seconds < 0 || math.IsNaN(seconds) {
		return fmt.Errorf("invalid length: %v seconds", seconds)
	}
	a, err := audio.NewOfflineAudio(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	defer f.Close()
	if err := a.WriteWav(f, a.RenderNote(note, velocity, seconds)); err != nil {
		return err
	}
	log.Printf("rendered %.2fs of note %d to %v\n", seconds, note, path)
	return nil
}

func withIPCConnection(ctx context.Context, sockFileName string, f func(net.Conn) error) error {
	os.Remove(sockFileName)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", sockFileName)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(sockFileName)
	}()
	log.Printf("start listening on %v...\n", sockFileName)
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			log.Printf("[WARN] bad command %q: %v\n", string(line), err)
		} else {
			commandCh <- command
			log.Printf("received: %s\n", string(line))
		}
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

// sendReports writes one line per changed parameter:
// "param <name> <normalized> <display>", with the display text query-escaped.
func sendReports(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	for _, id := range a.ParamIDs() {
		a.Changes.Add(id.String())
	}
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			for _, key := range a.Changes.Drain() {
				s, err := report(a, key)
				if err != nil {
					log.Printf("[WARN] report %v: %v\n", key, err)
					continue
				}
				if _, err := conn.Write([]byte(s + "\n")); err != nil {
					return err
				}
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}

func report(a *audio.Audio, key string) (string, error) {
	if key == "presets" {
		names, err := a.Presets()
		if err != nil {
			return "", err
		}
		s := "presets"
		for _, name := range names {
			s += " " + url.QueryEscape(name)
		}
		return s, nil
	}
	id, err := audio.ParamIDFromString(key)
	if err != nil {
		return "", err
	}
	normalized, text := a.ParamText(id)
	return "param " + key + " " + strconv.FormatFloat(normalized, 'f', 6, 64) + " " + url.QueryEscape(text), nil
}
