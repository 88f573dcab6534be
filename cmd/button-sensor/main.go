// Command button-sensor polls push buttons on GPIO and publishes press and
// release events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/button-sensor/internal/button"
	"github.com/sweeney/button-sensor/internal/gpio"
	"github.com/sweeney/button-sensor/internal/metrics"
	"github.com/sweeney/button-sensor/internal/monitor"
	"github.com/sweeney/button-sensor/internal/mqtt"
	"github.com/sweeney/button-sensor/internal/status"
	"github.com/sweeney/button-sensor/internal/web"
)

type config struct {
	poll       time.Duration
	heartbeat  time.Duration
	broker     string
	clientID   string
	chip       string
	buttons    []buttonConfig
	printState bool
	httpAddr   string
}

func main() {
	poll := flag.Duration("poll", 50*time.Millisecond, "GPIO polling interval")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	clientID := flag.String("client-id", "button-sensor", "MQTT client ID")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	chip := flag.String("chip", gpio.DefaultChip, "GPIO character device")
	buttons := flag.String("buttons", "button=17:active-high:internal-pull",
		"Comma-separated buttons: name=pin[:active-high][:internal-pull|:pull-up|:pull-down|:no-pull]")
	printState := flag.Bool("print-state", false, "Print current state and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	flag.Parse()

	cfgs, err := parseButtons(*buttons)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	err = run(config{
		poll:       *poll,
		heartbeat:  *heartbeat,
		broker:     *broker,
		clientID:   *clientID,
		chip:       *chip,
		buttons:    cfgs,
		printState: *printState,
		httpAddr:   *httpAddr,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// buttonConfig is one entry of the -buttons flag.
type buttonConfig struct {
	Name         string
	Pin          int
	ActiveHigh   bool
	InternalPull bool
	Pull         *gpio.Pull // explicit bias, overrides InternalPull
}

func (c buttonConfig) options() []button.Option {
	var opts []button.Option
	if c.InternalPull {
		opts = append(opts, button.WithInternalPull())
	}
	if c.Pull != nil {
		opts = append(opts, button.WithPull(*c.Pull))
	}
	return opts
}

// parseButtons parses "name=pin[:flag...]" entries separated by commas.
func parseButtons(spec string) ([]buttonConfig, error) {
	var out []buttonConfig
	seen := make(map[string]bool)

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, rest, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("button %q: want name=pin", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("button %q: duplicate name", name)
		}
		seen[name] = true

		parts := strings.Split(rest, ":")
		pin, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || pin < 0 {
			return nil, fmt.Errorf("button %q: invalid pin %q", name, parts[0])
		}

		c := buttonConfig{Name: name, Pin: pin}
		for _, f := range parts[1:] {
			switch strings.TrimSpace(f) {
			case "active-high":
				c.ActiveHigh = true
			case "internal-pull":
				c.InternalPull = true
			case "pull-up":
				c.Pull = pullPtr(gpio.PullUp)
			case "pull-down":
				c.Pull = pullPtr(gpio.PullDown)
			case "no-pull":
				c.Pull = pullPtr(gpio.PullNone)
			default:
				return nil, fmt.Errorf("button %q: unknown flag %q", name, f)
			}
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no buttons configured")
	}
	return out, nil
}

func pullPtr(p gpio.Pull) *gpio.Pull { return &p }

// openButtons configures every button on d and registers it with a monitor.
func openButtons(d gpio.Driver, cfgs []buttonConfig, start time.Time) (*monitor.Monitor, []status.ButtonStatus, error) {
	mon := monitor.New(start)
	statuses := make([]status.ButtonStatus, 0, len(cfgs))

	for _, c := range cfgs {
		in, err := button.New(d, c.Pin, c.ActiveHigh, c.options()...)
		if err != nil {
			return nil, nil, fmt.Errorf("button %s: %w", c.Name, err)
		}
		if err := mon.Add(c.Name, in); err != nil {
			return nil, nil, err
		}
		statuses = append(statuses, status.ButtonStatus{
			Name:       c.Name,
			Pin:        in.Pin(),
			ActiveHigh: in.ActiveHigh(),
			Pull:       in.Pull().String(),
		})
	}
	return mon, statuses, nil
}

func run(cfg config) error {
	start := time.Now()

	// Initialize GPIO
	driver, err := gpio.NewRealDriver(cfg.chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer driver.Close()

	mon, statuses, err := openButtons(driver, cfg.buttons, start)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}

	// Print state mode
	if cfg.printState {
		return printState(mon)
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.broker, cfg.clientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(start, status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPAddr:    cfg.httpAddr,
		Chip:        cfg.chip,
	}, statuses)
	tracker.SetMQTTConnected(publisher.IsConnected())
	m := metrics.New()

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: poll=%v broker=%s heartbeat=%v buttons=%d", cfg.poll, cfg.broker, cfg.heartbeat, len(cfg.buttons))

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(mon, publisher, publisher, tracker, m, cfg.heartbeat, time.Now, ticker.C, sigCh)
}

func printState(mon *monitor.Monitor) error {
	if _, errs := mon.Poll(time.Now()); len(errs) > 0 {
		return fmt.Errorf("read gpio: %w", errs[0])
	}
	for _, in := range mon.Inputs() {
		fmt.Printf("%s: %s\n", in.Name, in.Input.State())
	}
	return nil
}

func runLoop(mon *monitor.Monitor, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, m *metrics.Metrics, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			events, errs := mon.Poll(t)

			failed := make(map[string]bool, len(errs))
			for _, err := range errs {
				log.Printf("gpio read error: %v", err)
				failed[err.Name] = true
				if tracker != nil {
					tracker.RecordReadError(err.Name)
				}
				if m != nil {
					m.ObserveReadError(err.Name)
				}
			}

			for _, event := range events {
				log.Printf("event: %s %s (pin %d)", event.Button, event.Type, event.Pin)
				if m != nil {
					m.ObserveChange(event.Button, event.Type)
				}
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			for _, in := range mon.Inputs() {
				if failed[in.Name] || !in.Input.Sampled() {
					continue
				}
				if m != nil {
					m.ObserveSample(in.Name, in.Input.IsActive())
				}
				if tracker != nil {
					tracker.Update(in.Name, in.Input.State(), in.Counts)
				}
			}
			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if hb := mon.CheckHeartbeat(t, heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v pressed=%d released=%d",
					hb.Uptime, hb.Counts.Pressed, hb.Counts.Released)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}
