// imu-logger records a labeled IMU session over serial. The operator labels
// live from stdin: "f" marks a fall (retroactively relabeling the buffered
// lead-up), "a" marks ordinary activity, "n" clears the label, "q" quits.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/config"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/stream"
)

var (
	port       = flag.String("port", "/dev/ttyUSB0", "Serial port the IMU is attached to")
	out        = flag.String("out", "imu_log.csv", "Labeled recording output path")
	configPath = flag.String("config", "", "Tuning config JSON (defaults apply when omitted)")
)

func main() {
	flag.Parse()

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	mode := stream.RetroMode(cfg.GetRetroMode())
	capacity := int(cfg.GetRetroSeconds() * cfg.GetDefaultSampleRate())

	imuPort, err := stream.NewIMUPort(*port)
	if err != nil {
		log.Fatalf("failed to open serial port %s: %v", *port, err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()
	writer, err := stream.NewLogWriter(f)
	if err != nil {
		log.Fatalf("failed to start log: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := imuPort.Monitor(ctx); err != nil {
			log.Printf("serial monitor stopped: %v", err)
		}
		cancel()
	}()

	buffer := stream.NewRetroBuffer(capacity, mode)

	var mu sync.Mutex
	current := imu.LabelNone

	// Operator labels from stdin.
	go func() {
		scan := bufio.NewScanner(os.Stdin)
		for scan.Scan() {
			var next imu.Label
			switch strings.TrimSpace(strings.ToLower(scan.Text())) {
			case "f":
				next = imu.LabelFALL
			case "a":
				next = imu.LabelADL
			case "n":
				next = imu.LabelNone
			case "q":
				cancel()
				return
			default:
				continue
			}

			mu.Lock()
			current = next
			mu.Unlock()

			if next != imu.LabelNone {
				eventID := uuid.New().String()
				changed := buffer.Relabel(next, eventID)
				log.Printf("label %s (event %s): %d buffered samples relabeled", next, eventID, changed)
			} else {
				log.Printf("label cleared")
			}
		}
	}()

	start := time.Now()
	log.Printf("logging %s to %s (retro mode %s, %d-sample buffer)", *port, *out, mode, capacity)

	for {
		select {
		case <-ctx.Done():
			flush(buffer, writer)
			wg.Wait()
			log.Printf("wrote %d samples to %s", writer.Rows(), *out)
			return
		case line := <-imuPort.Events():
			r, err := stream.ParseLine(line)
			if err != nil {
				log.Printf("skipping line: %v", err)
				continue
			}
			if !r.HasTime {
				r.Sample.T = time.Since(start).Seconds()
			}
			mu.Lock()
			r.Sample.Label = current
			mu.Unlock()

			if e, ok := buffer.Push(r.Sample); ok {
				if err := writer.WriteEntry(e); err != nil {
					log.Fatalf("failed to write sample: %v", err)
				}
			}
		}
	}
}

func flush(buffer *stream.RetroBuffer, writer *stream.LogWriter) {
	for _, e := range buffer.Drain() {
		if err := writer.WriteEntry(e); err != nil {
			log.Printf("failed to write buffered sample: %v", err)
			return
		}
	}
	if err := writer.Flush(); err != nil {
		log.Printf("failed to flush log: %v", err)
	}
}
