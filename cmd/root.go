// Package cmd implements the CLI surface named in spec §6: front-end
// selection, output format switches, and sink configuration, bound via
// cobra the way USA-RedDragon-DMRHub binds its server flags.
package cmd

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"iridium-decode/frontend"
	"iridium-decode/ida"
	"iridium-decode/output"
	"iridium-decode/tui"
)

var (
	flagFrontend   string
	flagArgs       []string
	flagParsed     bool
	flagACARS      bool
	flagJSON       bool
	flagDiagnostic bool
	flagPubSubAddr string
	flagDedupeTTL  time.Duration
	flagLogLevel   string
)

// NewRootCmd builds the root command. main.go's only job is to call this
// and Execute it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "iridium-decode",
		Short: "Decode Iridium IDA/SBD/ACARS traffic from a demodulated front-end feed",
		RunE:  runRoot,
	}

	root.Flags().StringVar(&flagFrontend, "frontend", "", "path to an external demod_frame front-end process (required)")
	root.Flags().StringSliceVar(&flagArgs, "frontend-arg", nil, "argument to pass to the front-end process (repeatable)")
	root.Flags().BoolVar(&flagParsed, "parsed", false, "emit parsed IDA burst lines")
	root.Flags().BoolVar(&flagACARS, "acars", true, "emit decoded ACARS records")
	root.Flags().BoolVar(&flagJSON, "json", false, "emit ACARS records as JSON instead of text")
	root.Flags().BoolVar(&flagDiagnostic, "diagnostic", false, "run the live terminal dashboard instead of printing lines")
	root.Flags().StringVar(&flagPubSubAddr, "pubsub-addr", "", "bind address for the websocket pub/sub sink (disabled if empty)")
	root.Flags().DurationVar(&flagDedupeTTL, "dedupe-ttl", 10*time.Second, "suppress duplicate ACARS records within this window (0 disables)")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return root
}

func runRoot(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(flagLogLevel); err == nil {
		log.SetLevel(lvl)
	}
	entry := logrus.NewEntry(log)

	if flagFrontend == "" {
		return fmt.Errorf("cmd: --frontend is required")
	}

	pipeline := ida.NewPipeline(entry)

	var dedupe *output.DedupeCache
	if flagDedupeTTL > 0 {
		dedupe = output.NewDedupeCache(flagDedupeTTL)
	}

	jsonEnc := output.NewJSONEncoder()

	var pubsub *output.PubSub
	if flagPubSubAddr != "" {
		pubsub = output.NewPubSub()
		go func() {
			entry.WithField("addr", flagPubSubAddr).Info("starting pub/sub sink")
			if err := startPubSubServer(flagPubSubAddr, pubsub); err != nil {
				entry.WithError(err).Error("pub/sub sink stopped")
			}
		}()
	}

	var frames, bursts, crcOK, acarsCount int64
	var lastTimestamp int64 // sample time of the latest frame, for Flush
	var recentMu sync.Mutex
	var recent []string

	handler := func(frame ida.DemodFrame) {
		atomic.AddInt64(&frames, 1)
		atomic.StoreInt64(&lastTimestamp, frame.Timestamp)

		out := pipeline.Process(frame)

		if out.Burst != nil {
			atomic.AddInt64(&bursts, 1)
			if out.Burst.CRCOK {
				atomic.AddInt64(&crcOK, 1)
			}
			if flagParsed && !flagDiagnostic {
				fmt.Println(output.FormatIDA(*out.Burst))
			}
		}

		if out.ACARS != nil {
			if dedupe != nil && dedupe.Seen(*out.ACARS) {
				return
			}
			atomic.AddInt64(&acarsCount, 1)

			if flagACARS {
				var line string
				if flagJSON {
					// Strict (JSON) mode suppresses error-flagged records
					// entirely; lenient (text) mode below still emits them,
					// marked, for a human to judge.
					if out.ACARS.Errors == 0 {
						b, err := jsonEnc.Encode(*out.ACARS)
						if err == nil {
							line = string(b)
						}
					}
				} else {
					line = output.FormatACARSText(*out.ACARS)
				}
				if line != "" {
					if !flagDiagnostic {
						fmt.Println(line)
					}
					recentMu.Lock()
					recent = append(recent, line)
					if len(recent) > 20 {
						recent = recent[len(recent)-20:]
					}
					recentMu.Unlock()
					if pubsub != nil {
						pubsub.Publish([]byte(line))
					}
				}
			}
		}
	}

	stop, err := frontend.StartReceive(flagFrontend, flagArgs, handler)
	if err != nil {
		return fmt.Errorf("cmd: %w", err)
	}
	defer stop()

	flushTicker := time.NewTicker(250 * time.Millisecond)
	defer flushTicker.Stop()
	go func() {
		for range flushTicker.C {
			pipeline.Flush(atomic.LoadInt64(&lastTimestamp))
		}
	}()

	if flagDiagnostic {
		pull := func() tui.Stats {
			idaSlots, sbdSlots := pipeline.Stats()
			recentMu.Lock()
			recentCopy := append([]string{}, recent...)
			recentMu.Unlock()
			return tui.Stats{
				Frames:     atomic.LoadInt64(&frames),
				Bursts:     atomic.LoadInt64(&bursts),
				CRCOK:      atomic.LoadInt64(&crcOK),
				ACARS:      atomic.LoadInt64(&acarsCount),
				IDASlots:   idaSlots,
				SBDSlots:   sbdSlots,
				RecentText: recentCopy,
			}
		}
		dash, err := tui.NewDashboard(pull, time.Second)
		if err != nil {
			return fmt.Errorf("cmd: %w", err)
		}
		defer dash.Close()
		return dash.Run()
	}

	select {}
}

func startPubSubServer(addr string, p *output.PubSub) error {
	mux := http.NewServeMux()
	mux.Handle("/stream", p)
	return http.ListenAndServe(addr, mux)
}
