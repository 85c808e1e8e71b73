// Package tailcmder provides the tail command: subscribe to an SSE stream
// and print its messages until interrupted.
package tailcmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/priyankark/fetch-event-source/pkg/cliui"
	"github.com/priyankark/fetch-event-source/pkg/config"
	"github.com/priyankark/fetch-event-source/pkg/dotdir"
	"github.com/priyankark/fetch-event-source/pkg/eventsource"
	"github.com/priyankark/fetch-event-source/pkg/eventstream"
	"github.com/priyankark/fetch-event-source/pkg/eventstream/kafka"
	"github.com/priyankark/fetch-event-source/pkg/eventstream/nop"
	"github.com/priyankark/fetch-event-source/pkg/logger"
	"github.com/priyankark/fetch-event-source/pkg/sse"
	"github.com/priyankark/fetch-event-source/pkg/utils"
)

// tailFlags is the flag registry for the tail command.
var tailFlags = config.FlagSet{
	config.FlagMethod: {
		Name:        "method",
		Shorthand:   "X",
		ViperKey:    "stream.method",
		Description: "HTTP method for the stream request",
	},
	config.FlagRetryMs: {
		Name:        "retry-ms",
		ViperKey:    "stream.initial_retry_ms",
		Description: "Initial reconnect interval in milliseconds",
	},
	config.FlagKafkaBrokers: {
		Name:        "kafka-brokers",
		ViperKey:    "kafka.brokers",
		Description: "Kafka broker addresses; republishes every message when set",
	},
	config.FlagKafkaTopic: {
		Name:        "kafka-topic",
		ViperKey:    "kafka.topic",
		Description: "Kafka topic for republished messages",
	},
	config.FlagLogJSON: {
		Name:        "log-json",
		ViperKey:    "log.json",
		Description: "Emit structured JSON logs",
	},
	config.FlagLogPretty: {
		Name:        "log-pretty",
		ViperKey:    "log.pretty",
		Description: "Emit colorized human-friendly logs",
	},
	config.FlagLogFile: {
		Name:        "log-file",
		ViperKey:    "log.file",
		Description: "Also write logs to this file",
	},
}

type tailCommander struct {
	url     string
	method  string
	body    string
	headers []string
	retryMs int
	resume  bool

	kafkaBrokers []string
	kafkaTopic   string

	logJSON   bool
	logPretty bool
	logFile   string

	debug     bool
	configDir string

	logger *slog.Logger
}

const tailLongDesc string = `Subscribe to a Server-Sent Events stream and print its messages.

The subscription survives dropped connections: it reconnects with the last
seen event id so the server can replay missed messages, and honors retry
intervals the server sends. Press Ctrl-C to stop.

With --resume, the last event id is persisted to .fes/resume.json between
runs, so a later tail of the same URL picks up where the previous one
stopped.

With --kafka-brokers, every received message is also republished to a Kafka
topic as a JSON envelope.

Examples:
  fes tail https://example.com/stream
  fes tail https://example.com/stream -H "Authorization: Bearer tok"
  fes tail https://example.com/stream --resume
  fes tail https://example.com/stream --kafka-brokers localhost:9092`

const tailShortDesc string = "Subscribe to an SSE stream and print its messages"

func NewTailCmd() *cobra.Command {
	cmder := &tailCommander{}

	cmd := &cobra.Command{
		Use:   "tail <url>",
		Short: tailShortDesc,
		Long:  tailLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, tailFlags, []string{
				config.FlagMethod,
				config.FlagRetryMs,
				config.FlagKafkaBrokers,
				config.FlagKafkaTopic,
				config.FlagLogJSON,
				config.FlagLogPretty,
				config.FlagLogFile,
			})

			cmder.method = v.GetString("stream.method")
			cmder.retryMs = v.GetInt("stream.initial_retry_ms")
			cmder.kafkaBrokers = v.GetStringSlice("kafka.brokers")
			cmder.kafkaTopic = v.GetString("kafka.topic")
			cmder.logJSON = v.GetBool("log.json")
			cmder.logPretty = v.GetBool("log.pretty")
			cmder.logFile = v.GetString("log.file")

			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			cmder.url = args[0]
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, tailFlags, config.FlagMethod, &cmder.method)
	config.AddIntFlag(cmd, tailFlags, config.FlagRetryMs, &cmder.retryMs)
	config.AddStringSliceFlag(cmd, tailFlags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, tailFlags, config.FlagKafkaTopic, &cmder.kafkaTopic)
	config.AddBoolFlag(cmd, tailFlags, config.FlagLogJSON, &cmder.logJSON)
	config.AddBoolFlag(cmd, tailFlags, config.FlagLogPretty, &cmder.logPretty)
	config.AddStringFlag(cmd, tailFlags, config.FlagLogFile, &cmder.logFile)

	cmd.Flags().StringArrayVarP(&cmder.headers, "header", "H", nil, `Request header as "Name: value", repeatable`)
	cmd.Flags().StringVar(&cmder.body, "body", "", "Request body sent on every connection attempt")
	cmd.Flags().BoolVar(&cmder.resume, "resume", false, "Persist the last event id across runs")

	return cmd
}

func (c *tailCommander) run() error {
	c.logger = c.newLogger()

	headers, err := parseHeaders(c.headers)
	if err != nil {
		return err
	}

	ddm := dotdir.NewManager()
	if c.resume {
		// parseHeaders canonicalizes names, so one lookup key suffices.
		key := http.CanonicalHeaderKey("Last-Event-ID")
		if _, ok := headers[key]; !ok {
			id, found, err := ddm.LastEventID(c.url, c.configDir)
			if err != nil {
				return fmt.Errorf("loading resume state: %w", err)
			}
			if found {
				headers[key] = id
				c.logger.Info("resuming stream", "last_event_id", id)
			}
		}
	}

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			c.logger.Warn("closing publisher", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []eventsource.Option{
		eventsource.WithMethod(c.method),
		eventsource.WithHeaders(headers),
		eventsource.WithLogger(c.logger),
		eventsource.WithOnMessage(func(msg sse.Message) {
			c.handleMessage(ctx, ddm, publisher, msg)
		}),
		eventsource.WithOnError(func(err error) (time.Duration, error) {
			// A rejected response (bad status or content type) will not
			// get better on retry; bail out instead of hammering the
			// endpoint.
			var verr *eventsource.ValidationError
			if errors.As(err, &verr) {
				return 0, err
			}

			c.logger.Warn("stream error, will reconnect", "error", err)
			return 0, nil
		}),
	}

	if c.retryMs > 0 {
		opts = append(opts, eventsource.WithInitialRetry(time.Duration(c.retryMs)*time.Millisecond))
	}
	if c.body != "" {
		opts = append(opts, eventsource.WithBody([]byte(c.body)))
	}

	c.logger.Info("tailing stream", "url", c.url, "method", c.method)

	err = eventsource.Subscribe(ctx, c.url, opts...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (c *tailCommander) handleMessage(ctx context.Context, ddm *dotdir.Manager, publisher eventstream.Publisher, msg sse.Message) {
	fmt.Println(cliui.FormatMessage(msg))

	if c.debug && msg.Data != nil {
		c.logger.Debug("message", "data", utils.Truncate(*msg.Data, 120))
	}

	if c.resume && msg.ID != nil {
		if err := ddm.SaveResume(c.url, *msg.ID, c.configDir); err != nil {
			c.logger.Warn("saving resume state", "error", err)
		}
	}

	event := eventstream.NewMessageReceivedEvent(c.url, msg)
	if err := publisher.PublishMessage(ctx, event); err != nil {
		c.logger.Warn("publishing message", "error", err)
	}
}

func (c *tailCommander) newLogger() *slog.Logger {
	base := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(c.logPretty),
		logger.WithJSON(c.logJSON),
		logger.WithWriter(os.Stderr),
	)

	if c.logFile == "" {
		return base
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open log file %s: %v\n", c.logFile, err)
		return base
	}

	// The file always gets structured JSON regardless of terminal styling.
	fileLog := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)

	return logger.Multi(base, fileLog)
}

func (c *tailCommander) newPublisher() (eventstream.Publisher, error) {
	if len(c.kafkaBrokers) == 0 {
		return nop.New(), nil
	}

	if c.kafkaTopic == "" {
		return nil, errors.New("kafka topic must be set when brokers are configured")
	}

	c.logger.Info("republishing to kafka", "brokers", c.kafkaBrokers, "topic", c.kafkaTopic)
	return kafka.New(c.kafkaBrokers, c.kafkaTopic), nil
}

// parseHeaders turns repeated "Name: value" flags into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		headers[http.CanonicalHeaderKey(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return headers, nil
}
