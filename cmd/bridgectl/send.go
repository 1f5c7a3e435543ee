package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/shortlink-org/smartapp-bridge/bridge"
	"github.com/shortlink-org/smartapp-bridge/config"
	"github.com/shortlink-org/smartapp-bridge/emitter"
	"github.com/shortlink-org/smartapp-bridge/logger"
	"github.com/shortlink-org/smartapp-bridge/platform/broker"
	"github.com/shortlink-org/smartapp-bridge/protocol"
)

var ErrUnknownHandler = errors.New("unknown handler, expected bot or client")

type sendOptions struct {
	method      string
	params      string
	handler     string
	timeout     time.Duration
	hideSend    bool
	hideRecv    bool
	logs        bool
	noRename    bool
	syncRequest bool
}

func newSendCommand() *cobra.Command {
	opts := sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one event and print the answer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return send(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.method, "method", "", "event method")
	flags.StringVar(&opts.params, "params", "{}", "event params as a JSON object")
	flags.StringVar(&opts.handler, "handler", "bot", "bot or client")
	flags.DurationVar(&opts.timeout, "timeout", 0, "response timeout (default BRIDGE_RESPONSE_TIMEOUT)")
	flags.BoolVar(&opts.hideSend, "hide-send", false, "mask params in event logs")
	flags.BoolVar(&opts.hideRecv, "hide-recv", false, "mask the answer in event logs")
	flags.BoolVar(&opts.logs, "logs", false, "log outgoing and incoming events")
	flags.BoolVar(&opts.noRename, "no-rename", false, "keep bot event params as they are")
	flags.BoolVar(&opts.syncRequest, "sync", false, "ask the host for a synchronous request")

	_ = cmd.MarkFlagRequired("method") //nolint:errcheck // flag is defined above

	return cmd
}

func send(ctx context.Context, out io.Writer, opts sendOptions) error {
	if opts.handler != "bot" && opts.handler != "client" {
		return fmt.Errorf("%w: %q", ErrUnknownHandler, opts.handler)
	}

	var params any
	if err := json.Unmarshal([]byte(opts.params), &params); err != nil {
		return fmt.Errorf("params: %w", err)
	}

	cfg, err := config.New(nil)
	if err != nil {
		return err
	}

	log, cleanup, err := logger.NewDefault(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	brokerCfg := broker.LoadConfig(cfg)
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, broker.NewLogger(log))

	echoDone, err := broker.Echo(ctx, log, pubsub, pubsub, brokerCfg)
	if err != nil {
		return err
	}

	transport, err := broker.New(ctx, log, pubsub, pubsub, brokerCfg)
	if err != nil {
		return err
	}

	defer func() {
		if errClose := transport.Close(); errClose != nil {
			log.Error("Failed to close transport", slog.String("error", errClose.Error()))
		}

		<-echoDone
	}()

	bridgeCfg := bridge.LoadConfig(cfg)
	bridgeCfg.LogsEnabled = bridgeCfg.LogsEnabled || opts.logs
	bridgeCfg.RenameParams = bridgeCfg.RenameParams && !opts.noRename

	engine := bridge.New(transport, bridge.WithLogger(log), bridge.WithConfig(bridgeCfg))

	var future *emitter.Future[protocol.Event]

	switch opts.handler {
	case "bot":
		future = engine.SendBotEvent(ctx, bridge.BotEventParams{
			Method:            opts.method,
			Params:            params,
			Timeout:           opts.timeout,
			SyncRequest:       opts.syncRequest,
			HideSendEventData: opts.hideSend,
			HideRecvEventData: opts.hideRecv,
		})
	case "client":
		future = engine.SendClientEvent(ctx, bridge.ClientEventParams{
			Method:            opts.method,
			Params:            params,
			Timeout:           opts.timeout,
			HideSendEventData: opts.hideSend,
			HideRecvEventData: opts.hideRecv,
		})
	}

	event, err := future.Wait(ctx)
	if err != nil {
		return err
	}

	answer, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(answer))

	return err
}
