package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/granja/internal/events"
	"github.com/alfredjeanlab/granja/internal/logging"
	"github.com/alfredjeanlab/granja/internal/ui"
)

func newWatchCmd(a *app) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow changes announced by other consoles",
		Long: `Print record and configuration changes published on the event bus
(GRANJA_NATS_URL). Configuration changes also reload the local copy.`,
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.NATSURL == "" {
				return errors.New("GRANJA_NATS_URL is not set")
			}
			log := logging.Subsystem(a.log, "watch")
			sub, err := events.NewNATSSubscriber(a.cfg.NATSURL, log)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return events.Watch(ctx, sub, topic, log, func(ctx context.Context, ev events.Envelope) error {
				fmt.Fprintln(a.out, describeEvent(ev))
				if strings.HasPrefix(ev.Topic, "granja.config.") && a.state.Token() != "" {
					return a.state.Refresh(ctx)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&topic, "topic", events.TopicAll, "subject to subscribe to")
	return cmd
}

func describeEvent(ev events.Envelope) string {
	stamp := func(t time.Time) string { return ui.RenderMuted(t.Local().Format(time.TimeOnly)) }
	switch {
	case strings.HasPrefix(ev.Topic, "granja.record."):
		var rc events.RecordChanged
		if err := json.Unmarshal(ev.Data, &rc); err == nil {
			action := strings.TrimPrefix(ev.Topic, "granja.record.")
			return fmt.Sprintf("%s %s %s %s por %s", stamp(rc.At), ui.RenderCommand(rc.Resource), action, rc.ID, rc.By)
		}
	case strings.HasPrefix(ev.Topic, "granja.config."):
		var cu events.ConfigUpdated
		if err := json.Unmarshal(ev.Data, &cu); err == nil {
			return fmt.Sprintf("%s %s %s por %s", stamp(cu.At), ui.RenderAccent("config"), cu.Group, cu.By)
		}
	}
	return fmt.Sprintf("%s %s", ev.Topic, ev.Data)
}
