package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"ecobin-backend/internal/dashboard"
	"ecobin-backend/internal/events"
	"ecobin-backend/internal/models"
)

const snapshotTimeout = 10 * time.Second

type WatchCmd struct {
	flags *Flags

	server string
	count  int
}

func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Follow live dashboard events from a running server",
		UsageText: "ecobinctl watch [--server URL] [--count N]",
		Description: `Loads the current activities and notifications over REST, then applies every
realtime event to that snapshot and prints the updated overview counts.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "base URL of the ecobin server",
				Sources:     cli.EnvVars("ECOBIN_SERVER"),
				Value:       "http://localhost:8080",
				Destination: &cmd.server,
			},
			&cli.IntFlag{
				Name:        "count",
				Usage:       "stop after this many events (0 follows forever)",
				Destination: &cmd.count,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	base, err := url.Parse(strings.TrimRight(cmd.server, "/"))
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}

	state, err := loadSnapshot(ctx, http.DefaultClient, base)
	if err != nil {
		return err
	}
	out := c.Root().Writer
	printOverview(out, "snapshot", state)

	wsURL, err := websocketURL(base)
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", wsURL, err)
	}
	log.Info().Str("url", wsURL).Msg("🔌 Connected, waiting for events")

	_, err = follow(ctx, conn, state, cmd.count, out)
	return err
}

// follow applies events until the connection ends, the context is cancelled
// or limit events have been seen. The connection is always closed on return.
func follow(ctx context.Context, conn *websocket.Conn, state dashboard.State, limit int, out io.Writer) (dashboard.State, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	seen := 0
	for limit == 0 || seen < limit {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return state, nil
			}
			return state, fmt.Errorf("read event: %w", err)
		}

		var ev events.Envelope
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" || ev.Type == "pong" {
			continue
		}

		next, err := dashboard.Reduce(state, ev)
		if err != nil {
			log.Warn().Err(err).Str("event", ev.Type).Msg("⚠️ Skipping malformed event")
			continue
		}
		state = next
		seen++
		printOverview(out, ev.Type, state)
	}
	return state, nil
}

func printOverview(out io.Writer, label string, s dashboard.State) {
	o := s.Overview()
	fmt.Fprintf(out, "%-22s activities=%d alerts=%d in_progress=%d collections=%d maintenance=%d unread=%d\n",
		label, o.Activities, o.Alerts, o.InProgress, o.Collections, o.Maintenance, o.Unread)
}

func loadSnapshot(ctx context.Context, client *http.Client, base *url.URL) (dashboard.State, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	var state dashboard.State
	if err := getJSON(ctx, client, base.String()+"/api/activities", &state.Activities); err != nil {
		return state, err
	}
	if err := getJSON(ctx, client, base.String()+"/api/notifications", &state.Notifications); err != nil {
		return state, err
	}
	if state.Activities == nil {
		state.Activities = []models.Activity{}
	}
	if state.Notifications == nil {
		state.Notifications = []models.Notification{}
	}
	return state, nil
}

func getJSON(ctx context.Context, client *http.Client, target string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", target, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	return nil
}

func websocketURL(base *url.URL) (string, error) {
	u := *base
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("server url must start with http:// or https://")
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}
