package main

import (
	"bufio"
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/sweater-ventures/tally/app"
)

type SendCmd struct {
	URL       string `arg:"--url,required" help:"Tally base URL"`
	Secret    string `arg:"--secret,required" help:"Webhook signing secret"`
	EventType string `arg:"--event-type" default:"customer.subscription.updated" help:"Provider event type to send"`
	Customer  string `arg:"--customer" default:"cus_loadtest" help:"External customer ID to reference"`
	Rate      int    `arg:"--rate" default:"10" help:"Events per second"`
	Count     int    `arg:"--count" default:"100" help:"Total events to send"`
	Redeliver bool   `arg:"--redeliver" help:"Send every event twice to exercise dedup"`
}

type WatchCmd struct {
	URL         string        `arg:"--url,required" help:"Tally base URL"`
	AdminSecret string        `arg:"--admin-secret,required" help:"Admin secret for the event stream"`
	Duration    time.Duration `arg:"--duration" default:"30s" help:"How long to watch"`
}

type GenSecretCmd struct{}

type args struct {
	Send      *SendCmd      `arg:"subcommand:send" help:"Send synthetic provider webhooks to Tally"`
	Watch     *WatchCmd     `arg:"subcommand:watch" help:"Watch the pipeline event stream and count progress messages"`
	GenSecret *GenSecretCmd `arg:"subcommand:gen-secret" help:"Generate a random secret for WEBHOOK_SECRET or ADMIN_SECRET"`
}

func (args) Description() string {
	return "tallyho — load testing tool for the Tally billing event pipeline"
}

func main() {
	var a args
	p := arg.MustParse(&a)

	switch {
	case a.Send != nil:
		runSend(a.Send)
	case a.Watch != nil:
		runWatch(a.Watch)
	case a.GenSecret != nil:
		secret, err := app.GenerateSecret()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error generating secret: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(secret)
	default:
		p.WriteUsage(os.Stdout)
		fmt.Println()
		p.WriteHelp(os.Stdout)
		os.Exit(1)
	}
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func syntheticEvent(eventType, customer string, seq int) []byte {
	now := time.Now().UTC()
	body, _ := json.Marshal(map[string]any{
		"id":   fmt.Sprintf("evt_tallyho_%d_%06d", now.UnixNano(), seq),
		"type": eventType,
		"data": map[string]any{
			"object": map[string]any{
				"id":                   fmt.Sprintf("sub_tallyho_%06d", seq),
				"customer":             customer,
				"status":               "active",
				"current_period_start": now.Unix(),
				"current_period_end":   now.Add(30 * 24 * time.Hour).Unix(),
				"items": map[string]any{
					"data": []map[string]any{
						{"price": map[string]any{"id": "price_basic_monthly"}},
					},
				},
			},
		},
	})
	return body
}

func runSend(cmd *SendCmd) {
	client := &http.Client{Timeout: 10 * time.Second}
	interval := time.Second / time.Duration(cmd.Rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sent, duplicates, errors int
	start := time.Now()

	post := func(body []byte) {
		req, err := http.NewRequest(http.MethodPost, cmd.URL+"/api/webhooks/provider", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nerror creating request: %v\n", err)
			errors++
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tally-Signature", sign(cmd.Secret, body))

		resp, err := client.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nerror sending event: %v\n", err)
			errors++
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			fmt.Fprintf(os.Stderr, "\nunexpected status %d\n", resp.StatusCode)
			errors++
			return
		}

		var ack struct {
			Duplicate bool `json:"duplicate"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ack); err == nil && ack.Duplicate {
			duplicates++
		}
		sent++
	}

	for i := 0; i < cmd.Count; i++ {
		<-ticker.C

		body := syntheticEvent(cmd.EventType, cmd.Customer, i)
		post(body)
		if cmd.Redeliver {
			post(body)
		}
		fmt.Fprintf(os.Stderr, "\rSent: %d  Duplicates: %d  Errors: %d", sent, duplicates, errors)
	}

	elapsed := time.Since(start)
	actualRate := float64(sent) / elapsed.Seconds()
	fmt.Fprintf(os.Stderr, "\r%s\r", "                                                  ")
	fmt.Fprintf(os.Stderr, "Send complete: %d sent, %d duplicates, %d errors, %.1fs elapsed, %.1f events/sec\n",
		sent, duplicates, errors, elapsed.Seconds(), actualRate)
}

func runWatch(cmd *WatchCmd) {
	ctx, cancel := context.WithTimeout(context.Background(), cmd.Duration)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cmd.URL+"/api/events/stream", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-Tally-Admin-Secret", cmd.AdminSecret)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error connecting to stream: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "stream returned status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Watching pipeline stream for %s...\n", cmd.Duration)

	counts := make(map[string]int)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if eventType, ok := strings.CutPrefix(line, "event: "); ok {
			counts[eventType]++
		}
	}

	fmt.Fprintln(os.Stderr, "Watch complete:")
	for eventType, n := range counts {
		fmt.Fprintf(os.Stderr, "  %-20s %d\n", eventType, n)
	}
	if len(counts) == 0 {
		fmt.Fprintln(os.Stderr, "  (no messages observed)")
	}
}
