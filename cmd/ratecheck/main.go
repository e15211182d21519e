// Command ratecheck prints the current exchange rates for every league the
// market API knows, for operational debugging without going through Discord.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/pricing"
	"github.com/wanichchakorn/poe2-pcm-discordbot/internal/scout"
)

var (
	baseURL = flag.String("base-url", "https://poe2scout.com", "Market API base URL")
	timeout = flag.Duration("timeout", 10*time.Second, "Request timeout")
)

func main() {
	flag.Parse()

	client := scout.NewClient(*baseURL, *timeout, nil)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rates, err := client.FetchLeagues(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch leagues: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LEAGUE\tDIVINE PRICE\tCHAOS/DIVINE\tFOOTER")
	for _, rate := range rates {
		fmt.Fprintf(w, "%s\t%v\t%v\t%s\n", rate.League, rate.DivinePrice, rate.ChaosDivinePrice, pricing.RateFooter(rate))
	}
	w.Flush()
}
