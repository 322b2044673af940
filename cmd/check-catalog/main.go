// check-catalog queries the ticketing API and reports whether its catalog
// responses satisfy the storefront's contracts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"olympics-storefront/internal/api"
	"olympics-storefront/internal/config"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("check-catalog", pflag.ContinueOnError)
	details := flags.Bool("details", false, "fetch every sport's detail page as well")

	cfg, err := config.LoadFlagSet(flags, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	timeout := cfg.API.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: timeout})
	ctx := context.Background()

	fmt.Printf("Checking catalog at %s\n", client.BaseURL())

	offers, err := client.Offers(ctx)
	if err != nil {
		log.Fatal("Failed to load offers: ", err)
	}
	fmt.Printf("Offers: %d\n", len(offers))
	for _, offer := range offers {
		fmt.Printf("  %d %-20s %8.2f €  %d personne(s)\n", offer.ID, offer.Name, offer.Price, offer.Capacity)
	}

	sports, err := client.Sports(ctx)
	if err != nil {
		log.Fatal("Failed to load sports: ", err)
	}
	fmt.Printf("Sports: %d\n", len(sports))

	failures := 0
	for _, sport := range sports {
		if !*details {
			fmt.Printf("  %-20s %s\n", sport.Slug, sport.Venue)
			continue
		}

		detail, err := client.Sport(ctx, sport.Slug)
		if err != nil {
			failures++
			fmt.Printf("  %-20s FAILED: %v\n", sport.Slug, err)
			continue
		}
		fmt.Printf("  %-20s %d épreuve(s)\n", sport.Slug, len(detail.Events))
	}

	if failures > 0 {
		fmt.Printf("%d sport(s) could not be loaded\n", failures)
		os.Exit(1)
	}
}
