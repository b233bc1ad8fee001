package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

type destination struct {
	ID                string  `json:"id"`
	DestinationName   string  `json:"destinationName"`
	Location          string  `json:"location"`
	UserAverageRating float64 `json:"userAverageRating"`
}

// Exercises the live HTTP surface end to end: create a destination,
// fetch it back by name, append a review, fetch the hydrated reviews.
// Exits non-zero on the first mismatch.
func main() {
	baseURL := flag.String("base-url", "http://localhost:3000", "Base URL of a running roamready server")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(10 * time.Second)

	name := fmt.Sprintf("SmokeTestCity%d", time.Now().UnixNano())

	// Create
	var created struct {
		Message        string      `json:"message"`
		NewDestination destination `json:"newDestination"`
	}
	resp, err := client.R().
		SetBody(map[string]interface{}{
			"destinationName": name,
			"location":        "Smoke Country",
			"description":     "Created by the smoke script",
			"rating":          4,
		}).
		SetResult(&created).
		Post("/destinations")
	if err != nil {
		log.Fatalf("Create request failed: %v", err)
	}
	if resp.IsError() || created.NewDestination.ID == "" {
		log.Fatalf("Create failed: status %d, body %s", resp.StatusCode(), resp.String())
	}
	log.Printf("Created destination %s (%s)", name, created.NewDestination.ID)

	// Fetch by name
	var byName struct {
		FoundDestination destination `json:"foundDestination"`
	}
	resp, err = client.R().SetResult(&byName).Get("/destinations/" + name)
	if err != nil {
		log.Fatalf("Fetch-by-name request failed: %v", err)
	}
	if resp.IsError() || byName.FoundDestination.ID != created.NewDestination.ID {
		log.Fatalf("Fetch-by-name mismatch: status %d, body %s", resp.StatusCode(), resp.String())
	}
	log.Printf("Fetched destination by name")

	// Append a review
	var reviewed struct {
		Message            string      `json:"message"`
		UpdatedDestination destination `json:"updatedDestination"`
	}
	resp, err = client.R().
		SetBody(map[string]interface{}{"text": "smoke review", "userRating": 5}).
		SetResult(&reviewed).
		Post("/destinations/" + created.NewDestination.ID + "/reviews")
	if err != nil {
		log.Fatalf("Append-review request failed: %v", err)
	}
	if resp.IsError() || reviewed.UpdatedDestination.UserAverageRating != 5 {
		log.Fatalf("Append-review mismatch: status %d, body %s", resp.StatusCode(), resp.String())
	}
	log.Printf("Appended review, average now %.2f", reviewed.UpdatedDestination.UserAverageRating)

	// Fetch reviews
	var reviews struct {
		Message string `json:"message"`
		Reviews []struct {
			Text       string  `json:"text"`
			UserRating float64 `json:"userRating"`
		} `json:"reviews"`
	}
	resp, err = client.R().SetResult(&reviews).Get("/destinations/" + created.NewDestination.ID + "/reviews")
	if err != nil {
		log.Fatalf("Fetch-reviews request failed: %v", err)
	}
	if resp.IsError() || len(reviews.Reviews) != 1 || reviews.Reviews[0].UserRating != 5 {
		log.Fatalf("Fetch-reviews mismatch: status %d, body %s", resp.StatusCode(), resp.String())
	}

	// Clean up
	resp, err = client.R().Delete("/destinations/" + created.NewDestination.ID)
	if err != nil || resp.IsError() {
		log.Fatalf("Cleanup delete failed: %v (status %d)", err, resp.StatusCode())
	}

	log.Println("Smoke test passed")
}
