package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"

	"roamready/config"
	"roamready/database"
	"roamready/models"
	"roamready/store"
)

// Seeds the destinations collection from a CSV file with the columns
// destinationName,location,description,rating (header row expected).
func main() {
	csvPath := flag.String("csv", "destinations.csv", "Path to the destinations CSV file")
	flag.Parse()

	// Load config and connect to MongoDB
	config.LoadConfig()
	db, err := database.Connect(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	// Open CSV file
	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Read all records
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	destinations := store.NewDestinationStore(db)

	inserted, failed := 0, 0
	// Skip header row
	for i, record := range records[1:] {
		if len(record) < 4 {
			log.Printf("Row %d: expected 4 columns, got %d", i+2, len(record))
			failed++
			continue
		}

		rating, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			log.Printf("Row %d: invalid rating %q: %v", i+2, record[3], err)
			failed++
			continue
		}

		_, err = destinations.Create(context.Background(), models.Destination{
			DestinationName: record[0],
			Location:        record[1],
			Description:     record[2],
			Rating:          rating,
		})
		if err != nil {
			log.Printf("Row %d: failed to insert %q: %v", i+2, record[0], err)
			failed++
			continue
		}
		inserted++
	}

	log.Printf("Seed complete: %d inserted, %d failed", inserted, failed)
}
