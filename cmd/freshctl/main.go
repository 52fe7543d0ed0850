package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/Brownie44l1/freshness-api/client"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  freshctl [flags] health\n")
	fmt.Fprintf(os.Stderr, "  freshctl [flags] predict <image> [image...]\n\n")
	flag.PrintDefaults()
}

func main() {
	_ = godotenv.Load()

	url := flag.String("url", envOr("API_URL", "http://localhost:8000"), "Base URL of the prediction API")
	apiKey := flag.String("api-key", os.Getenv("API_KEY"), "Value sent as X-API-Key")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	c := client.New(*url, *apiKey)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "health":
		health, err := c.Health(ctx)
		if err != nil {
			log.Fatalf("API not reachable at %s: %v", *url, err)
		}
		modelPath := "-"
		if health.ModelPath != nil {
			modelPath = *health.ModelPath
		}

		table := newTable([]string{"Status", "Model loaded", "Demo mode", "Model path"})
		table.Append([]string{health.Status, strconv.FormatBool(health.ModelLoaded), strconv.FormatBool(health.DemoMode), modelPath})
		table.Render()

	case "predict":
		if flag.NArg() < 2 {
			usage()
			os.Exit(2)
		}

		table := newTable([]string{"File", "Days remaining", "Demo mode", "Note"})
		failed := false
		for _, path := range flag.Args()[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Failed to read %s: %v", path, err)
				failed = true
				continue
			}

			res, err := c.Predict(ctx, filepath.Base(path), data)
			if err != nil {
				table.Append([]string{path, "-", "-", err.Error()})
				failed = true
				continue
			}
			table.Append([]string{path, strconv.FormatFloat(res.DaysRemaining, 'f', 2, 64), strconv.FormatBool(res.DemoMode), res.Message})
		}
		table.Render()
		if failed {
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(2)
	}
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
