package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"wxtools/internal/fetch"
	"wxtools/pkg/logger"
)

func main() {
	metarOnly := flag.Bool("metar", false, "Show only METAR")
	tafOnly := flag.Bool("taf", false, "Show only raw TAF")
	reconFlag := flag.Bool("recon", false, "Decode an aircraft reconnaissance HDOB product instead of a METAR")
	noRawFlag := flag.Bool("no-raw", false, "Hide raw data")
	noDecodeFlag := flag.Bool("no-decode", false, "Show only raw data without decoding")
	flagNoColor := flag.Bool("no-color", false, "Disable color output")
	verboseFlag := flag.Bool("verbose", false, "Log fetch progress and retries")
	flag.Parse()

	if *flagNoColor {
		color.NoColor = true // disables colorized output globally
	}

	logLevel := "error"
	if *verboseFlag {
		logLevel = "debug"
	}
	log, err := logger.New(logger.Config{Level: logLevel, Format: "console"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client := fetch.NewClient(fetch.DefaultConfig(), log)
	ctx := context.Background()

	// Piped input decodes directly, no fetching.
	rawInput, stdinHasData := readFromStdin()
	if stdinHasData {
		if *reconFlag {
			processRecon(rawInput, *noRawFlag, *noDecodeFlag)
		} else {
			processMETAR(rawInput, *noRawFlag, *noDecodeFlag)
		}
		return
	}

	if *reconFlag {
		productID, err := getReconProductFromArgs(flag.Args())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		raw, err := client.FetchRecon(ctx, productID)
		if err != nil {
			fmt.Printf("Error fetching recon product: %v\n", err)
			os.Exit(1)
		}
		processRecon(raw, *noRawFlag, *noDecodeFlag)
		return
	}

	stationCode, err := getStationCodeFromArgs(flag.Args())
	if err != nil {
		stationCode, err = promptForStationCode()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	if !*tafOnly {
		raw, err := client.FetchMETAR(ctx, stationCode)
		if err != nil {
			fmt.Printf("Error fetching METAR: %v\n", err)
			os.Exit(1)
		}
		processMETAR(raw, *noRawFlag, *noDecodeFlag)
	}

	if !*metarOnly {
		if !*tafOnly {
			fmt.Println("\n----------------------------------")
			fmt.Println()
		}
		rawTAF, err := client.FetchTAF(ctx, stationCode)
		if err != nil {
			fmt.Printf("Error fetching TAF: %v\n", err)
			return
		}
		functionColor.Println("------ Raw TAF ------")
		fmt.Println(rawTAF)
	}
}
