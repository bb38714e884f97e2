package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readFromStdin reads a full raw report from stdin if data is piped in.
// Multi-line products such as HDOBs are read to EOF.
func readFromStdin() (string, bool) {
	info, err := os.Stdin.Stat()
	stdinHasData := (err == nil && info.Mode()&os.ModeCharDevice == 0)
	if !stdinHasData {
		return "", false
	}

	var lines []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	raw := strings.TrimSpace(strings.Join(lines, "\n"))
	if raw == "" {
		return "", false
	}
	return raw, true
}

// getStationCodeFromArgs gets station code from command-line args
func getStationCodeFromArgs(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("no station code provided")
	}

	stationCode := strings.ToUpper(strings.TrimSpace(args[0]))
	if len(stationCode) != 4 {
		return "", fmt.Errorf("invalid station code: must be 4 characters")
	}

	return stationCode, nil
}

// getReconProductFromArgs gets the NHC product id from command-line args,
// defaulting to the latest Atlantic HDOB.
func getReconProductFromArgs(args []string) (string, error) {
	if len(args) < 1 {
		return "URNT15-KNHC.shtml", nil
	}
	productID := strings.TrimSpace(args[0])
	if productID == "" {
		return "", fmt.Errorf("empty recon product id")
	}
	return productID, nil
}

// promptForStationCode prompts the user for a station code
func promptForStationCode() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter ICAO airport code (e.g., KJFK, EGLL): ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}

	stationCode := strings.ToUpper(strings.TrimSpace(input))
	if len(stationCode) != 4 {
		return "", fmt.Errorf("invalid station code: must be 4 characters")
	}

	return stationCode, nil
}
