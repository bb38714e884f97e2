package main

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wxtools/internal/metar"
	"wxtools/internal/recon"
)

func TestFormatObservation(t *testing.T) {
	color.NoColor = true

	obs, err := metar.Decode("KJFK 281951Z 27015G25KT 10SM FEW250 22/18 A3002 RMK AO2 SLP164")
	require.NoError(t, err)

	out := formatObservation(obs)
	assert.Contains(t, out, "Station: KJFK")
	assert.Contains(t, out, "Wind: 15 kt from the West, gusting 25 kt")
	assert.Contains(t, out, "Visibility: 10.00 mi")
	assert.Contains(t, out, "Clouds: Few at 25000 ft")
	assert.Contains(t, out, "Temperature: 22.0 °C | 71.6 °F")
	assert.Contains(t, out, "Dew Point: 18.0 °C | 64.4 °F")
	assert.Contains(t, out, "Humidity: 78%")
	assert.Contains(t, out, "Feels Like: ")
	assert.Contains(t, out, "Remarks:")
	assert.Contains(t, out, "AO2 SLP164")
}

func TestFormatObservation_minimalReport(t *testing.T) {
	color.NoColor = true

	obs, err := metar.Decode("METAR KLGA 281951Z AUTO 10SM CLR A3002")
	require.NoError(t, err)

	out := formatObservation(obs)
	assert.Contains(t, out, "Station: KLGA")
	assert.Contains(t, out, "Clouds: Clear skies")
	assert.NotContains(t, out, "Wind:")
	assert.NotContains(t, out, "Temperature:")
	assert.NotContains(t, out, "Remarks:")
}

func TestFormatRecon(t *testing.T) {
	color.NoColor = true

	raw := `URNT15 KNHC 121303
AF302 0214A KARL               HDOB 30 20221012
125400 2051N 09403W 8434 01569 0106 +160 +143 214030 034 034 006 00
130330 2114N 09427W 9257 00741 0073 +215 +186 218036 037 035 000 01
$$
;`
	msg, err := recon.DecodeMessage(raw)
	require.NoError(t, err)

	out := formatRecon(msg)
	assert.Contains(t, out, "Storm: KARL (Storm #14, Atlantic)")
	assert.Contains(t, out, "Aircraft: AF302 Air Force C130J Hercules")
	assert.Contains(t, out, "Issued: 2022-10-12 13:03 UTC")
	assert.Contains(t, out, "12:54:00  20.85N 94.05W")
	assert.Contains(t, out, "[QC: All parameters of nominal accuracy / Temp/dewpoint questionable]")
}

func TestGetStationCodeFromArgs(t *testing.T) {
	code, err := getStationCodeFromArgs([]string{"kjfk"})
	require.NoError(t, err)
	assert.Equal(t, "KJFK", code)

	_, err = getStationCodeFromArgs(nil)
	assert.Error(t, err)

	_, err = getStationCodeFromArgs([]string{"JFK"})
	assert.Error(t, err)
}

func TestGetReconProductFromArgs(t *testing.T) {
	product, err := getReconProductFromArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "URNT15-KNHC.shtml", product)

	product, err = getReconProductFromArgs([]string{"URNT11-KNHC.shtml"})
	require.NoError(t, err)
	assert.Equal(t, "URNT11-KNHC.shtml", product)
}
