package poll

// QualityFromRSSI maps a signal strength in dBm to a 0-100 quality percentage.
func QualityFromRSSI(rssi int) int {
	switch {
	case rssi <= -100:
		return 0
	case rssi >= -50:
		return 100
	default:
		return 2 * (rssi + 100)
	}
}
