package progress

// Band groups a percentage for colour coding.
type Band int

const (
	BandMinimal Band = iota // below 20
	BandLow                 // 20 to 49
	BandMid                 // 50 to 79
	BandHigh                // 80 and above
)

// BandFor returns the band a percentage falls in.
func BandFor(p int) Band {
	switch {
	case p >= 80:
		return BandHigh
	case p >= 50:
		return BandMid
	case p >= 20:
		return BandLow
	default:
		return BandMinimal
	}
}
