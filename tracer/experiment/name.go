package experiment

import (
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"amber", "bright", "hazy", "glossy", "matte", "dim", "golden", "frosted",
		"silver", "soft", "sharp", "pale", "vivid", "dusky", "gleaming", "clear",
		"crimson", "cobalt", "scarlet", "velvet", "polished", "smoky", "opal",
		"mirrored", "tinted", "glowing", "shadowed", "radiant", "muted", "lucid",
		"warm", "cool", "quiet", "restless", "liquid", "crystal", "faint", "deep",
	}

	nouns = []string{
		"prism", "lens", "mirror", "sphere", "ray", "beam", "shadow", "photon",
		"horizon", "lantern", "window", "glass", "marble", "pearl", "comet",
		"aurora", "dawn", "dusk", "halo", "flare", "spark", "ember", "glint",
		"ripple", "crystal", "facet", "moon", "star", "candle", "pane", "gem",
		"mist", "veil", "cloud", "lake", "pool", "tide", "glow", "shimmer",
	}
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateRunName creates a memorable identifier in the form "adjective-noun"
func GenerateRunName() string {
	return adjectives[rng.Intn(len(adjectives))] + "-" + nouns[rng.Intn(len(nouns))]
}

// GenerateRunID appends a timestamp to a memorable name
func GenerateRunID(t time.Time) string {
	return GenerateRunName() + "-" + t.UTC().Format("20060102-150405")
}
