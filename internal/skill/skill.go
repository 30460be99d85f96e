// Package skill defines the assessment tracks and the level bands a score maps to.
package skill

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTrack = errors.New("unknown track")

type Track string

const (
	TrackWebDev Track = "webdev"
	TrackML     Track = "ml"
)

// Tracks returns every supported track in display order.
func Tracks() []Track { return []Track{TrackWebDev, TrackML} }

func (t Track) Valid() bool {
	switch t {
	case TrackWebDev, TrackML:
		return true
	}
	return false
}

func (t Track) String() string { return string(t) }

func ParseTrack(s string) (Track, error) {
	t := Track(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
	}
	return t, nil
}

type Level string

const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
)

// Levels returns the bands from lowest to highest.
func Levels() []Level { return []Level{Beginner, Intermediate, Advanced} }

func (l Level) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

func ParseLevel(s string) (Level, error) {
	for _, l := range Levels() {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level %q", s)
}

// LevelFor maps a percentage to its band: [0,40] Beginner, (40,75] Intermediate,
// (75,100] Advanced.
func LevelFor(percentage float64) Level {
	switch {
	case percentage <= 40:
		return Beginner
	case percentage <= 75:
		return Intermediate
	default:
		return Advanced
	}
}

// Message is the feedback shown to a student after a test lands in this band.
func (l Level) Message() string {
	switch l {
	case Intermediate:
		return "Nice work! You are at Intermediate level. Keep practicing and build projects."
	case Advanced:
		return "Great job! You are at Advanced level. Explore deeper topics and real-world applications."
	default:
		return "You are at Beginner level. Focus on the basics and build strong foundations."
	}
}
