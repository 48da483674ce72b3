package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
)

// blipGenerator is a decaying square wave, used for the player's shot.
type blipGenerator struct {
	sr     beep.SampleRate
	freq   float64
	length int
	pos    int
}

func newBlip(sr beep.SampleRate, freq float64, d time.Duration) *blipGenerator {
	return &blipGenerator{sr: sr, freq: freq, length: sr.N(d)}
}

func (g *blipGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)
		// Pitch falls slightly over the blip.
		freq := g.freq * (1 - 0.3*float64(g.pos)/float64(g.length))
		v := 1.0
		if math.Sin(2*math.Pi*freq*t) < 0 {
			v = -1
		}
		amp := 0.25 * (1 - float64(g.pos)/float64(g.length))
		samples[i][0] = v * amp
		samples[i][1] = v * amp
		g.pos++
	}
	return len(samples), true
}

func (g *blipGenerator) Err() error {
	return nil
}

// boomGenerator is low-passed noise with an exponential decay.
type boomGenerator struct {
	length int
	pos    int
	cutoff float64 // One-pole smoothing factor, lower is duller
	decay  float64
	last   float64
	rng    *rand.Rand
}

func newBoom(sr beep.SampleRate, d time.Duration, cutoff float64) *boomGenerator {
	return &boomGenerator{
		length: sr.N(d),
		cutoff: cutoff,
		decay:  5,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x1f)),
	}
}

func (g *boomGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		noise := g.rng.Float64()*2 - 1
		g.last += g.cutoff * (noise - g.last)
		env := math.Exp(-g.decay * float64(g.pos) / float64(g.length))
		v := 0.6 * g.last * env
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *boomGenerator) Err() error {
	return nil
}

// sweepGenerator glides a sine from one frequency to another.
type sweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	pos      int
	phase    float64
}

func newSweep(sr beep.SampleRate, from, to float64, d time.Duration) *sweepGenerator {
	return &sweepGenerator{sr: sr, from: from, to: to, length: sr.N(d)}
}

func (g *sweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.length {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.length {
			return i, true
		}
		p := float64(g.pos) / float64(g.length)
		freq := g.from + (g.to-g.from)*p
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		v := 0.3 * math.Sin(g.phase) * (1 - p)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *sweepGenerator) Err() error {
	return nil
}

// marchNotes is the four-step descending bass line of the formation.
var marchNotes = [...]float64{98.0, 87.31, 82.41, 73.42}

// marchGenerator plays marchNotes forever, each note followed by a rest.
type marchGenerator struct {
	sr    beep.SampleRate
	step  int // Samples per note slot
	note  int // Samples of sound within a slot
	pos   int
	phase float64
}

func newMarch(sr beep.SampleRate) *marchGenerator {
	return &marchGenerator{
		sr:   sr,
		step: sr.N(400 * time.Millisecond),
		note: sr.N(120 * time.Millisecond),
	}
}

func (g *marchGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		slot := (g.pos / g.step) % len(marchNotes)
		within := g.pos % g.step
		v := 0.0
		if within < g.note {
			g.phase += 2 * math.Pi * marchNotes[slot] / float64(g.sr)
			// Triangle-ish tone for a softer bass.
			v = 0.35 * (2 / math.Pi) * math.Asin(math.Sin(g.phase))
			v *= 1 - float64(within)/float64(g.note)
		}
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *marchGenerator) Err() error {
	return nil
}
